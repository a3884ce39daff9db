package pagecache

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu   sync.RWMutex
	snap Snapshot
	set  bool
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(context.Context) (Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.set, nil
}

func (s *MemoryStore) Save(_ context.Context, snap Snapshot, _ time.Duration) error {
	s.mu.Lock()
	s.snap, s.set = snap, true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.snap, s.set = Snapshot{}, false
	s.mu.Unlock()
	return nil
}
