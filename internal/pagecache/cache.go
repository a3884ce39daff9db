// Package pagecache holds the rendered first page of the global feed for a
// fixed time window. Staleness is purely time-based; writes to posts never
// invalidate it.
package pagecache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
)

// DefaultTTL is how long a stored page is served without rebuilding.
const DefaultTTL = 20 * time.Second

// Snapshot is one rendered page and the moment it was stored.
type Snapshot struct {
	Body     []byte    `json:"body"`
	StoredAt time.Time `json:"stored_at"`
}

// Store persists the single cache slot. Load reports false when the slot is empty.
type Store interface {
	Load(ctx context.Context) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Option mutates cache configuration.
type Option func(*Cache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger injects a logger; the package logger is used otherwise.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// Cache is a best-effort single-slot page cache. Store failures are logged and
// reported as a miss or a dropped write.
type Cache struct {
	store Store
	ttl   time.Duration
	clock func() time.Time
	log   *zap.Logger
}

func New(store Store, ttl time.Duration, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	if ttl < 0 {
		ttl = 0
	}
	c := &Cache{store: store, ttl: ttl, clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.L()
	}
	return c
}

// TTL returns the configured freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the stored page if it was stored less than TTL ago.
func (c *Cache) Get(ctx context.Context) ([]byte, bool) {
	snap, ok, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn("page cache load failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	// 时间戳来自未来（多实例时钟偏差）按过期处理
	if age := c.clock().Sub(snap.StoredAt); age < 0 || age >= c.ttl {
		return nil, false
	}
	return snap.Body, true
}

// Put overwrites the slot with body stamped at the current clock time.
func (c *Cache) Put(ctx context.Context, body []byte) {
	if c.ttl == 0 {
		return
	}
	snap := Snapshot{Body: append([]byte(nil), body...), StoredAt: c.clock()}
	if err := c.store.Save(ctx, snap, c.ttl); err != nil {
		c.log.Warn("page cache save failed", zap.Error(err))
	}
}

// Invalidate empties the slot.
func (c *Cache) Invalidate(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn("page cache clear failed", zap.Error(err))
	}
}
