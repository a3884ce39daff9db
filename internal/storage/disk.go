package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DiskStore keeps images under BasePath; they are served by the router under BaseURL.
type DiskStore struct {
	BasePath string
	BaseURL  string

	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStore(basePath, baseURL string) *DiskStore {
	return &DiskStore{
		BasePath: basePath,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		dirs:     make(map[string]bool, 4),
	}
}

func (s *DiskStore) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if s.dirs[dir] {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.dirs[dir] = true
	return nil
}

func (s *DiskStore) fullPath(key string) string {
	return filepath.Join(s.BasePath, filepath.FromSlash(key))
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := NewKey(name)
	fileName := s.fullPath(key)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}
	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	_, err = io.Copy(file, r)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write file: %w", err)
	}
	return key, nil
}

func (s *DiskStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.BaseURL + "/" + key
}
