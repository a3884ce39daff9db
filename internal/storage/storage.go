// Package storage persists uploaded post images.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImageStore saves an image and returns the key under which it can be served.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	URL(key string) string
}

// NewKey builds a unique object key, keeping the extension of the uploaded name.
func NewKey(name string) string {
	ext := strings.ToLower(path.Ext(name))
	return "posts/" + uuid.NewString() + ext
}
