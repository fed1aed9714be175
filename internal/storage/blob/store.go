// Package blob stores generated logo files and hands out their public URLs.
package blob

import "context"

// Store is an object store whose objects are publicly readable once Put returns.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
