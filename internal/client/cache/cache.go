// Package cache provides the local key-value persistence used for the
// guest-mode dream collection, the offline request queue snapshot, and the
// read-path fallback. Values are JSON serialized by callers; the cache itself
// is opaque bytes-in/bytes-out.
package cache

import "context"

// Cache is the persistence capability the core components consume.
// A missing key is not an error: Get returns (nil, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
