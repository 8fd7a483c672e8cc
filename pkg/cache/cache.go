// Package cache stores serialized decomposition results keyed by graph
// content and run options.
//
// # Backends
//
//   - [FileCache]: one JSON envelope per key under a directory, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: disables caching
//
// All backends store opaque bytes. [Compress] and [Decompress] wrap payloads
// with snappy before they are handed to a backend.
//
// # Keys
//
// A [Keyer] derives keys from a graph hash (see [Hash]) and the options
// that change the outcome of a run. [NewScopedKeyer] prefixes every key so
// several tenants can share one backend.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/conga/pkg/observability"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Observed wraps c so hits, misses and writes are reported to the cache
// hooks registered in package observability under keyType.
func Observed(c Cache, keyType string) Cache {
	return &observed{Cache: c, keyType: keyType}
}

type observed struct {
	Cache
	keyType string
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, o.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, o.keyType)
	}
	return data, ok, nil
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, o.keyType, len(data))
	return nil
}
