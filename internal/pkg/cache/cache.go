package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values by key. A miss is (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type nopCache struct{}

// NewNopCache returns a Cache that stores nothing. Used when Redis is disabled.
func NewNopCache() Cache {
	return nopCache{}
}

func (nopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (nopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (nopCache) Delete(context.Context, ...string) error { return nil }
