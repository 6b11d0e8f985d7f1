package ports

import (
	"context"
	"time"
)

// Cache is a key-value store for small pieces of state owned by a single component,
// such as the last notification published per aggregate.
// Adapters may be backed by the relational store or by process memory.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
