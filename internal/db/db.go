package db

import (
	"context"
	"time"
)

// Store is everything topicd keeps outside process memory: cached generations
// and token counters. Consumers declare the narrow slice they need.
type Store interface {
	Pinger
	Cache
	Counter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache holds opaque values that expire on their own.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Counter increments integer keys.
type Counter interface {
	// IncrByWithTTL adds val and returns the new total. The TTL is applied only
	// when the key has none yet, so the first write of a period fixes its expiry.
	IncrByWithTTL(ctx context.Context, key string, val int64, ttl time.Duration) (int64, error)
}
