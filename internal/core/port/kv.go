package port

import (
	"context"
	"time"
)

// KVStore is the outbound port over the cache/counter store. Keys are
// namespaced by purpose (campaign snapshot, hourly stats, frequency
// counters). Increment operations must be atomic under concurrent writers;
// the expiry-bearing variants keep the TTL contract visible at the
// interface rather than refreshing it implicitly on write.
type KVStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error

	// IncrWithExpiry atomically increments a counter by delta, applies the
	// TTL and returns the new value.
	IncrWithExpiry(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	// GetCounter reads a counter; a missing key reads as zero.
	GetCounter(ctx context.Context, key string) (int64, error)

	// HIncrWithExpiry atomically increments a hash field by delta and applies
	// the TTL to the hash key.
	HIncrWithExpiry(ctx context.Context, key, field string, delta int64, ttl time.Duration) error
}
