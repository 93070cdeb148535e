// Package cache provides the two-tier table cache: a pluggable TTL
// key/value Store plus a Manager layering primary/backup fallback and
// restore semantics on top.
//
// The Manager never surfaces read problems to callers. A corrupt or
// unreadable payload at either tier is treated exactly like an absent one,
// making recomputation the single recovery mechanism. Writes are
// best-effort: failures are logged and swallowed because caching is a
// performance optimization, never a correctness requirement.
package cache

import (
	"context"
	"time"
)

// Store is a TTL key/value store. Implementations enforce expiry at read
// time: an expired entry reports absent.
type Store interface {
	// Get returns the value stored under key. The bool reports presence;
	// missing or expired keys return (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores value under key for ttl. A ttl of zero or less stores the
	// value without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
