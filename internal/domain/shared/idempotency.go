package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been acted
// on, so retried payout submissions do not run twice.
type IdempotencyStore interface {
	// MarkProcessed records the key for ttl. It reports true when the
	// key was not yet known, false when a previous call already
	// claimed it.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key is currently recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets the key so the batch can be retried, used when
	// the work claimed under the key failed before taking effect.
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig controls duplicate-request detection.
type IdempotencyConfig struct {
	// TTL bounds how long a key blocks replays. A retry after the TTL
	// is treated as a new request.
	TTL time.Duration

	Enabled bool
}

// DefaultIdempotencyConfig keeps keys for a full day, long enough to
// cover client retry windows and overnight batch reruns.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
