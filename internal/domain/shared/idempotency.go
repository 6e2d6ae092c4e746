package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which event IDs have been handled so that
// redelivered events are dropped instead of processed twice.
type IdempotencyStore interface {
	// MarkProcessed records an event ID for the given TTL. It returns true
	// when the ID was newly recorded and false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the event ID has already been recorded
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Close releases any resources held by the store
	Close() error
}

// IdempotencyConfig controls duplicate-event suppression
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered. After it lapses
	// the same ID would be handled again.
	TTL time.Duration

	// Enabled toggles the idempotency check entirely
	Enabled bool
}

// DefaultIdempotencyConfig remembers processed events for 24 hours
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
