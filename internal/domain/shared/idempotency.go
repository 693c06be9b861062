package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores processed callback IDs to prevent duplicate processing
type IdempotencyStore interface {
	// MarkProcessed marks a callback as processed with a TTL.
	// Returns true if the callback was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, callbackID string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a callback has already been processed
	IsProcessed(ctx context.Context, callbackID string) (bool, error)

	// Unmark removes a processed mark so a retried callback is handled
	// again. Used when processing fails after the mark was taken.
	Unmark(ctx context.Context, callbackID string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed callback IDs.
	// After this duration, the same callback ID would be processed again.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
