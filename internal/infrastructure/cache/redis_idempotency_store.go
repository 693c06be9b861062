package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "mpesa:callback:"

// RedisIdempotencyStore implements IdempotencyStore using Redis, for
// deployments where multiple instances receive gateway callbacks.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a new Redis-based idempotency store
func NewRedisIdempotencyStore(cfg config.RedisConfig) (*RedisIdempotencyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}, nil
}

// NewRedisIdempotencyStoreWithClient creates a store with an existing client
func NewRedisIdempotencyStoreWithClient(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed marks a callback as processed with a TTL. SETNX makes the
// check-and-mark a single atomic operation.
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, callbackID string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+callbackID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark callback as processed: %w", err)
	}
	return result, nil
}

// IsProcessed checks if a callback has already been processed
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, callbackID string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+callbackID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check callback: %w", err)
	}
	return exists > 0, nil
}

// Unmark deletes the processed mark so a retried callback is handled again
func (s *RedisIdempotencyStore) Unmark(ctx context.Context, callbackID string) error {
	if err := s.client.Del(ctx, s.keyPrefix+callbackID).Err(); err != nil {
		return fmt.Errorf("failed to unmark callback: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
