package cache

import (
	"github.com/crewpay/backend/internal/domain/shared"
	"github.com/crewpay/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the callback idempotency store from config.
// Redis is used when enabled; if Redis is unreachable the store falls back
// to the in-memory implementation so callbacks keep flowing on a single
// instance.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		logger.Info("using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("using redis idempotency store", zap.String("addr", cfg.Addr()))
	return store
}
