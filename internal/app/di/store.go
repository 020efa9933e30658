package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"market_data/internal/app/config"
	"market_data/internal/feature/quotes/adapters"
	"market_data/internal/feature/quotes/usecase"
	"market_data/internal/platform/cache"
	infraredis "market_data/internal/platform/redis"
)

// NewQuoteRepository creates the QuoteRepository implementation.
// If Redis is available, reads go through a Redis cache in front of the database.
// Otherwise, it uses the database directly.
func NewQuoteRepository(rdb *redis.Client, db *gorm.DB, ttl cache.TTLFunc) usecase.QuoteRepository {
	store := adapters.NewQuoteRepository(db)
	if rdb != nil {
		return cache.NewCachingQuoteRepository(rdb, ttl, store, "quotes")
	}
	return store
}

// NewStore connects to the optional Redis cache and builds the QuoteRepository over db.
// Every process that writes quotes must use it so that writes invalidate the
// cache the server reads from. The returned func closes the Redis client.
func NewStore(ctx context.Context, cfg config.Config, db *gorm.DB) (usecase.QuoteRepository, func(), error) {
	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load redis config: %w", err)
	}
	rdb, err := infraredis.NewRedisClient(ctx, redisCfg)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}

	closeFn := func() {}
	if rdb != nil {
		closeFn = func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}
	}
	ttl := cache.UntilNextHour(cfg.CacheRefreshHour, cfg.CacheLocation())
	return NewQuoteRepository(rdb, db, ttl), closeFn, nil
}
