package cache

import (
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/types"
)

// Initialize builds the cache backend selected by cache.backend. A redis
// backend that cannot be reached falls back to the in-memory cache.
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("initializing cache", "backend", cfg.Cache.Backend, "enabled", cfg.Cache.Enabled)

	if !cfg.Cache.Enabled {
		return NewNoopCache()
	}

	switch cfg.Cache.Backend {
	case types.CacheBackendNone:
		return NewNoopCache()
	case types.CacheBackendRedis:
		client, err := NewRedisClient(cfg, log)
		if err != nil {
			log.Errorw("redis cache unavailable, using in-memory cache", "error", err)
			return NewInMemoryCache(cfg)
		}
		return NewRedisCache(client, cfg, log)
	default:
		return NewInMemoryCache(cfg)
	}
}
