package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"trustly/internal/services"
	"trustly/pkg/config"
	mem "trustly/pkg/memcache"
)

const sweepInterval = time.Minute

var Module = fx.Provide(provideCacheStore, provideFormCache)

// provideCacheStore uses Redis when REDIS_ADDR is set and a swept in-process map otherwise.
func provideCacheStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (mem.Store, error) {
	if cfg.Redis.Enabled() {
		store, err := mem.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return store.Close() }})
		return store, nil
	}

	store := mem.NewMemoryStore()
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("swept expired cache entries", zap.Int("count", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(done)
			return store.Close()
		},
	})
	return store, nil
}

func provideFormCache(store mem.Store, cfg *config.Config, log *zap.Logger) *services.FormCache {
	return services.NewFormCache(store, cfg.FormCacheTTL, log)
}
