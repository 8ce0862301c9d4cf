package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"trustly/pkg/memcache"
)

// FormCache memoises resolved public forms. Cache failures are logged and treated as misses so
// the public form keeps working when Redis is down.
type FormCache struct {
	store  memcache.Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewFormCache(store memcache.Store, ttl time.Duration, logger *zap.Logger) *FormCache {
	return &FormCache{store: store, ttl: ttl, logger: logger.Named("form_cache")}
}

func slugFormKey(slug string) string { return "form:slug:" + slug }

func businessFormKey(businessID uuid.UUID) string { return "form:business:" + businessID.String() }

func (c *FormCache) get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.ttl <= 0 {
		return false
	}
	ok, err := memcache.GetJSON(ctx, c.store, key, dst)
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (c *FormCache) put(ctx context.Context, key string, v any) {
	if c == nil || c.ttl <= 0 {
		return
	}
	if err := memcache.SetJSON(ctx, c.store, key, v, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the cached forms of a business and of the given campaign slugs.
func (c *FormCache) Invalidate(ctx context.Context, businessID uuid.UUID, slugs ...string) {
	if c == nil {
		return
	}
	keys := []string{businessFormKey(businessID)}
	for _, s := range slugs {
		keys = append(keys, slugFormKey(s))
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
