// Package memcache provides the small key/value cache used for public form lookups.
package memcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Store interface {
	// Get returns ok=false when the key is missing or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetJSON decodes a cached JSON value into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// a corrupt entry is treated as a miss and evicted
		_ = s.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode cache value")
	}
	return s.Set(ctx, key, raw, ttl)
}
