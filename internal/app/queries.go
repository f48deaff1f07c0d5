package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"hotel_management/internal/domain"
)

func hotelKey(id string) string { return "hotel:" + id }
func roomKey(id string) string  { return "room:" + id }

// viewCache is a read-through cache for the aggregate views. A nil cache
// disables it; cache failures never fail the request.
type viewCache struct {
	cache domain.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func newViewCache(c domain.Cache, ttl time.Duration, log zerolog.Logger) *viewCache {
	return &viewCache{cache: c, ttl: ttl, log: log}
}

func (v *viewCache) enabled() bool { return v != nil && v.cache != nil && v.ttl > 0 }

func cached[T any](ctx context.Context, v *viewCache, key string, load func(context.Context) (T, error)) (T, error) {
	if v.enabled() {
		var out T
		if ok, _ := v.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	out, err := load(ctx)
	if err != nil {
		return out, err
	}
	if v.enabled() {
		if err := v.cache.Set(ctx, key, out, int(v.ttl.Seconds())); err != nil {
			v.log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return out, nil
}

// invalidate drops the given keys. Call it after the transaction committed.
func (v *viewCache) invalidate(ctx context.Context, keys ...string) {
	if !v.enabled() {
		return
	}
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if err := v.cache.Del(ctx, k); err != nil {
			v.log.Warn().Err(err).Str("key", k).Msg("cache invalidate failed")
		}
	}
}
