package price

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyMap    = "price:map"
	cacheKeyRegion = "price:region:"
)

// CachedRepo is a read-through cache in front of another Repository.
// Reads hit redis first; misses fall through and populate the cache.
// Record writes through and invalidates.
type CachedRepo struct {
	next Repository
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedRepo(next Repository, rdb *redis.Client, ttl time.Duration) *CachedRepo {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRepo{next: next, rdb: rdb, ttl: ttl}
}

func (r *CachedRepo) Latest(ctx context.Context) ([]RegionPrice, error) {
	raw, err := r.rdb.Get(ctx, cacheKeyMap).Bytes()
	if err == nil {
		var out []RegionPrice
		if json.Unmarshal(raw, &out) == nil {
			return out, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	out, err := r.next.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(out); err == nil {
		r.rdb.Set(ctx, cacheKeyMap, raw, r.ttl)
	}
	return out, nil
}

func (r *CachedRepo) LatestByRegion(ctx context.Context, regionCode string) (RegionPrice, bool, error) {
	key := cacheKeyRegion + regionCode
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var p RegionPrice
		if json.Unmarshal(raw, &p) == nil {
			return p, true, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return RegionPrice{}, false, err
	}

	p, ok, err := r.next.LatestByRegion(ctx, regionCode)
	if err != nil || !ok {
		return RegionPrice{}, ok, err
	}
	if raw, err := json.Marshal(p); err == nil {
		r.rdb.Set(ctx, key, raw, r.ttl)
	}
	return p, true, nil
}

func (r *CachedRepo) Record(ctx context.Context, p RegionPrice) error {
	if err := r.next.Record(ctx, p); err != nil {
		return err
	}
	r.rdb.Del(ctx, cacheKeyMap, cacheKeyRegion+p.RegionCode)
	return nil
}
