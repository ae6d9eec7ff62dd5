package price

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
type MemoryRepo struct {
	mu           sync.Mutex
	observations []RegionPrice
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) Latest(ctx context.Context) ([]RegionPrice, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	latest := map[string]RegionPrice{}
	for _, p := range r.observations {
		cur, ok := latest[p.RegionCode]
		if !ok || p.EffectiveDate.After(cur.EffectiveDate) {
			latest[p.RegionCode] = p
		}
	}

	out := make([]RegionPrice, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegionCode < out[j].RegionCode })
	return out, nil
}

func (r *MemoryRepo) LatestByRegion(ctx context.Context, regionCode string) (RegionPrice, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var best RegionPrice
	found := false
	for _, p := range r.observations {
		if p.RegionCode != regionCode {
			continue
		}
		if !found || p.EffectiveDate.After(best.EffectiveDate) {
			best = p
			found = true
		}
	}
	return best, found, nil
}

func (r *MemoryRepo) Record(ctx context.Context, p RegionPrice) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observations = append(r.observations, p)
	return nil
}
