package facility

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
type MemoryRepo struct {
	mu         sync.Mutex
	nextID     int64
	facilities map[int64]Facility
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, facilities: map[int64]Facility{}}
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (Facility, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.facilities[id]
	return f, ok, nil
}

func (r *MemoryRepo) ListByOrg(ctx context.Context, orgID int64) ([]Facility, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Facility
	for _, f := range r.facilities {
		if f.OrgID == orgID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, f Facility) (Facility, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.nextID
	r.nextID++
	r.facilities[f.ID] = f
	return f, nil
}

func (r *MemoryRepo) Update(ctx context.Context, f Facility) (Facility, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.facilities[f.ID]
	if !ok {
		return Facility{}, false, nil
	}
	f.CreatedAt = old.CreatedAt
	r.facilities[f.ID] = f
	return f, true, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.facilities[id]; !ok {
		return false, nil
	}
	delete(r.facilities, id)
	return true, nil
}
