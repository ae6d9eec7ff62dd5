package hydrogen

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory repository for tests and early development.
type MemoryRepo struct {
	mu      sync.Mutex
	records []ProductionRecord
}

func NewMemoryRepo() *MemoryRepo { return &MemoryRepo{} }

func (r *MemoryRepo) ListRecords(ctx context.Context, facilityID int64, from, to time.Time) ([]ProductionRecord, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []ProductionRecord
	for _, rec := range r.records {
		if rec.FacilityID != facilityID {
			continue
		}
		if rec.RecordedAt.Before(from) || !rec.RecordedAt.Before(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (r *MemoryRepo) Insert(ctx context.Context, rec ProductionRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}
