package hydrogen

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Repository abstracts production sample persistence.
type Repository interface {
	ListRecords(ctx context.Context, facilityID int64, from, to time.Time) ([]ProductionRecord, error)
	Insert(ctx context.Context, rec ProductionRecord) error
}

var ErrInvalidRange = errors.New("hydrogen: invalid time range")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Record(ctx context.Context, rec ProductionRecord) error {
	if rec.FacilityID == 0 || rec.RecordedAt.IsZero() {
		return ErrInvalidRange
	}
	rec.RecordedAt = rec.RecordedAt.UTC().Truncate(time.Hour)
	return s.repo.Insert(ctx, rec)
}

func (s *Service) Hourly(ctx context.Context, facilityID int64, from, to time.Time) ([]BucketTotal, error) {
	return s.aggregate(ctx, facilityID, from, to, hourKey)
}

func (s *Service) Daily(ctx context.Context, facilityID int64, from, to time.Time) ([]BucketTotal, error) {
	return s.aggregate(ctx, facilityID, from, to, dayKey)
}

func (s *Service) Weekly(ctx context.Context, facilityID int64, from, to time.Time) ([]BucketTotal, error) {
	return s.aggregate(ctx, facilityID, from, to, weekKey)
}

func (s *Service) Monthly(ctx context.Context, facilityID int64, from, to time.Time) ([]BucketTotal, error) {
	return s.aggregate(ctx, facilityID, from, to, monthKey)
}

// Summary computes the KPI card numbers over the range.
func (s *Service) Summary(ctx context.Context, facilityID int64, from, to time.Time) (Summary, error) {
	if err := checkRange(from, to); err != nil {
		return Summary{}, err
	}
	records, err := s.repo.ListRecords(ctx, facilityID, from, to)
	if err != nil {
		return Summary{}, err
	}
	return summarize(facilityID, records), nil
}

func (s *Service) aggregate(ctx context.Context, facilityID int64, from, to time.Time, key func(time.Time) string) ([]BucketTotal, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	records, err := s.repo.ListRecords(ctx, facilityID, from, to)
	if err != nil {
		return nil, err
	}
	return bucket(records, key), nil
}

func checkRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return ErrInvalidRange
	}
	return nil
}

/* ===== pure aggregation ===== */

func hourKey(t time.Time) string { return t.UTC().Format("2006-01-02T15") }
func dayKey(t time.Time) string  { return t.UTC().Format("2006-01-02") }

func weekKey(t time.Time) string {
	y, w := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}

func monthKey(t time.Time) string { return t.UTC().Format("2006-01") }

// bucket groups samples by key, summing output and averaging power.
// Result is ordered by period.
func bucket(records []ProductionRecord, key func(time.Time) string) []BucketTotal {
	totals := map[string]*BucketTotal{}
	for _, rec := range records {
		k := key(rec.RecordedAt)
		b, ok := totals[k]
		if !ok {
			b = &BucketTotal{Period: k}
			totals[k] = b
		}
		b.KgProduced += rec.KgProduced
		b.AvgPowerKW += rec.PowerKW
		b.Samples++
	}

	out := make([]BucketTotal, 0, len(totals))
	for _, b := range totals {
		if b.Samples > 0 {
			b.AvgPowerKW /= float64(b.Samples)
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func summarize(facilityID int64, records []ProductionRecord) Summary {
	out := Summary{FacilityID: facilityID}
	for _, rec := range records {
		out.TotalKg += rec.KgProduced
		if rec.PowerKW > out.PeakPowerKW {
			out.PeakPowerKW = rec.PowerKW
		}
		if rec.PowerKW == 0 {
			out.IdleHours++
		}
	}
	if n := len(records); n > 0 {
		out.AvgKgPerHour = out.TotalKg / float64(n)
	}
	return out
}
