package hydrogen

import (
	"context"
	"errors"
	"testing"
	"time"
)

func hour(d, h int) time.Time {
	return time.Date(2026, 8, d, h, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, svc *Service, records []ProductionRecord) {
	t.Helper()
	for _, rec := range records {
		if err := svc.Record(context.Background(), rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
}

func TestDailyTotals(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seed(t, svc, []ProductionRecord{
		{FacilityID: 1, RecordedAt: hour(1, 9), KgProduced: 40, PowerKW: 2000},
		{FacilityID: 1, RecordedAt: hour(1, 10), KgProduced: 44, PowerKW: 2200},
		{FacilityID: 1, RecordedAt: hour(2, 9), KgProduced: 38, PowerKW: 1900},
		{FacilityID: 2, RecordedAt: hour(1, 9), KgProduced: 99, PowerKW: 5000},
	})

	got, err := svc.Daily(context.Background(), 1, hour(1, 0), hour(3, 0))
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Period != "2026-08-01" || got[0].KgProduced != 84 || got[0].Samples != 2 {
		t.Fatalf("day 1 = %+v", got[0])
	}
	if got[0].AvgPowerKW != 2100 {
		t.Fatalf("day 1 avg power = %v", got[0].AvgPowerKW)
	}
	if got[1].Period != "2026-08-02" || got[1].KgProduced != 38 {
		t.Fatalf("day 2 = %+v", got[1])
	}
}

func TestHourlyRespectsRange(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seed(t, svc, []ProductionRecord{
		{FacilityID: 1, RecordedAt: hour(1, 9), KgProduced: 40, PowerKW: 2000},
		{FacilityID: 1, RecordedAt: hour(1, 12), KgProduced: 42, PowerKW: 2100},
	})

	got, err := svc.Hourly(context.Background(), 1, hour(1, 0), hour(1, 10))
	if err != nil {
		t.Fatalf("hourly: %v", err)
	}
	if len(got) != 1 || got[0].Period != "2026-08-01T09" {
		t.Fatalf("buckets = %+v", got)
	}
}

func TestWeeklyAndMonthlyKeys(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	// Aug 30 2026 is a Sunday (ISO week 35); Aug 31 starts week 36.
	seed(t, svc, []ProductionRecord{
		{FacilityID: 1, RecordedAt: hour(30, 9), KgProduced: 10, PowerKW: 500},
		{FacilityID: 1, RecordedAt: hour(31, 9), KgProduced: 20, PowerKW: 900},
	})

	weekly, err := svc.Weekly(context.Background(), 1, hour(29, 0), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("weekly: %v", err)
	}
	if len(weekly) != 2 || weekly[0].Period != "2026-W35" || weekly[1].Period != "2026-W36" {
		t.Fatalf("weekly = %+v", weekly)
	}

	monthly, err := svc.Monthly(context.Background(), 1, hour(1, 0), time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if len(monthly) != 1 || monthly[0].Period != "2026-08" || monthly[0].KgProduced != 30 {
		t.Fatalf("monthly = %+v", monthly)
	}
}

func TestSummary(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	seed(t, svc, []ProductionRecord{
		{FacilityID: 1, RecordedAt: hour(1, 9), KgProduced: 40, PowerKW: 2000},
		{FacilityID: 1, RecordedAt: hour(1, 10), KgProduced: 50, PowerKW: 2500},
		{FacilityID: 1, RecordedAt: hour(1, 11), KgProduced: 0, PowerKW: 0},
	})

	got, err := svc.Summary(context.Background(), 1, hour(1, 0), hour(2, 0))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.TotalKg != 90 || got.PeakPowerKW != 2500 || got.IdleHours != 1 {
		t.Fatalf("summary = %+v", got)
	}
	if got.AvgKgPerHour != 30 {
		t.Fatalf("avg = %v", got.AvgKgPerHour)
	}
}

func TestInvalidRange(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if _, err := svc.Daily(context.Background(), 1, hour(2, 0), hour(1, 0)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.Summary(context.Background(), 1, time.Time{}, hour(1, 0)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordTruncatesToHour(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Record(context.Background(), ProductionRecord{
		FacilityID: 1,
		RecordedAt: time.Date(2026, 8, 1, 9, 42, 13, 0, time.UTC),
		KgProduced: 40,
		PowerKW:    2000,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := repo.ListRecords(context.Background(), 1, hour(1, 0), hour(2, 0))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || !records[0].RecordedAt.Equal(hour(1, 9)) {
		t.Fatalf("records = %+v", records)
	}
}
