package alarm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for alarm events.
// It is append-only; no Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
	ListByFacility(ctx context.Context, facilityID int64, limit int) ([]Event, error)
}

var ErrInvalidEvent = errors.New("alarm: invalid event")

// Service records operational alarms. Callers should treat alarm
// logging as best-effort and never block a data flow on it.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if e.FacilityID == 0 || e.Type == "" {
		return ErrInvalidEvent
	}
	if e.Severity == "" {
		e.Severity = SeverityInfo
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Recent returns the newest events for one facility, newest first.
func (s *Service) Recent(ctx context.Context, facilityID int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListByFacility(ctx, facilityID, limit)
}
