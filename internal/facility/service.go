package facility

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Repository abstracts facility persistence.
type Repository interface {
	FindByID(ctx context.Context, id int64) (Facility, bool, error)
	ListByOrg(ctx context.Context, orgID int64) ([]Facility, error)
	Create(ctx context.Context, f Facility) (Facility, error)
	Update(ctx context.Context, f Facility) (Facility, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

var (
	ErrNotFound = errors.New("facility: not found")
	ErrInvalid  = errors.New("facility: invalid facility")
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Create(ctx context.Context, f Facility) (Facility, error) {
	if err := validate(f); err != nil {
		return Facility{}, err
	}
	now := s.clock().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	return s.repo.Create(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (Facility, error) {
	f, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Facility{}, err
	}
	if !ok {
		return Facility{}, ErrNotFound
	}
	return f, nil
}

func (s *Service) ListByOrg(ctx context.Context, orgID int64) ([]Facility, error) {
	return s.repo.ListByOrg(ctx, orgID)
}

func (s *Service) Update(ctx context.Context, f Facility) (Facility, error) {
	if f.ID == 0 {
		return Facility{}, ErrInvalid
	}
	if err := validate(f); err != nil {
		return Facility{}, err
	}
	f.UpdatedAt = s.clock().UTC()
	updated, ok, err := s.repo.Update(ctx, f)
	if err != nil {
		return Facility{}, err
	}
	if !ok {
		return Facility{}, ErrNotFound
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func validate(f Facility) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalid
	}
	if !validType(f.Type) {
		return ErrInvalid
	}
	if f.MaxPowerKW <= 0 {
		return ErrInvalid
	}
	if f.OrgID == 0 {
		return ErrInvalid
	}
	return nil
}
