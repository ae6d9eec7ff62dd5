package price

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Repository abstracts price persistence.
type Repository interface {
	// Latest returns the most recent observation per region, ordered by
	// region code.
	Latest(ctx context.Context) ([]RegionPrice, error)
	// LatestByRegion returns the most recent observation for one region.
	LatestByRegion(ctx context.Context, regionCode string) (RegionPrice, bool, error)
	// Record appends an observation.
	Record(ctx context.Context, p RegionPrice) error
}

var (
	ErrNotFound = errors.New("price: region not found")
	ErrInvalid  = errors.New("price: invalid observation")
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Map returns the latest price per region, the choropleth feed.
func (s *Service) Map(ctx context.Context) ([]RegionPrice, error) {
	return s.repo.Latest(ctx)
}

func (s *Service) ByRegion(ctx context.Context, regionCode string) (RegionPrice, error) {
	p, ok, err := s.repo.LatestByRegion(ctx, regionCode)
	if err != nil {
		return RegionPrice{}, err
	}
	if !ok {
		return RegionPrice{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) Record(ctx context.Context, p RegionPrice) error {
	if strings.TrimSpace(p.RegionCode) == "" || strings.TrimSpace(p.RegionName) == "" {
		return ErrInvalid
	}
	if p.PriceKRWPerKg <= 0 {
		return ErrInvalid
	}
	if p.EffectiveDate.IsZero() {
		p.EffectiveDate = s.clock().UTC().Truncate(24 * time.Hour)
	}
	return s.repo.Record(ctx, p)
}
