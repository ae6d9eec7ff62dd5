package price

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists price observations.
//
// Assumed table:
//   region_prices (region_code TEXT, region_name TEXT,
//                  price_krw_per_kg DOUBLE PRECISION,
//                  effective_date DATE,
//                  PRIMARY KEY (region_code, effective_date))
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const priceColumns = `region_code, region_name, price_krw_per_kg, effective_date`

func scanPrice(row interface{ Scan(...any) error }) (RegionPrice, error) {
	var p RegionPrice
	err := row.Scan(&p.RegionCode, &p.RegionName, &p.PriceKRWPerKg, &p.EffectiveDate)
	return p, err
}

func (r *PostgresRepo) Latest(ctx context.Context) ([]RegionPrice, error) {
	const q = `
SELECT DISTINCT ON (region_code) ` + priceColumns + `
FROM region_prices
ORDER BY region_code, effective_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RegionPrice
	for rows.Next() {
		p, err := scanPrice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) LatestByRegion(ctx context.Context, regionCode string) (RegionPrice, bool, error) {
	const q = `
SELECT ` + priceColumns + `
FROM region_prices
WHERE region_code = $1
ORDER BY effective_date DESC
LIMIT 1`
	p, err := scanPrice(r.db.QueryRowContext(ctx, q, regionCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RegionPrice{}, false, nil
		}
		return RegionPrice{}, false, err
	}
	return p, true, nil
}

func (r *PostgresRepo) Record(ctx context.Context, p RegionPrice) error {
	const q = `
INSERT INTO region_prices (region_code, region_name, price_krw_per_kg, effective_date)
VALUES ($1,$2,$3,$4)
ON CONFLICT (region_code, effective_date)
DO UPDATE SET region_name = EXCLUDED.region_name,
              price_krw_per_kg = EXCLUDED.price_krw_per_kg`
	_, err := r.db.ExecContext(ctx, q, p.RegionCode, p.RegionName, p.PriceKRWPerKg, p.EffectiveDate)
	return err
}
