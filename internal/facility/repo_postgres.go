package facility

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists facilities.
//
// Assumed table:
//   facilities (id BIGSERIAL PK, org_id BIGINT, name TEXT, type TEXT,
//               max_power_kw DOUBLE PRECISION, region_code TEXT,
//               location TEXT, installed_at TIMESTAMPTZ,
//               created_at TIMESTAMPTZ, updated_at TIMESTAMPTZ)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const facilityColumns = `id, org_id, name, type, max_power_kw, region_code, location, installed_at, created_at, updated_at`

func scanFacility(row interface{ Scan(...any) error }) (Facility, error) {
	var f Facility
	err := row.Scan(
		&f.ID,
		&f.OrgID,
		&f.Name,
		&f.Type,
		&f.MaxPowerKW,
		&f.RegionCode,
		&f.Location,
		&f.InstalledAt,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return f, err
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Facility, bool, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`
	f, err := scanFacility(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Facility{}, false, nil
		}
		return Facility{}, false, err
	}
	return f, true, nil
}

func (r *PostgresRepo) ListByOrg(ctx context.Context, orgID int64) ([]Facility, error) {
	const q = `SELECT ` + facilityColumns + ` FROM facilities WHERE org_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Facility
	for rows.Next() {
		f, err := scanFacility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, f Facility) (Facility, error) {
	const q = `
INSERT INTO facilities (org_id, name, type, max_power_kw, region_code, location, installed_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + facilityColumns
	return scanFacility(r.db.QueryRowContext(ctx, q,
		f.OrgID, f.Name, f.Type, f.MaxPowerKW, f.RegionCode, f.Location, f.InstalledAt, f.CreatedAt, f.UpdatedAt,
	))
}

func (r *PostgresRepo) Update(ctx context.Context, f Facility) (Facility, bool, error) {
	const q = `
UPDATE facilities
SET name = $2, type = $3, max_power_kw = $4, region_code = $5, location = $6,
    installed_at = $7, updated_at = $8
WHERE id = $1
RETURNING ` + facilityColumns
	updated, err := scanFacility(r.db.QueryRowContext(ctx, q,
		f.ID, f.Name, f.Type, f.MaxPowerKW, f.RegionCode, f.Location, f.InstalledAt, f.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Facility{}, false, nil
		}
		return Facility{}, false, err
	}
	return updated, true, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) (bool, error) {
	const q = `DELETE FROM facilities WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
