package hydrogen

import (
	"context"
	"database/sql"
	"time"
)

// PostgresRepo persists production samples.
//
// Assumed table:
//   production_records (facility_id BIGINT, recorded_at TIMESTAMPTZ,
//                       kg_produced DOUBLE PRECISION, power_kw DOUBLE PRECISION,
//                       PRIMARY KEY (facility_id, recorded_at))
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) ListRecords(ctx context.Context, facilityID int64, from, to time.Time) ([]ProductionRecord, error) {
	const q = `
SELECT facility_id, recorded_at, kg_produced, power_kw
FROM production_records
WHERE facility_id = $1 AND recorded_at >= $2 AND recorded_at < $3
ORDER BY recorded_at`
	rows, err := r.db.QueryContext(ctx, q, facilityID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductionRecord
	for rows.Next() {
		var rec ProductionRecord
		if err := rows.Scan(&rec.FacilityID, &rec.RecordedAt, &rec.KgProduced, &rec.PowerKW); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Insert(ctx context.Context, rec ProductionRecord) error {
	const q = `
INSERT INTO production_records (facility_id, recorded_at, kg_produced, power_kw)
VALUES ($1,$2,$3,$4)
ON CONFLICT (facility_id, recorded_at)
DO UPDATE SET kg_produced = EXCLUDED.kg_produced, power_kw = EXCLUDED.power_kw`
	_, err := r.db.ExecContext(ctx, q, rec.FacilityID, rec.RecordedAt, rec.KgProduced, rec.PowerKW)
	return err
}
