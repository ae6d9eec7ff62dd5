package alarm

import (
	"context"
	"database/sql"
)

// PostgresRepo persists alarm events.
//
// Assumed table (INSERT-only, no UPDATE/DELETE policy):
//   alarm_events (id UUID PK, facility_id BIGINT, type TEXT, severity TEXT,
//                 message TEXT, metadata TEXT, created_at TIMESTAMPTZ)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO alarm_events (id, facility_id, type, severity, message, metadata, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.FacilityID, e.Type, e.Severity, e.Message, e.Metadata, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListByFacility(ctx context.Context, facilityID int64, limit int) ([]Event, error) {
	const q = `
SELECT id, facility_id, type, severity, message, metadata, created_at
FROM alarm_events
WHERE facility_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, facilityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.FacilityID, &e.Type, &e.Severity, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
