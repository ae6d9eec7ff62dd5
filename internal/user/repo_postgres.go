package user

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresRepo persists users.
//
// Assumed table:
//   users (id BIGSERIAL PK, org_id BIGINT, email TEXT UNIQUE, name TEXT,
//          role TEXT, status TEXT, password_hash TEXT,
//          created_at TIMESTAMPTZ, updated_at TIMESTAMPTZ)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const userColumns = `id, org_id, email, name, role, status, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.OrgID,
		&u.Email,
		&u.Name,
		&u.Role,
		&u.Status,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return u, true, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (User, bool, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return u, true, nil
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (org_id, email, name, role, status, password_hash, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING ` + userColumns
	return scanUser(r.db.QueryRowContext(ctx, q,
		u.OrgID, u.Email, u.Name, u.Role, u.Status, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	))
}

func (r *PostgresRepo) UpdateRole(ctx context.Context, id int64, role string) (User, bool, error) {
	const q = `
UPDATE users SET role = $2, updated_at = $3 WHERE id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id, role, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return u, true, nil
}

func (r *PostgresRepo) UpdateStatus(ctx context.Context, id int64, status string) (User, bool, error) {
	const q = `
UPDATE users SET status = $2, updated_at = $3 WHERE id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id, status, time.Now().UTC()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return u, true, nil
}
