// Package user reads the user directory and manages profile and customer notes.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

var (
	ErrNotFound = apperr.New(apperr.KindNotFound, "user not found")
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateName(ctx context.Context, id, name string) (*User, error)
	Customers(ctx context.Context) ([]Customer, error)
	UpdateNotes(ctx context.Context, id, notes string) (*User, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const userCols = `id, COALESCE(name, ''), email, phone, role, notes, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Notes, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *PGRepo) UpdateName(ctx context.Context, id, name string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userCols, id, name))
}

// Customers lists CUSTOMER accounts with their order counts, newest first.
func (r *PGRepo) Customers(ctx context.Context) ([]Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT u.id, COALESCE(u.name, ''), u.email, u.phone, u.role, u.notes, u.created_at,
		       (SELECT COUNT(*) FROM orders o WHERE o.user_id = u.id)
		FROM users u
		WHERE u.role = $1
		ORDER BY u.created_at DESC
	`, RoleCustomer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Customer{}
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Role, &c.Notes, &c.CreatedAt,
			&c.OrderCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateNotes(ctx context.Context, id, notes string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return scanUser(r.db.QueryRow(ctx, `
		UPDATE users SET notes = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userCols, id, notes))
}
