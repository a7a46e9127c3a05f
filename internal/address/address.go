// Package address is the per-user address book. A user has at most one default address.
package address

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

const DefaultTag = "HOME"

type Address struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Tag       string    `json:"tag"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// Input is the address payload.
// swagger:model AddressInput
type Input struct {
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone"`
	Tag       string `json:"tag" example:"HOME"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	IsDefault bool   `json:"isDefault"`
}

type Repository interface {
	Add(ctx context.Context, a *Address) error
	List(ctx context.Context, userID string) ([]Address, error)
	Owner(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

// Add clears any previous default in the same transaction when the new address is the default.
func (r *PGRepo) Add(ctx context.Context, a *Address) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default`,
			a.UserID); err != nil {
			return err
		}
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO addresses (id, user_id, name, phone, tag, street, city, state, zip, is_default, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
		RETURNING created_at
	`, a.ID, a.UserID, a.Name, a.Phone, a.Tag, a.Street, a.City, a.State, a.Zip, a.IsDefault).Scan(&a.CreatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) List(ctx context.Context, userID string) ([]Address, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, phone, tag, street, city, state, zip, is_default, created_at
		FROM addresses WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Address{}
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Tag, &a.Street, &a.City, &a.State,
			&a.Zip, &a.IsDefault, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Owner returns the user id an address belongs to, or apperr.ErrNotFound.
func (r *PGRepo) Owner(ctx context.Context, id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", apperr.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var owner string
	err := r.db.QueryRow(ctx, `SELECT user_id FROM addresses WHERE id = $1`, id).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	return owner, err
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	return err
}

type Service struct{ repo Repository }

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Add(ctx context.Context, userID string, in Input) (*Address, error) {
	a := &Address{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Tag:       strings.ToUpper(strings.TrimSpace(in.Tag)),
		Street:    strings.TrimSpace(in.Street),
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		Zip:       strings.TrimSpace(in.Zip),
		IsDefault: in.IsDefault,
	}
	if a.Tag == "" {
		a.Tag = DefaultTag
	}
	if a.Name == "" || a.Street == "" || a.City == "" {
		return nil, apperr.Validation("name, street and city are required")
	}
	if err := s.repo.Add(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List returns the default address first.
func (s *Service) List(ctx context.Context, userID string) ([]Address, error) {
	out, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out, nil
}

// Delete refuses to touch another user's address. Missing addresses are reported the same way.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	owner, err := s.repo.Owner(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && owner != userID) {
		return apperr.ErrForbidden
	}
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
