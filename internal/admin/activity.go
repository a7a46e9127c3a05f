package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

type ActivityRepository interface {
	Log(ctx context.Context, userID, action, details string) error
	Latest(ctx context.Context, limit int) ([]Activity, error)
}

type PGActivityRepo struct{ db *pgxpool.Pool }

func NewPGActivityRepo(db *pgxpool.Pool) *PGActivityRepo { return &PGActivityRepo{db: db} }

func (r *PGActivityRepo) Log(ctx context.Context, userID, action, details string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO activity_logs (id, user_id, action, details, created_at)
		VALUES ($1,$2,$3,$4,NOW())
	`, uuid.NewString(), userID, action, details)
	return err
}

func (r *PGActivityRepo) Latest(ctx context.Context, limit int) ([]Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT a.id, a.user_id, COALESCE(u.email, ''), a.action, a.details, a.created_at
		FROM activity_logs a LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Email, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
