// Package product provides the catalog: the repository interface, its PostgreSQL implementation,
// and the query service used by storefront and admin handlers.
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

var (
	ErrNotFound = apperr.New(apperr.KindNotFound, "product not found")
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) (Page, error)
	ByTag(ctx context.Context, tag string, limit int) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
	LowStock(ctx context.Context, threshold, limit int) ([]Product, int, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `id, name, description, price::text, original_price::text, stock, category, gender,
	sizes, colors, tags, images, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock, &p.Category,
		&p.Gender, &p.Sizes, &p.Colors, &p.Tags, &p.Images, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collect(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, original_price, stock, category, gender,
		                      sizes, colors, tags, images, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Stock, p.Category, p.Gender,
		p.Sizes, p.Colors, p.Tags, p.Images).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+selectCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PGRepo) List(ctx context.Context, q Query) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q = q.normalized()
	where, args := q.where()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	n := len(args)
	rows, err := r.db.Query(ctx, fmt.Sprintf(`SELECT %s FROM products %s %s LIMIT $%d OFFSET $%d`,
		selectCols, where, q.orderBy(), n+1, n+2), append(args, q.Limit, q.offset())...)
	if err != nil {
		return Page{}, err
	}
	products, err := collect(rows)
	if err != nil {
		return Page{}, err
	}
	return Page{Total: total, Page: q.Page, TotalPages: totalPages(total, q.Limit), Products: products}, nil
}

func (r *PGRepo) ByTag(ctx context.Context, tag string, limit int) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+selectCols+` FROM products WHERE $1 = ANY(tags)
		ORDER BY created_at DESC LIMIT $2`, tag, limit)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, original_price = $5, stock = $6,
		    category = $7, gender = $8, sizes = $9, colors = $10, tags = $11, images = $12,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Stock, p.Category, p.Gender,
		p.Sizes, p.Colors, p.Tags, p.Images).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// LowStock returns up to limit products with stock <= threshold and the total count of such products.
func (r *PGRepo) LowStock(ctx context.Context, threshold, limit int) ([]Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock <= $1`, threshold).Scan(&count); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+selectCols+` FROM products WHERE stock <= $1
		ORDER BY stock ASC, name ASC LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, 0, err
	}
	products, err := collect(rows)
	return products, count, err
}
