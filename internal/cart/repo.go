// Package cart stores per-user carts and wishlists.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

var (
	ErrItemNotFound    = apperr.New(apperr.KindNotFound, "cart item not found")
	ErrProductNotFound = apperr.New(apperr.KindNotFound, "product not found")
)

// Item is a cart line joined with the product it refers to.
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Images    []string        `json:"images"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	Quantity  int             `json:"quantity"`
}

type Cart struct {
	ID     string `json:"id,omitempty"`
	UserID string `json:"userId"`
	Items  []Item `json:"items"`
}

// Line is the minimal cart view consumed by checkout.
type Line struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

type WishlistItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
}

type Repository interface {
	AddItem(ctx context.Context, userID, productID, size, color string, qty int) error
	Get(ctx context.Context, userID string) (*Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Lines(ctx context.Context, userID string) ([]Line, error)
	Clear(ctx context.Context, userID string) error

	AddWishlist(ctx context.Context, userID, productID string) error
	Wishlist(ctx context.Context, userID string) ([]WishlistItem, error)
	RemoveWishlist(ctx context.Context, userID, productID string) error
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func productExists(ctx context.Context, tx pgx.Tx, productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return ErrProductNotFound
	}
	var ok bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

// AddItem creates the cart on first use and merges lines with the same product, size and color.
func (r *PGRepo) AddItem(ctx context.Context, userID, productID, size, color string, qty int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := productExists(ctx, tx, productID); err != nil {
		return err
	}
	var cartID string
	if err := tx.QueryRow(ctx, `
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`, uuid.NewString(), userID).Scan(&cartID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, size, color, quantity)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (cart_id, product_id, size, color)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
	`, uuid.NewString(), cartID, productID, size, color, qty); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Get returns the user's cart. A user without a cart gets an empty one.
func (r *PGRepo) Get(ctx context.Context, userID string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	c := &Cart{UserID: userID, Items: []Item{}}
	err := r.db.QueryRow(ctx, `SELECT id FROM carts WHERE user_id = $1`, userID).Scan(&c.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.product_id, p.name, p.price::text, p.images, ci.size, ci.color, ci.quantity
		FROM cart_items ci JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at
	`, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Name, &it.Price, &it.Images, &it.Size, &it.Color,
			&it.Quantity); err != nil {
			return nil, err
		}
		c.Items = append(c.Items, it)
	}
	return c, rows.Err()
}

// RemoveItem deletes a line only when it belongs to the user's own cart.
func (r *PGRepo) RemoveItem(ctx context.Context, userID, itemID string) error {
	if _, err := uuid.Parse(itemID); err != nil {
		return ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM cart_items ci USING carts c
		WHERE ci.id = $1 AND ci.cart_id = c.id AND c.user_id = $2
	`, itemID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *PGRepo) Lines(ctx context.Context, userID string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT ci.product_id, ci.size, ci.color, ci.quantity
		FROM cart_items ci JOIN carts c ON c.id = ci.cart_id
		WHERE c.user_id = $1
		ORDER BY ci.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.Size, &l.Color, &l.Quantity); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PGRepo) Clear(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)
	`, userID)
	return err
}

// AddWishlist is an upsert: adding a product twice keeps one entry.
func (r *PGRepo) AddWishlist(ctx context.Context, userID, productID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := productExists(ctx, tx, productID); err != nil {
		return err
	}
	var wishlistID string
	if err := tx.QueryRow(ctx, `
		INSERT INTO wishlists (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id
	`, uuid.NewString(), userID).Scan(&wishlistID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO wishlist_items (wishlist_id, product_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, wishlistID, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) Wishlist(ctx context.Context, userID string) ([]WishlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name, p.price::text, COALESCE(p.images[1], '')
		FROM wishlist_items wi
		JOIN wishlists w ON w.id = wi.wishlist_id
		JOIN products p ON p.id = wi.product_id
		WHERE w.user_id = $1
		ORDER BY wi.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []WishlistItem{}
	for rows.Next() {
		var w WishlistItem
		if err := rows.Scan(&w.ProductID, &w.Name, &w.Price, &w.Image); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *PGRepo) RemoveWishlist(ctx context.Context, userID, productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return ErrProductNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		DELETE FROM wishlist_items wi USING wishlists w
		WHERE wi.wishlist_id = w.id AND w.user_id = $1 AND wi.product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
