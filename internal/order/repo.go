// Package order is the order ledger: durable orders and their items, the payment and
// fulfilment state machines, and refunds.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/database"
)

const (
	PageSize     = 20
	txnIDUniqKey = "orders_txn_id_key"
)

var (
	ErrNotFound          = apperr.New(apperr.KindNotFound, "order not found")
	ErrDuplicateTxnID    = apperr.New(apperr.KindConflict, "duplicate transaction id")
	ErrInvalidTransition = apperr.New(apperr.KindValidation, "invalid status transition")
)

// Oversold describes a line whose stock could not cover an already captured payment.
type Oversold struct {
	ProductID string
	Requested int
	Available int
}

// Confirmation is the result of ConfirmPayment. Transitioned is false when the order had
// already left PENDING, in which case Order holds its current state.
type Confirmation struct {
	Order        *Order
	Transitioned bool
	Oversold     []Oversold
}

// SalePoint is one paid order in the metrics series.
type SalePoint struct {
	CreatedAt time.Time       `json:"createdAt"`
	Total     decimal.Decimal `json:"total"`
}

type ListPage struct {
	Orders     []Summary `json:"orders"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

type Repository interface {
	CreateOrder(ctx context.Context, o *Order, reserveStock bool) error
	GetByID(ctx context.Context, id string) (*Order, error)
	FindByTxnID(ctx context.Context, txnID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	ListAll(ctx context.Context, status string, page int) (ListPage, error)
	ConfirmPayment(ctx context.Context, txnID, gatewayRef string) (Confirmation, error)
	FailPayment(ctx context.Context, txnID string) (*Order, bool, error)
	UpdateStatus(ctx context.Context, id string, to Status) (*Order, error)
	CreateRefund(ctx context.Context, orderID string, lines []RefundLine, reason string) (*Refund, error)
	Revenue(ctx context.Context) (decimal.Decimal, int, error)
	Recent(ctx context.Context, limit int) ([]Summary, error)
	PaidSince(ctx context.Context, since time.Time) ([]SalePoint, error)
}

// DB is the part of *pgxpool.Pool the ledger needs.
type DB interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGRepo struct{ db DB }

func NewPGRepo(db DB) *PGRepo { return &PGRepo{db: db} }

// confirmPaymentSQL only matches an order still awaiting payment that nobody has cancelled.
const confirmPaymentSQL = `
		UPDATE orders
		SET payment_status = $2, order_status = $3, gateway_payment_id = NULLIF($4, ''), updated_at = NOW()
		WHERE txn_id = $1 AND payment_status = $5 AND order_status <> $6
		RETURNING ` + orderCols

const failPaymentSQL = `
		UPDATE orders SET payment_status = $2, order_status = $3, updated_at = NOW()
		WHERE txn_id = $1 AND payment_status = $4
		RETURNING ` + orderCols

const orderCols = `id, user_id, subtotal::text, shipping::text, tax::text, total::text, payment_method,
	order_status, payment_status, txn_id, gateway_payment_id, shipping_address, contact, source,
	created_at, updated_at`

const summaryCols = `o.id, o.user_id, COALESCE(o.contact->>'email', ''), o.total::text, o.order_status,
	o.payment_status, o.payment_method,
	(SELECT COALESCE(SUM(quantity), 0) FROM order_items WHERE order_id = o.id), o.created_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.Shipping, &o.Tax, &o.Total, &o.PaymentMethod,
		&o.Status, &o.PaymentStatus, &o.TxnID, &o.GatewayPaymentID, &o.ShippingAddress, &o.Contact,
		&o.Source, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func collectSummaries(rows pgx.Rows) ([]Summary, error) {
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Email, &s.Total, &s.Status, &s.PaymentStatus,
			&s.PaymentMethod, &s.ItemCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, orderID string) ([]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, price::text, size, color
		FROM order_items WHERE order_id = $1
		ORDER BY product_name
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.Price, &it.Size, &it.Color); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateOrder inserts the order and its items in one transaction. With reserveStock every
// line's stock is decremented conditionally; a single shortfall rolls everything back.
func (r *PGRepo) CreateOrder(ctx context.Context, o *Order, reserveStock bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, subtotal, shipping, tax, total, payment_method, order_status,
		                    payment_status, txn_id, shipping_address, contact, source, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.Subtotal, o.Shipping, o.Tax, o.Total, o.PaymentMethod, o.Status,
		o.PaymentStatus, o.TxnID, o.ShippingAddress, o.Contact, o.Source).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, txnIDUniqKey) {
			return ErrDuplicateTxnID
		}
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.ID = uuid.NewString()
		it.OrderID = o.ID
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, size, color)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`, it.ID, o.ID, it.ProductID, it.ProductName, it.Quantity, it.Price, it.Size, it.Color); err != nil {
			return err
		}
		if !reserveStock {
			continue
		}
		tag, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = NOW()
			WHERE id = $1 AND stock >= $2
		`, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperr.Wrap(apperr.ErrInsufficientStock, fmt.Errorf("product %s", it.ProductID))
		}
	}
	return tx.Commit(ctx)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, r.db, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) FindByTxnID(ctx context.Context, txnID string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE txn_id = $1`, txnID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = loadItems(ctx, r.db, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+summaryCols+` FROM orders o
		WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

// ListAll pages through every order, newest first. An empty status means all.
func (r *PGRepo) ListAll(ctx context.Context, status string, page int) (ListPage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE ($1 = '' OR order_status = $1)`,
		status).Scan(&total); err != nil {
		return ListPage{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT `+summaryCols+` FROM orders o
		WHERE ($1 = '' OR o.order_status = $1)
		ORDER BY o.created_at DESC LIMIT $2 OFFSET $3`, status, PageSize, (page-1)*PageSize)
	if err != nil {
		return ListPage{}, err
	}
	orders, err := collectSummaries(rows)
	if err != nil {
		return ListPage{}, err
	}
	return ListPage{Orders: orders, Total: total, Page: page, TotalPages: (total + PageSize - 1) / PageSize}, nil
}

// ConfirmPayment moves a PENDING order to PAID/PROCESSING and decrements stock, all in one
// transaction. Only the call that wins the conditional update touches stock. An order an
// admin already cancelled is never revived; Transitioned is false and Order shows it CANCELLED.
func (r *PGRepo) ConfirmPayment(ctx context.Context, txnID, gatewayRef string) (Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Confirmation{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, confirmPaymentSQL,
		txnID, PaymentPaid, StatusProcessing, gatewayRef, PaymentPending, StatusCancelled))
	if errors.Is(err, pgx.ErrNoRows) {
		_ = tx.Rollback(ctx)
		cur, err := r.FindByTxnID(ctx, txnID)
		if err != nil {
			return Confirmation{}, err
		}
		return Confirmation{Order: cur}, nil
	}
	if err != nil {
		return Confirmation{}, err
	}
	if o.Items, err = loadItems(ctx, tx, o.ID); err != nil {
		return Confirmation{}, err
	}

	var oversold []Oversold
	for _, it := range o.Items {
		var before int
		err := tx.QueryRow(ctx, `
			WITH cur AS (SELECT stock FROM products WHERE id = $1 FOR UPDATE)
			UPDATE products p SET stock = GREATEST(p.stock - $2, 0), updated_at = NOW()
			FROM cur WHERE p.id = $1
			RETURNING cur.stock
		`, it.ProductID, it.Quantity).Scan(&before)
		if errors.Is(err, pgx.ErrNoRows) {
			oversold = append(oversold, Oversold{ProductID: it.ProductID, Requested: it.Quantity})
			continue
		}
		if err != nil {
			return Confirmation{}, err
		}
		if before < it.Quantity {
			oversold = append(oversold, Oversold{ProductID: it.ProductID, Requested: it.Quantity, Available: before})
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return Confirmation{}, err
	}
	return Confirmation{Order: o, Transitioned: true, Oversold: oversold}, nil
}

// FailPayment marks a PENDING order FAILED/CANCELLED. The bool reports whether this call
// made the transition.
func (r *PGRepo) FailPayment(ctx context.Context, txnID string) (*Order, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, failPaymentSQL, txnID, PaymentFailed, StatusCancelled, PaymentPending))
	if errors.Is(err, pgx.ErrNoRows) {
		cur, err := r.FindByTxnID(ctx, txnID)
		return cur, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return o, true, nil
}

// UpdateStatus applies an admin status change after checking it against the transition table.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, to Status) (*Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from Status
	err = tx.QueryRow(ctx, `SELECT order_status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&from)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(from, to) {
		return nil, apperr.Wrap(ErrInvalidTransition, fmt.Errorf("%s -> %s", from, to))
	}
	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET order_status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderCols, id, to))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

// CreateRefund validates the lines against the order's items and records the refund and its
// items in one transaction. Stock and order status are left untouched.
func (r *PGRepo) CreateRefund(ctx context.Context, orderID string, lines []RefundLine, reason string) (*Refund, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	items, err := loadItems(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	amount, err := BuildRefund(items, lines)
	if err != nil {
		return nil, err
	}
	gatewayID, err := NewRefundID()
	if err != nil {
		return nil, err
	}

	rf := &Refund{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		Amount:          amount,
		Reason:          reason,
		Status:          RefundCompleted,
		GatewayRefundID: gatewayID,
	}
	if err := tx.QueryRow(ctx, `
		INSERT INTO refunds (id, order_id, amount, reason, status, gateway_refund_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		RETURNING created_at
	`, rf.ID, rf.OrderID, rf.Amount, rf.Reason, rf.Status, rf.GatewayRefundID).Scan(&rf.CreatedAt); err != nil {
		return nil, err
	}
	for _, l := range lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO refund_items (id, refund_id, order_item_id, quantity)
			VALUES ($1,$2,$3,$4)
		`, uuid.NewString(), rf.ID, l.OrderItemID, l.Quantity); err != nil {
			return nil, err
		}
		rf.Items = append(rf.Items, RefundItem{OrderItemID: l.OrderItemID, Quantity: l.Quantity})
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rf, nil
}

// Revenue sums the totals of PAID orders and counts all orders.
func (r *PGRepo) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var revenue decimal.Decimal
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total) FILTER (WHERE payment_status = $1), 0)::text, COUNT(*)
		FROM orders
	`, PaymentPaid).Scan(&revenue, &count)
	return revenue, count, err
}

func (r *PGRepo) Recent(ctx context.Context, limit int) ([]Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+summaryCols+` FROM orders o
		ORDER BY o.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectSummaries(rows)
}

func (r *PGRepo) PaidSince(ctx context.Context, since time.Time) ([]SalePoint, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT created_at, total::text FROM orders
		WHERE payment_status = $1 AND created_at >= $2
		ORDER BY created_at
	`, PaymentPaid, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SalePoint{}
	for rows.Next() {
		var p SalePoint
		if err := rows.Scan(&p.CreatedAt, &p.Total); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
