// Package checkout turns a cart or a direct-buy request into an order and reconciles the
// payment gateway's callback with the order ledger.
package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/cart"
	"github.com/PratyushG434/Ecommerce-backend/internal/events"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/payu"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

const txnIDAttempts = 3

// Failure reasons carried to the frontend on the payment-failed redirect.
const (
	ReasonHashMismatch      = "hash_mismatch"
	ReasonOrderNotFound     = "order_not_found"
	ReasonTransactionFailed = "transaction_failed"
	ReasonServerError       = "server_error"
)

type Catalog interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
	StockChanged(ctx context.Context)
}

type Carts interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
	Clear(ctx context.Context, userID string) error
}

type Ledger interface {
	CreateOrder(ctx context.Context, o *order.Order, reserveStock bool) error
	FindByTxnID(ctx context.Context, txnID string) (*order.Order, error)
	ConfirmPayment(ctx context.Context, txnID, gatewayRef string) (order.Confirmation, error)
	FailPayment(ctx context.Context, txnID string) (*order.Order, bool, error)
}

type Gateway interface {
	Params(p payu.Payment) payu.Params
	Verify(cb payu.Callback) error
	NewTxnID() (string, error)
	PaymentURL() string
}

type Notifier interface {
	SendOrderConfirmation(email, orderID string, total decimal.Decimal)
}

type Emitter interface {
	Emit(eventType string, payload map[string]any)
}

// Deps are the collaborators of the orchestrator.
type Deps struct {
	Catalog   Catalog
	Carts     Carts
	Ledger    Ledger
	Gateway   Gateway
	Directory user.Directory
	Notifier  Notifier
	Events    Emitter
}

type Service struct {
	catalog     Catalog
	carts       Carts
	ledger      Ledger
	gateway     Gateway
	dir         user.Directory
	notifier    Notifier
	events      Emitter
	callbackURL string
	log         *zap.Logger
}

// NewService wires the orchestrator. callbackURL is the backend endpoint the gateway posts to
// for both success and failure.
func NewService(d Deps, callbackURL string, log *zap.Logger) *Service {
	return &Service{
		catalog:     d.Catalog,
		carts:       d.Carts,
		ledger:      d.Ledger,
		gateway:     d.Gateway,
		dir:         d.Directory,
		notifier:    d.Notifier,
		events:      d.Events,
		callbackURL: callbackURL,
		log:         log,
	}
}

// DirectItem is a "buy now" line.
type DirectItem struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" example:"1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Request is the create-order payload.
// swagger:model CreateOrderRequest
type Request struct {
	DirectItems   []DirectItem        `json:"directItems" binding:"omitempty,dive"`
	PaymentMethod order.PaymentMethod `json:"paymentMethod" example:"ONLINE"`
	Address       order.Address       `json:"address"`
}

// Result is the create-order response. Gateway fields are set for ONLINE only.
type Result struct {
	Success       bool                `json:"success"`
	Mode          order.PaymentMethod `json:"mode"`
	OrderID       string              `json:"orderId"`
	PaymentURL    string              `json:"paymentUrl,omitempty"`
	GatewayParams *payu.Params        `json:"gatewayParams,omitempty"`
}

// Outcome is what a callback resolves to. Reason is set when Success is false.
type Outcome struct {
	Success bool
	OrderID string
	Reason  string
}

func (s *Service) CreateOrder(ctx context.Context, userID string, req Request) (*Result, error) {
	method := req.PaymentMethod
	if method == "" {
		method = order.MethodOnline
	}
	if method != order.MethodOnline && method != order.MethodCOD {
		return nil, apperr.Validation("paymentMethod must be COD or ONLINE")
	}

	res, err := s.Resolve(ctx, userID, req.DirectItems)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeTotals(res.Lines)
	if err != nil {
		return nil, err
	}
	contact, err := s.contact(ctx, userID, req.Address)
	if err != nil {
		return nil, err
	}

	o := &order.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Subtotal:        totals.Subtotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		Total:           totals.Total,
		PaymentMethod:   method,
		PaymentStatus:   order.PaymentPending,
		ShippingAddress: req.Address,
		Contact:         contact,
		Source:          res.Source,
	}
	for _, l := range res.Lines {
		o.Items = append(o.Items, order.Item{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Size:        l.Size,
			Color:       l.Color,
		})
	}

	if method == order.MethodCOD {
		return s.placeCOD(ctx, o)
	}
	return s.placeOnline(ctx, o)
}

func (s *Service) placeCOD(ctx context.Context, o *order.Order) (*Result, error) {
	o.Status = order.StatusProcessing
	if err := s.ledger.CreateOrder(ctx, o, true); err != nil {
		return nil, err
	}
	s.catalog.StockChanged(ctx)
	s.log.Info("cod order placed", zap.String("order_id", o.ID), zap.String("user_id", o.UserID),
		zap.String("total", o.Total.StringFixed(2)))

	s.afterPlacement(ctx, o)
	s.events.Emit(events.OrderPlaced, eventPayload(o))
	return &Result{Success: true, Mode: order.MethodCOD, OrderID: o.ID}, nil
}

func (s *Service) placeOnline(ctx context.Context, o *order.Order) (*Result, error) {
	o.Status = order.StatusPending
	var err error
	for attempt := 1; attempt <= txnIDAttempts; attempt++ {
		var txn string
		if txn, err = s.gateway.NewTxnID(); err != nil {
			return nil, err
		}
		o.TxnID = &txn
		if err = s.ledger.CreateOrder(ctx, o, false); !errors.Is(err, order.ErrDuplicateTxnID) {
			break
		}
		s.log.Warn("txn id collision, regenerating", zap.String("txn_id", txn), zap.Int("attempt", attempt))
	}
	if errors.Is(err, order.ErrDuplicateTxnID) {
		return nil, &apperr.Error{Kind: apperr.KindInternal, Message: "could not allocate transaction id", Err: err}
	}
	if err != nil {
		return nil, err
	}

	params := s.gateway.Params(payu.Payment{
		TxnID:       *o.TxnID,
		Amount:      o.Total,
		ProductInfo: productInfo(o.ID),
		FirstName:   firstName(o.Contact.Name),
		Email:       o.Contact.Email,
		Phone:       o.Contact.Phone,
		SuccessURL:  s.callbackURL,
		FailureURL:  s.callbackURL,
	})
	s.log.Info("online order created", zap.String("order_id", o.ID), zap.String("txn_id", *o.TxnID),
		zap.String("total", o.Total.StringFixed(2)))
	return &Result{
		Success:       true,
		Mode:          order.MethodOnline,
		OrderID:       o.ID,
		PaymentURL:    s.gateway.PaymentURL(),
		GatewayParams: &params,
	}, nil
}

// HandleCallback verifies the gateway callback and applies it to the ledger. It never
// returns an error: every path ends in a redirect.
func (s *Service) HandleCallback(ctx context.Context, cb payu.Callback) Outcome {
	if err := s.gateway.Verify(cb); err != nil {
		s.log.Warn("payment callback rejected", zap.String("txn_id", cb.TxnID), zap.Error(err))
		return Outcome{Reason: ReasonHashMismatch}
	}

	o, err := s.ledger.FindByTxnID(ctx, cb.TxnID)
	if errors.Is(err, order.ErrNotFound) {
		s.log.Warn("payment callback for unknown txn", zap.String("txn_id", cb.TxnID))
		return Outcome{Reason: ReasonOrderNotFound}
	}
	if err != nil {
		s.log.Error("payment callback lookup failed", zap.String("txn_id", cb.TxnID), zap.Error(err))
		return Outcome{Reason: ReasonServerError}
	}

	if cb.Status != payu.StatusSuccess {
		cur, transitioned, err := s.ledger.FailPayment(ctx, cb.TxnID)
		if err != nil {
			s.log.Error("marking payment failed", zap.String("order_id", o.ID), zap.Error(err))
			return Outcome{OrderID: o.ID, Reason: ReasonServerError}
		}
		if !transitioned {
			return current(cur)
		}
		s.log.Info("payment failed", zap.String("order_id", o.ID), zap.String("gateway_status", cb.Status))
		return Outcome{OrderID: o.ID, Reason: ReasonTransactionFailed}
	}

	conf, err := s.ledger.ConfirmPayment(ctx, cb.TxnID, cb.MihPayID)
	if err != nil {
		s.log.Error("confirming payment", zap.String("order_id", o.ID), zap.Error(err))
		return Outcome{OrderID: o.ID, Reason: ReasonServerError}
	}
	if !conf.Transitioned {
		if conf.Order.Status == order.StatusCancelled && conf.Order.PaymentStatus == order.PaymentPending {
			s.log.Error("payment captured for cancelled order, refund manually",
				zap.String("order_id", o.ID), zap.String("mihpayid", cb.MihPayID), zap.String("amount", cb.Amount))
			return Outcome{OrderID: o.ID, Reason: ReasonTransactionFailed}
		}
		s.log.Info("duplicate payment callback ignored", zap.String("order_id", o.ID),
			zap.String("payment_status", string(conf.Order.PaymentStatus)))
		return current(conf.Order)
	}

	paid := conf.Order
	for _, ov := range conf.Oversold {
		s.log.Warn("oversold after captured payment", zap.String("order_id", paid.ID),
			zap.String("product_id", ov.ProductID), zap.Int("requested", ov.Requested),
			zap.Int("available", ov.Available))
	}
	s.catalog.StockChanged(ctx)
	s.log.Info("payment confirmed", zap.String("order_id", paid.ID), zap.String("mihpayid", cb.MihPayID))

	s.afterPlacement(ctx, paid)
	s.events.Emit(events.OrderPaid, eventPayload(paid))
	return Outcome{Success: true, OrderID: paid.ID}
}

// afterPlacement runs the best-effort side effects of a placed or paid order.
func (s *Service) afterPlacement(ctx context.Context, o *order.Order) {
	if o.Source == order.SourceCart {
		if err := s.carts.Clear(ctx, o.UserID); err != nil {
			s.log.Error("clearing cart", zap.String("user_id", o.UserID), zap.String("order_id", o.ID), zap.Error(err))
		}
	}
	s.notifier.SendOrderConfirmation(o.Contact.Email, o.ID, o.Total)
}

// current maps an order that was already settled to its redirect.
func current(o *order.Order) Outcome {
	switch o.PaymentStatus {
	case order.PaymentPaid:
		return Outcome{Success: true, OrderID: o.ID}
	case order.PaymentFailed:
		return Outcome{OrderID: o.ID, Reason: ReasonTransactionFailed}
	default:
		return Outcome{OrderID: o.ID, Reason: ReasonServerError}
	}
}

// contact snapshots the buyer, falling back to the shipping address when the directory has no record.
func (s *Service) contact(ctx context.Context, userID string, addr order.Address) (order.Contact, error) {
	c := order.Contact{Name: addr.Name, Phone: addr.Phone}
	p, err := s.dir.Profile(ctx, userID)
	if errors.Is(err, user.ErrNotFound) {
		s.log.Warn("buyer not in directory, using address contact", zap.String("user_id", userID))
		return c, nil
	}
	if err != nil {
		return c, err
	}
	c.Email = p.Email
	if p.Name != "" {
		c.Name = p.Name
	}
	if p.Phone != "" {
		c.Phone = p.Phone
	}
	return c, nil
}

func productInfo(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return "Order " + orderID
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return "Customer"
}

func eventPayload(o *order.Order) map[string]any {
	return map[string]any{
		"order_id":       o.ID,
		"user_id":        o.UserID,
		"total":          o.Total.StringFixed(2),
		"payment_method": string(o.PaymentMethod),
		"source":         string(o.Source),
	}
}
