// Package admin backs the admin console: dashboard figures, catalog and order management,
// refunds, customers, and the activity log.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

const (
	lowStockThreshold = 5
	dashboardRows     = 5
	activityRows      = 50
	metricsWindow     = 30 * 24 * time.Hour
)

// Activity actions.
const (
	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
	ActionUpdateOrder   = "UPDATE_ORDER"
	ActionRefundOrder   = "REFUND_ORDER"
	ActionUpdateNotes   = "UPDATE_CUSTOMER_NOTES"
)

type Catalog interface {
	Create(ctx context.Context, in product.Input) (*product.Product, error)
	Update(ctx context.Context, id string, in product.UpdateInput) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	LowStock(ctx context.Context, threshold, limit int) ([]product.Product, int, error)
}

type Orders interface {
	ListAll(ctx context.Context, status string, page int) (order.ListPage, error)
	UpdateStatus(ctx context.Context, id string, to order.Status) (*order.Order, error)
	CreateRefund(ctx context.Context, orderID string, lines []order.RefundLine, reason string) (*order.Refund, error)
	Revenue(ctx context.Context) (decimal.Decimal, int, error)
	Recent(ctx context.Context, limit int) ([]order.Summary, error)
	PaidSince(ctx context.Context, since time.Time) ([]order.SalePoint, error)
}

type Users interface {
	Me(ctx context.Context, id string) (*user.User, error)
	Customers(ctx context.Context) ([]user.Customer, error)
	UpdateNotes(ctx context.Context, id string, in user.NotesRequest) (*user.User, error)
}

type Service struct {
	catalog  Catalog
	orders   Orders
	users    Users
	activity ActivityRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewService(catalog Catalog, orders Orders, users Users, activity ActivityRepository, log *zap.Logger) *Service {
	return &Service{catalog: catalog, orders: orders, users: users, activity: activity, log: log, now: time.Now}
}

type Dashboard struct {
	Revenue       decimal.Decimal   `json:"revenue"`
	TotalOrders   int               `json:"totalOrders"`
	LowStockCount int               `json:"lowStockCount"`
	LowStock      []product.Product `json:"lowStock"`
	RecentOrders  []order.Summary   `json:"recentOrders"`
}

type Metrics struct {
	Range string            `json:"range"`
	Data  []order.SalePoint `json:"data"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	revenue, count, err := s.orders.Revenue(ctx)
	if err != nil {
		return nil, err
	}
	low, lowCount, err := s.catalog.LowStock(ctx, lowStockThreshold, dashboardRows)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.Recent(ctx, dashboardRows)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Revenue: revenue, TotalOrders: count, LowStockCount: lowCount, LowStock: low, RecentOrders: recent}, nil
}

// Metrics returns paid orders from the last 30 days. rng is echoed back for the client's chart.
func (s *Service) Metrics(ctx context.Context, rng string) (*Metrics, error) {
	data, err := s.orders.PaidSince(ctx, s.now().Add(-metricsWindow))
	if err != nil {
		return nil, err
	}
	return &Metrics{Range: rng, Data: data}, nil
}

func (s *Service) CreateProduct(ctx context.Context, adminID string, in product.Input) (*product.Product, error) {
	p, err := s.catalog.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, adminID, ActionCreateProduct, "Created "+p.Name)
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, adminID, id string, in product.UpdateInput) (*product.Product, error) {
	p, err := s.catalog.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, adminID, ActionUpdateProduct, "Updated "+p.Name)
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, adminID, id string) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, adminID, ActionDeleteProduct, "Deleted product "+id)
	return nil
}

func (s *Service) Orders(ctx context.Context, status string, page int) (order.ListPage, error) {
	if status != "" {
		if _, ok := order.ParseStatus(status); !ok {
			return order.ListPage{}, apperr.Validation("unknown order status %q", status)
		}
	}
	return s.orders.ListAll(ctx, status, page)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, adminID, id string, in order.StatusRequest) (*order.Order, error) {
	to, ok := order.ParseStatus(in.Status)
	if !ok {
		return nil, apperr.Validation("unknown order status %q", in.Status)
	}
	o, err := s.orders.UpdateStatus(ctx, id, to)
	if err != nil {
		return nil, err
	}
	s.record(ctx, adminID, ActionUpdateOrder, fmt.Sprintf("Order %s set to %s", id, to))
	return o, nil
}

func (s *Service) Refund(ctx context.Context, adminID, orderID string, in order.RefundRequest) (*order.Refund, error) {
	rf, err := s.orders.CreateRefund(ctx, orderID, in.Items, in.Reason)
	if err != nil {
		return nil, err
	}
	s.record(ctx, adminID, ActionRefundOrder,
		fmt.Sprintf("Refunded %s on order %s (%s)", rf.Amount.StringFixed(2), orderID, rf.GatewayRefundID))
	return rf, nil
}

func (s *Service) Customers(ctx context.Context) ([]user.Customer, error) {
	return s.users.Customers(ctx)
}

func (s *Service) UpdateCustomerNotes(ctx context.Context, adminID, id string, in user.NotesRequest) (*user.User, error) {
	u, err := s.users.UpdateNotes(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.record(ctx, adminID, ActionUpdateNotes, "Updated notes for "+id)
	return u, nil
}

func (s *Service) Activity(ctx context.Context) ([]Activity, error) {
	return s.activity.Latest(ctx, activityRows)
}

func (s *Service) Me(ctx context.Context, adminID string) (*user.User, error) {
	return s.users.Me(ctx, adminID)
}

// record writes the activity log. The admin action already succeeded, so failures are only logged.
func (s *Service) record(ctx context.Context, adminID, action, details string) {
	if err := s.activity.Log(ctx, adminID, action, details); err != nil {
		s.log.Warn("activity log write failed", zap.String("action", action), zap.Error(err))
	}
}
