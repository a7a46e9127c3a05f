package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
	"github.com/PratyushG434/Ecommerce-backend/internal/user"
)

type MockOrders struct{ mock.Mock }

func (m *MockOrders) ListAll(ctx context.Context, status string, page int) (order.ListPage, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(order.ListPage), args.Error(1)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, id string, to order.Status) (*order.Order, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) CreateRefund(ctx context.Context, orderID string, lines []order.RefundLine, reason string) (*order.Refund, error) {
	args := m.Called(ctx, orderID, lines, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Refund), args.Error(1)
}

func (m *MockOrders) Revenue(ctx context.Context) (decimal.Decimal, int, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

func (m *MockOrders) Recent(ctx context.Context, limit int) ([]order.Summary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]order.Summary), args.Error(1)
}

func (m *MockOrders) PaidSince(ctx context.Context, since time.Time) ([]order.SalePoint, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]order.SalePoint), args.Error(1)
}

type stubCatalog struct{ low []product.Product }

func (s *stubCatalog) Create(_ context.Context, in product.Input) (*product.Product, error) {
	return &product.Product{ID: "p1", Name: in.Name}, nil
}

func (s *stubCatalog) Update(_ context.Context, id string, in product.UpdateInput) (*product.Product, error) {
	p := &product.Product{ID: id, Name: "Tee"}
	if in.Name != nil {
		p.Name = *in.Name
	}
	return p, nil
}

func (s *stubCatalog) Delete(_ context.Context, id string) error {
	if id == "missing" {
		return product.ErrNotFound
	}
	return nil
}

func (s *stubCatalog) LowStock(_ context.Context, _, limit int) ([]product.Product, int, error) {
	if len(s.low) > limit {
		return s.low[:limit], len(s.low), nil
	}
	return s.low, len(s.low), nil
}

type stubUsers struct{}

func (stubUsers) Me(_ context.Context, id string) (*user.User, error) {
	return &user.User{ID: id, Role: user.RoleAdmin}, nil
}

func (stubUsers) Customers(context.Context) ([]user.Customer, error) { return []user.Customer{}, nil }

func (stubUsers) UpdateNotes(_ context.Context, id string, in user.NotesRequest) (*user.User, error) {
	return &user.User{ID: id, Notes: in.Notes}, nil
}

type memActivity struct{ entries []Activity }

func (m *memActivity) Log(_ context.Context, userID, action, details string) error {
	m.entries = append(m.entries, Activity{UserID: userID, Action: action, Details: details})
	return nil
}

func (m *memActivity) Latest(_ context.Context, limit int) ([]Activity, error) {
	if len(m.entries) > limit {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func newService(orders *MockOrders, catalog *stubCatalog, act *memActivity) *Service {
	return NewService(catalog, orders, stubUsers{}, act, zap.NewNop())
}

func TestDashboard(t *testing.T) {
	orders := &MockOrders{}
	low := make([]product.Product, 7)
	svc := newService(orders, &stubCatalog{low: low}, &memActivity{})

	orders.On("Revenue", mock.Anything).Return(decimal.RequireFromString("236.00"), 3, nil)
	orders.On("Recent", mock.Anything, 5).Return([]order.Summary{{ID: "o1"}}, nil)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "236.00", d.Revenue.StringFixed(2))
	assert.Equal(t, 3, d.TotalOrders)
	assert.Len(t, d.LowStock, 5)
	assert.Equal(t, 7, d.LowStockCount)
	assert.Len(t, d.RecentOrders, 1)
	orders.AssertExpectations(t)
}

func TestMetricsWindow(t *testing.T) {
	orders := &MockOrders{}
	svc := newService(orders, &stubCatalog{}, &memActivity{})
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	orders.On("PaidSince", mock.Anything, now.Add(-30*24*time.Hour)).Return([]order.SalePoint{}, nil)
	m, err := svc.Metrics(context.Background(), "30d")
	require.NoError(t, err)
	assert.Equal(t, "30d", m.Range)
	orders.AssertExpectations(t)
}

func TestUpdateOrderStatus(t *testing.T) {
	orders := &MockOrders{}
	act := &memActivity{}
	svc := newService(orders, &stubCatalog{}, act)
	ctx := context.Background()

	_, err := svc.UpdateOrderStatus(ctx, "a1", "o1", order.StatusRequest{Status: "LOST"})
	assert.Equal(t, 400, apperr.Status(err))

	orders.On("UpdateStatus", mock.Anything, "o1", order.StatusDelivered).
		Return(nil, order.ErrInvalidTransition).Once()
	_, err = svc.UpdateOrderStatus(ctx, "a1", "o1", order.StatusRequest{Status: "DELIVERED"})
	assert.True(t, errors.Is(err, order.ErrInvalidTransition))
	assert.Empty(t, act.entries)

	orders.On("UpdateStatus", mock.Anything, "o1", order.StatusShipped).
		Return(&order.Order{ID: "o1", Status: order.StatusShipped}, nil).Once()
	o, err := svc.UpdateOrderStatus(ctx, "a1", "o1", order.StatusRequest{Status: "SHIPPED"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, o.Status)
	require.Len(t, act.entries, 1)
	assert.Equal(t, ActionUpdateOrder, act.entries[0].Action)
	orders.AssertExpectations(t)
}

func TestRefundLogsActivity(t *testing.T) {
	orders := &MockOrders{}
	act := &memActivity{}
	svc := newService(orders, &stubCatalog{}, act)
	lines := []order.RefundLine{{OrderItemID: "i1", Quantity: 1}}

	orders.On("CreateRefund", mock.Anything, "o1", lines, "damaged").Return(&order.Refund{
		ID: "r1", OrderID: "o1", Amount: decimal.RequireFromString("50"), GatewayRefundID: "re_abc123xyz",
	}, nil)

	rf, err := svc.Refund(context.Background(), "a1", "o1", order.RefundRequest{Items: lines, Reason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, "re_abc123xyz", rf.GatewayRefundID)
	require.Len(t, act.entries, 1)
	assert.Equal(t, ActionRefundOrder, act.entries[0].Action)
	assert.Contains(t, act.entries[0].Details, "50.00")

	orders.On("CreateRefund", mock.Anything, "o2", lines, "").Return(nil, apperr.ErrOverRefund)
	_, err = svc.Refund(context.Background(), "a1", "o2", order.RefundRequest{Items: lines})
	assert.Equal(t, 400, apperr.Status(err))
	assert.Len(t, act.entries, 1)
}

func TestProductCRUDLogsActivity(t *testing.T) {
	act := &memActivity{}
	svc := newService(&MockOrders{}, &stubCatalog{}, act)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, "a1", product.Input{Name: "Tee"})
	require.NoError(t, err)
	name := "Tee 2"
	_, err = svc.UpdateProduct(ctx, "a1", "p1", product.UpdateInput{Name: &name})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, "a1", "p1"))
	assert.True(t, errors.Is(svc.DeleteProduct(ctx, "a1", "missing"), product.ErrNotFound))

	var actions []string
	for _, e := range act.entries {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{ActionCreateProduct, ActionUpdateProduct, ActionDeleteProduct}, actions)
}

func TestOrdersRejectsUnknownStatusFilter(t *testing.T) {
	orders := &MockOrders{}
	svc := newService(orders, &stubCatalog{}, &memActivity{})
	_, err := svc.Orders(context.Background(), "WHATEVER", 1)
	assert.Equal(t, 400, apperr.Status(err))

	orders.On("ListAll", mock.Anything, "", 2).Return(order.ListPage{Page: 2}, nil)
	p, err := svc.Orders(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Page)
}
