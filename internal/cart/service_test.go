package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

// memRepo mirrors the merge and ownership rules of PGRepo.
type memRepo struct {
	products map[string]string
	carts    map[string][]Item
	wishes   map[string][]string
}

func newMemRepo(products ...string) *memRepo {
	m := &memRepo{products: map[string]string{}, carts: map[string][]Item{}, wishes: map[string][]string{}}
	for _, p := range products {
		m.products[p] = "Tee " + p[:4]
	}
	return m
}

func (m *memRepo) AddItem(_ context.Context, userID, productID, size, color string, qty int) error {
	if _, ok := m.products[productID]; !ok {
		return ErrProductNotFound
	}
	items := m.carts[userID]
	for i := range items {
		if items[i].ProductID == productID && items[i].Size == size && items[i].Color == color {
			items[i].Quantity += qty
			return nil
		}
	}
	m.carts[userID] = append(items, Item{ID: uuid.NewString(), ProductID: productID, Name: m.products[productID],
		Price: decimal.NewFromInt(10), Size: size, Color: color, Quantity: qty})
	return nil
}

func (m *memRepo) Get(_ context.Context, userID string) (*Cart, error) {
	items := append([]Item{}, m.carts[userID]...)
	return &Cart{UserID: userID, Items: items}, nil
}

func (m *memRepo) RemoveItem(_ context.Context, userID, itemID string) error {
	items := m.carts[userID]
	for i := range items {
		if items[i].ID == itemID {
			m.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

func (m *memRepo) Lines(_ context.Context, userID string) ([]Line, error) {
	var out []Line
	for _, it := range m.carts[userID] {
		out = append(out, Line{ProductID: it.ProductID, Size: it.Size, Color: it.Color, Quantity: it.Quantity})
	}
	return out, nil
}

func (m *memRepo) Clear(_ context.Context, userID string) error {
	delete(m.carts, userID)
	return nil
}

func (m *memRepo) AddWishlist(_ context.Context, userID, productID string) error {
	if _, ok := m.products[productID]; !ok {
		return ErrProductNotFound
	}
	for _, p := range m.wishes[userID] {
		if p == productID {
			return nil
		}
	}
	m.wishes[userID] = append(m.wishes[userID], productID)
	return nil
}

func (m *memRepo) Wishlist(_ context.Context, userID string) ([]WishlistItem, error) {
	out := []WishlistItem{}
	for _, p := range m.wishes[userID] {
		out = append(out, WishlistItem{ProductID: p, Name: m.products[p]})
	}
	return out, nil
}

func (m *memRepo) RemoveWishlist(_ context.Context, userID, productID string) error {
	ws := m.wishes[userID]
	for i, p := range ws {
		if p == productID {
			m.wishes[userID] = append(ws[:i], ws[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

func TestService_AddMergesSameVariant(t *testing.T) {
	pid := uuid.NewString()
	svc := NewService(newMemRepo(pid))
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", AddRequest{ProductID: pid, Size: "M", Color: "Black", Quantity: 1})
	require.NoError(t, err)
	c, err := svc.Add(ctx, "u1", AddRequest{ProductID: pid, Size: " M ", Color: "Black", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)

	c, err = svc.Add(ctx, "u1", AddRequest{ProductID: pid, Size: "L", Color: "Black"})
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, 1, c.Items[1].Quantity)
}

func TestService_AddValidates(t *testing.T) {
	pid := uuid.NewString()
	svc := NewService(newMemRepo(pid))
	_, err := svc.Add(context.Background(), "u1", AddRequest{ProductID: pid, Quantity: -2})
	assert.Equal(t, 400, apperr.Status(err))

	_, err = svc.Add(context.Background(), "u1", AddRequest{ProductID: uuid.NewString(), Quantity: 1})
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestService_RemoveOnlyOwnItems(t *testing.T) {
	pid := uuid.NewString()
	svc := NewService(newMemRepo(pid))
	ctx := context.Background()

	c, err := svc.Add(ctx, "u1", AddRequest{ProductID: pid, Quantity: 1})
	require.NoError(t, err)
	itemID := c.Items[0].ID

	_, err = svc.Remove(ctx, "u2", itemID)
	assert.Equal(t, 404, apperr.Status(err))

	c, err = svc.Remove(ctx, "u1", itemID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestService_WishlistUpsert(t *testing.T) {
	pid := uuid.NewString()
	svc := NewService(newMemRepo(pid))
	ctx := context.Background()

	_, err := svc.AddWishlist(ctx, "u1", pid)
	require.NoError(t, err)
	list, err := svc.AddWishlist(ctx, "u1", pid)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = svc.RemoveWishlist(ctx, "u1", pid)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.RemoveWishlist(ctx, "u1", pid)
	assert.True(t, errors.Is(err, ErrProductNotFound))
}

func TestService_InWishlist(t *testing.T) {
	pid, other := uuid.NewString(), uuid.NewString()
	svc := NewService(newMemRepo(pid, other))
	ctx := context.Background()

	_, err := svc.AddWishlist(ctx, "u1", pid)
	require.NoError(t, err)

	ok, err := svc.InWishlist(ctx, "u1", pid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.InWishlist(ctx, "u1", other)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.InWishlist(ctx, "u2", pid)
	require.NoError(t, err)
	assert.False(t, ok)
}
