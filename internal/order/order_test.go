package order

import (
	"errors"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, true},
		{StatusPending, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusProcessing, false},
		{StatusPending, StatusDelivered, false},
		{StatusShipped, StatusPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("SHIPPED")
	assert.True(t, ok)
	assert.Equal(t, StatusShipped, s)

	_, ok = ParseStatus("shipped")
	assert.False(t, ok)
}

func refundItems() []Item {
	return []Item{
		{ID: "a", ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("50.00")},
		{ID: "b", ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("19.99")},
	}
}

func TestBuildRefund_Amount(t *testing.T) {
	amount, err := BuildRefund(refundItems(), []RefundLine{
		{OrderItemID: "a", Quantity: 1},
		{OrderItemID: "b", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "69.99", amount.StringFixed(2))
}

func TestBuildRefund_Rejects(t *testing.T) {
	_, err := BuildRefund(refundItems(), []RefundLine{{OrderItemID: "a", Quantity: 3}})
	assert.True(t, errors.Is(err, apperr.ErrOverRefund))
	assert.Equal(t, 400, apperr.Status(err))

	_, err = BuildRefund(refundItems(), []RefundLine{{OrderItemID: "a", Quantity: 0}})
	assert.True(t, errors.Is(err, apperr.ErrOverRefund))

	_, err = BuildRefund(refundItems(), []RefundLine{
		{OrderItemID: "a", Quantity: 1},
		{OrderItemID: "zzz", Quantity: 1},
	})
	assert.True(t, errors.Is(err, apperr.ErrItemNotFound))
	assert.Equal(t, 404, apperr.Status(err))

	_, err = BuildRefund(refundItems(), []RefundLine{
		{OrderItemID: "a", Quantity: 2},
		{OrderItemID: "a", Quantity: 1},
	})
	assert.True(t, errors.Is(err, apperr.ErrOverRefund))

	_, err = BuildRefund(refundItems(), nil)
	assert.Equal(t, 400, apperr.Status(err))
}

func TestNewRefundID(t *testing.T) {
	re := regexp.MustCompile(`^re_[0-9a-z]{9}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := NewRefundID()
		require.NoError(t, err)
		assert.Regexp(t, re, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 45)
}
