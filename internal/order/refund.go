package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

const RefundCompleted = "COMPLETED"

type RefundLine struct {
	OrderItemID string `json:"orderItemId" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
}

type RefundItem struct {
	OrderItemID string `json:"orderItemId"`
	Quantity    int    `json:"quantity"`
}

type Refund struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"orderId"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	GatewayRefundID string          `json:"gatewayRefundId"`
	Items           []RefundItem    `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// BuildRefund prices the requested lines at their purchase price. Every line must name an
// item of the order, and the quantity requested per item must lie in 1..purchased.
func BuildRefund(items []Item, lines []RefundLine) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, apperr.Validation("refund must include at least one item")
	}
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	requested := map[string]int{}
	amount := decimal.Zero
	for _, l := range lines {
		it, ok := byID[l.OrderItemID]
		if !ok {
			return decimal.Zero, apperr.Wrap(apperr.ErrItemNotFound, fmt.Errorf("item %s", l.OrderItemID))
		}
		requested[l.OrderItemID] += l.Quantity
		if l.Quantity < 1 || requested[l.OrderItemID] > it.Quantity {
			return decimal.Zero, apperr.Wrap(apperr.ErrOverRefund,
				fmt.Errorf("item %s: requested %d of %d", l.OrderItemID, requested[l.OrderItemID], it.Quantity))
		}
		amount = amount.Add(it.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return amount, nil
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRefundID returns a gateway-style refund reference: "re_" and nine base36 characters.
func NewRefundID() (string, error) {
	b := make([]byte, 9)
	max := big.NewInt(int64(len(base36)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = base36[n.Int64()]
	}
	return "re_" + string(b), nil
}
