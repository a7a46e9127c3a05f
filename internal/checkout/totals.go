package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

var (
	freeShippingOver = decimal.NewFromInt(75)
	flatShipping     = decimal.NewFromInt(10)
	taxRate          = decimal.RequireFromString("0.18")
	minSubtotal      = decimal.NewFromInt(1)
)

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies the single pricing formula used by every payment method.
// Shipping is free strictly above 75; tax is 18% rounded half away from zero to whole units.
func ComputeTotals(lines []Line) (Totals, error) {
	if len(lines) == 0 {
		return Totals{}, apperr.ErrInvalidAmount
	}
	sub := decimal.Zero
	for _, l := range lines {
		sub = sub.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if sub.LessThan(minSubtotal) {
		return Totals{}, apperr.ErrInvalidAmount
	}
	ship := flatShipping
	if sub.GreaterThan(freeShippingOver) {
		ship = decimal.Zero
	}
	tax := sub.Mul(taxRate).Round(0)
	return Totals{Subtotal: sub, Shipping: ship, Tax: tax, Total: sub.Add(ship).Add(tax)}, nil
}
