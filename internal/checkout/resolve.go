package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
	"github.com/PratyushG434/Ecommerce-backend/internal/order"
	"github.com/PratyushG434/Ecommerce-backend/internal/product"
)

const unspecified = "N/A"

// Line is a priced, resolved order line.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Size      string
	Color     string
}

// Resolution is the single item list both payment paths consume.
type Resolution struct {
	Source order.Source
	Lines  []Line
}

func orDefault(s string) string {
	if s == "" {
		return unspecified
	}
	return s
}

// Resolve picks the order lines. Non-empty direct items win over the cart. Products that no
// longer exist are skipped; prices always come from the catalog.
func (s *Service) Resolve(ctx context.Context, userID string, direct []DirectItem) (Resolution, error) {
	res := Resolution{Source: order.SourceDirect}
	type want struct {
		productID, size, color string
		qty                    int
	}
	var wants []want

	if len(direct) > 0 {
		for _, d := range direct {
			wants = append(wants, want{d.ProductID, d.Size, d.Color, d.Quantity})
		}
	} else {
		res.Source = order.SourceCart
		lines, err := s.carts.Lines(ctx, userID)
		if err != nil {
			return res, err
		}
		if len(lines) == 0 {
			return res, apperr.ErrEmptyCart
		}
		for _, l := range lines {
			wants = append(wants, want{l.ProductID, l.Size, l.Color, l.Quantity})
		}
	}

	reserved := map[string]int{}
	for _, w := range wants {
		if w.qty < 1 {
			return res, apperr.Validation("quantity must be at least 1")
		}
		p, err := s.catalog.GetByID(ctx, w.productID)
		if errors.Is(err, product.ErrNotFound) {
			s.log.Debug("skipping unknown product", zap.String("product_id", w.productID),
				zap.String("source", string(res.Source)))
			continue
		}
		if err != nil {
			return res, err
		}
		reserved[p.ID] += w.qty
		if reserved[p.ID] > p.Stock {
			return res, apperr.Wrap(apperr.ErrInsufficientStock,
				fmt.Errorf("%s: requested %d, in stock %d", p.Name, reserved[p.ID], p.Stock))
		}
		res.Lines = append(res.Lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  w.qty,
			Size:      orDefault(w.size),
			Color:     orDefault(w.color),
		})
	}
	return res, nil
}
