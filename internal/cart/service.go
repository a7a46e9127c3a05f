package cart

import (
	"context"
	"strings"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

const maxLineQuantity = 99

// AddRequest is the cart add payload.
// swagger:model CartAddRequest
type AddRequest struct {
	ProductID string `json:"productId" binding:"required" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Size      string `json:"size" example:"M"`
	Color     string `json:"color" example:"Black"`
	Quantity  int    `json:"quantity" example:"1"`
}

// WishlistRequest is the wishlist add payload.
// swagger:model WishlistRequest
type WishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Add(ctx context.Context, userID string, in AddRequest) (*Cart, error) {
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 || in.Quantity > maxLineQuantity {
		return nil, apperr.Validation("quantity must be between 1 and %d", maxLineQuantity)
	}
	if err := s.repo.AddItem(ctx, userID, in.ProductID, strings.TrimSpace(in.Size),
		strings.TrimSpace(in.Color), in.Quantity); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.Get(ctx, userID)
}

func (s *Service) Remove(ctx context.Context, userID, itemID string) (*Cart, error) {
	if err := s.repo.RemoveItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Lines and Clear are the checkout-facing reads and writes.
func (s *Service) Lines(ctx context.Context, userID string) ([]Line, error) {
	return s.repo.Lines(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Clear(ctx, userID)
}

func (s *Service) AddWishlist(ctx context.Context, userID, productID string) ([]WishlistItem, error) {
	if err := s.repo.AddWishlist(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.Wishlist(ctx, userID)
}

func (s *Service) Wishlist(ctx context.Context, userID string) ([]WishlistItem, error) {
	return s.repo.Wishlist(ctx, userID)
}

// InWishlist reports whether productID is on the user's wishlist.
func (s *Service) InWishlist(ctx context.Context, userID, productID string) (bool, error) {
	ws, err := s.repo.Wishlist(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, w := range ws {
		if w.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) RemoveWishlist(ctx context.Context, userID, productID string) ([]WishlistItem, error) {
	if err := s.repo.RemoveWishlist(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.repo.Wishlist(ctx, userID)
}
