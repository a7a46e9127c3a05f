package user

import (
	"context"
	"strings"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Me(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileRequest) (*User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	return s.repo.UpdateName(ctx, id, name)
}

func (s *Service) Customers(ctx context.Context) ([]Customer, error) {
	return s.repo.Customers(ctx)
}

func (s *Service) UpdateNotes(ctx context.Context, id string, in NotesRequest) (*User, error) {
	return s.repo.UpdateNotes(ctx, id, strings.TrimSpace(in.Notes))
}
