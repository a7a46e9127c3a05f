package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/PratyushG434/Ecommerce-backend/internal/apperr"
)

const (
	TagTrending    = "New"
	TagBestseller  = "Bestseller"
	highlightLimit = 4
)

// Service is the catalog query service. cache may be nil.
type Service struct {
	repo     Repository
	cache    Cache
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(repo Repository, cache Cache, log *zap.Logger) *Service {
	return &Service{repo: repo, cache: cache, validate: validator.New(), log: log}
}

func (s *Service) List(ctx context.Context, q Query) (Page, error) {
	q = q.normalized()
	if q.MinPrice != nil && q.MaxPrice != nil && q.MinPrice.GreaterThan(*q.MaxPrice) {
		return Page{}, apperr.Validation("minPrice must not exceed maxPrice")
	}
	key := q.cacheKey()
	var (
		version  int64
		cachable bool
	)
	if s.cache != nil {
		version, cachable = s.cache.Version(ctx)
		if cachable {
			if p, ok := s.cache.GetPage(ctx, version, key); ok {
				return *p, nil
			}
		}
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	if cachable {
		s.cache.SetPage(version, key, page)
	}
	return page, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Trending(ctx context.Context) ([]Product, error) {
	return s.repo.ByTag(ctx, TagTrending, highlightLimit)
}

func (s *Service) Bestsellers(ctx context.Context) ([]Product, error) {
	return s.repo.ByTag(ctx, TagBestseller, highlightLimit)
}

func (s *Service) LowStock(ctx context.Context, threshold, limit int) ([]Product, int, error) {
	return s.repo.LowStock(ctx, threshold, limit)
}

func (s *Service) Create(ctx context.Context, in Input) (*Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	var p Product
	in.apply(&p)
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.StockChanged(ctx)
	return &p, nil
}

// Update applies the fields present in in and leaves the rest untouched.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Product, error) {
	if err := s.checkUpdate(in); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.StockChanged(ctx)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.StockChanged(ctx)
	return nil
}

// StockChanged drops cached listings after any product or stock write.
func (s *Service) StockChanged(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *Service) check(in Input) error {
	if err := s.validateStruct(in); err != nil {
		return err
	}
	return checkPrices(&in.Price, in.OriginalPrice)
}

func (s *Service) checkUpdate(in UpdateInput) error {
	if err := s.validateStruct(in); err != nil {
		return err
	}
	return checkPrices(in.Price, in.OriginalPrice)
}

func (s *Service) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperr.Validation("invalid product: %s", strings.Join(fields, ", "))
	}
	return err
}

func checkPrices(price, original *decimal.Decimal) error {
	if price != nil && !price.IsPositive() {
		return apperr.Validation("invalid product: price must be positive")
	}
	if original != nil && original.IsNegative() {
		return apperr.Validation("invalid product: originalPrice must not be negative")
	}
	return nil
}
