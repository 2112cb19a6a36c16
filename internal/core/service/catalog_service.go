package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

// CatalogService implements product CRUD, filtering and stock control.
type CatalogService struct {
	products ports.ProductRepository
	validate InputValidator
	log      zerolog.Logger
	now      func() time.Time
}

func NewCatalogService(products ports.ProductRepository, validate InputValidator, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, validate: validate, log: log, now: time.Now}
}

func (s *CatalogService) Create(ctx context.Context, in ports.CreateProductInput, requesterRole string) (*domain.Product, error) {
	if err := requireAdmin(requesterRole); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       *in.Price,
		Category:    strings.TrimSpace(in.Category),
		Reviews:     []domain.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.StockQuantity != nil {
		p.StockQuantity = *in.StockQuantity
	}

	created, err := s.products.Create(ctx, p)
	if err != nil {
		if errors.Is(err, domain.ErrTitleExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info().Str("product_id", created.ID).Str("title", created.Title).Msg("product created")
	return created, nil
}

func (s *CatalogService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) Update(ctx context.Context, id string, in ports.UpdateProductInput, requesterRole string) (*domain.Product, error) {
	if err := requireAdmin(requesterRole); err != nil {
		return nil, err
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	patch := domain.ProductPatch{
		Title:         in.Title,
		Description:   in.Description,
		Price:         in.Price,
		Category:      in.Category,
		StockQuantity: in.StockQuantity,
	}
	if patch.Empty() {
		return nil, domain.Validationf("at least one field must be provided")
	}

	updated, err := s.products.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string, requesterRole string) error {
	if err := requireAdmin(requesterRole); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func (s *CatalogService) FilterByPriceRange(ctx context.Context, in ports.PriceRangeInput) ([]*domain.Product, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	return s.products.FindByPriceRange(ctx, in.MinPrice, in.MaxPrice)
}

func (s *CatalogService) FilterByTitle(ctx context.Context, title string) ([]*domain.Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Validationf("titleName is required")
	}
	return s.products.FindByTitle(ctx, title)
}

func (s *CatalogService) FilterByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.Validationf("categoryName is required")
	}
	return s.products.FindByCategory(ctx, category)
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Validationf("query is required")
	}
	return s.products.Search(ctx, query)
}

func (s *CatalogService) GetStock(ctx context.Context, id string) (int, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return p.StockQuantity, nil
}

func (s *CatalogService) SetStock(ctx context.Context, id string, in ports.SetStockInput, requesterRole string) (int, error) {
	if err := requireAdmin(requesterRole); err != nil {
		return 0, err
	}
	if err := s.validate.Struct(in); err != nil {
		return 0, err
	}
	if err := s.products.SetStock(ctx, id, *in.StockQuantity); err != nil {
		return 0, err
	}
	s.log.Info().Str("product_id", id).Int("stock", *in.StockQuantity).Msg("stock updated")
	return *in.StockQuantity, nil
}
