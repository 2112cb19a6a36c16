package ports

import (
	"context"

	"github.com/shopline/shop-api/internal/core/domain"
)

type CreateProductInput struct {
	Title         string   `json:"title"         validate:"required"`
	Description   string   `json:"description"   validate:"required,min=6"`
	Price         *float64 `json:"price"         validate:"required,gte=0"`
	Category      string   `json:"category"      validate:"omitempty,max=100"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
}

// UpdateProductInput is a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	Title         *string  `json:"title"         validate:"omitempty,min=1"`
	Description   *string  `json:"description"   validate:"omitempty,min=6"`
	Price         *float64 `json:"price"         validate:"omitempty,gte=0"`
	Category      *string  `json:"category"      validate:"omitempty,max=100"`
	StockQuantity *int     `json:"stockQuantity" validate:"omitempty,gte=0"`
}

type PriceRangeInput struct {
	MinPrice float64 `query:"minPrice" validate:"gte=0"`
	MaxPrice float64 `query:"maxPrice" validate:"gte=0,gtefield=MinPrice"`
}

type SetStockInput struct {
	StockQuantity *int `json:"stockQuantity" validate:"required,gte=0"`
}

// CatalogService exposes the product catalog. Mutating operations are
// admin-only and take the requester's role.
type CatalogService interface {
	Create(ctx context.Context, in CreateProductInput, requesterRole string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput, requesterRole string) (*domain.Product, error)
	Delete(ctx context.Context, id string, requesterRole string) error

	FilterByPriceRange(ctx context.Context, in PriceRangeInput) ([]*domain.Product, error)
	FilterByTitle(ctx context.Context, title string) ([]*domain.Product, error)
	FilterByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)

	GetStock(ctx context.Context, id string) (int, error)
	SetStock(ctx context.Context, id string, in SetStockInput, requesterRole string) (int, error)
}
