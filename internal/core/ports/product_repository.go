package ports

import (
	"context"

	"github.com/shopline/shop-api/internal/core/domain"
)

// ProductRepository persists catalog entries and their embedded reviews.
// Lookups that miss return domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error

	// FindByPriceRange is inclusive at both bounds.
	FindByPriceRange(ctx context.Context, min, max float64) ([]*domain.Product, error)
	FindByTitle(ctx context.Context, title string) ([]*domain.Product, error)
	// FindByCategory matches a case-insensitive substring of the category.
	FindByCategory(ctx context.Context, substring string) ([]*domain.Product, error)
	// Search runs a relevance-ranked full-text query over title, description and category.
	Search(ctx context.Context, query string) ([]*domain.Product, error)

	SetStock(ctx context.Context, id string, quantity int) error
	// DecrementStock removes quantity only when at least that much is in
	// stock. It reports false, without error, when the stock is short.
	DecrementStock(ctx context.Context, id string, quantity int) (bool, error)
	IncrementStock(ctx context.Context, id string, quantity int) error

	// AddReview appends a review and returns the product's review list.
	AddReview(ctx context.Context, productID string, review domain.Review) ([]domain.Review, error)
	// UpdateReview overwrites rating and comment. Misses return domain.ErrReviewNotFound.
	UpdateReview(ctx context.Context, productID, reviewID string, rating int, comment string) error
}
