package ports

import (
	"context"

	"github.com/shopline/shop-api/internal/core/domain"
)

type AddCartItemInput struct {
	ProductID string `json:"productId" validate:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity int `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CartItem is a cart line joined with its product. Product is nil when
// the referenced product no longer exists.
type CartItem struct {
	ID       string          `json:"id"`
	Product  *domain.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// CheckoutResult summarises a completed checkout.
type CheckoutResult struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type CartService interface {
	AddItem(ctx context.Context, userID string, in AddCartItemInput) ([]domain.CartLine, error)
	ListItems(ctx context.Context, userID string) ([]CartItem, error)
	UpdateItem(ctx context.Context, userID, lineID string, in UpdateCartItemInput) (*domain.CartLine, error)
	RemoveItem(ctx context.Context, userID, lineID string) error
	Checkout(ctx context.Context, userID string) (*CheckoutResult, error)
}
