package ports

import (
	"context"
	"time"

	"github.com/shopline/shop-api/internal/core/domain"
)

// UserRepository persists users together with their embedded cart.
// Lookups that miss return domain.ErrUserNotFound; cart line operations
// that miss return domain.ErrCartItemNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)

	SetResetToken(ctx context.Context, userID, token string, expires time.Time) error
	// UpdatePassword stores a new hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// AddCartLine appends a line and returns it with its generated ID.
	AddCartLine(ctx context.Context, userID string, line domain.CartLine) (*domain.CartLine, error)
	SetCartLineQuantity(ctx context.Context, userID, lineID string, quantity int) error
	RemoveCartLine(ctx context.Context, userID, lineID string) error
	ClearCart(ctx context.Context, userID string) error
}
