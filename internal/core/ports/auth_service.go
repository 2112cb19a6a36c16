package ports

import (
	"context"

	"github.com/shopline/shop-api/internal/core/domain"
)

type RegisterInput struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,min=6,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type LoginInput struct {
	Email    string `json:"email"    validate:"required,min=6,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.UserView, error)
	// Login returns a signed session credential.
	Login(ctx context.Context, in LoginInput) (string, error)
	ListUsers(ctx context.Context, requesterRole string) ([]domain.UserView, error)
	ForgotPassword(ctx context.Context, in ForgotPasswordInput) error
	ResetPassword(ctx context.Context, in ResetPasswordInput) error
}
