package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("resource already exists")
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("access forbidden")
	ErrTooManyRequests = errors.New("too many requests")

	ErrInsufficientStock = errors.New("stock level is low")
	ErrEmailDelivery     = errors.New("email delivery failed")
	ErrUpstream          = errors.New("upstream request failed")
)

// Specific errors carry their category so the transport layer can map
// them with a single errors.Is check.
var (
	ErrUserExists         = kind(ErrConflict, "email already exists")
	ErrTitleExists        = kind(ErrConflict, "product title already exists")
	ErrUserNotFound       = kind(ErrNotFound, "user not found")
	ErrProductNotFound    = kind(ErrNotFound, "product not found")
	ErrCartItemNotFound   = kind(ErrNotFound, "cart item not found")
	ErrReviewNotFound     = kind(ErrNotFound, "review not found")
	ErrMissingToken       = kind(ErrUnauthorized, "access denied")
	ErrInvalidToken       = kind(ErrUnauthorized, "invalid token")
	ErrInvalidCredentials = kind(ErrUnauthorized, "incorrect email or password")
)

type kindError struct {
	parent error
	msg    string
}

func kind(parent error, msg string) error {
	return &kindError{parent: parent, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.parent }

// Validationf builds an ErrValidation carrying a human-readable reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientStock reports the stock currently available.
func InsufficientStock(available int) error {
	return fmt.Errorf("%w: %d", ErrInsufficientStock, available)
}
