package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

// TokenHeader carries the bearer credential.
const TokenHeader = "auth-token"

// Context keys set by Auth.
const (
	ContextUserID = "userId"
	ContextRole   = "role"
)

// Auth verifies the auth-token header and injects its claims into the
// context. Claims are trusted as issued; the user record is not re-read.
func Auth(tokens ports.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(TokenHeader)
			if raw == "" {
				return domain.ErrMissingToken
			}

			claims, err := tokens.Verify(raw)
			if err != nil || claims.Purpose != "" {
				return domain.ErrInvalidToken
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}
