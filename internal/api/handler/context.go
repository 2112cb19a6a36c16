package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/api/middleware"
	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// user id means the route was mounted without Auth.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	if userID == "" {
		return ports.Claims{}, domain.ErrMissingToken
	}
	role, _ := c.Get(middleware.ContextRole).(string)
	return ports.Claims{UserID: userID, Role: role}, nil
}
