package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/domain"
)

const (
	StatusSuccess = "Success"
	StatusFail    = "Fail"
)

// Envelope is the response body of every API route.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Length  *int   `json:"length,omitempty"`
}

func success(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// successList adds the length field used by collection routes.
func successList[T any](c echo.Context, code int, message string, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(code, Envelope{Status: StatusSuccess, Message: message, Data: items, Length: &n})
}

// bind decodes the request into dst. Decoding failures are reported as
// validation errors so they render like any other bad input.
func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.Validationf("invalid payload")
	}
	return nil
}
