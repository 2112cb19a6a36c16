package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/api/handler"
	"github.com/shopline/shop-api/internal/core/domain"
)

// specificErrors are reported with their own message.
var specificErrors = []error{
	domain.ErrUserExists,
	domain.ErrTitleExists,
	domain.ErrUserNotFound,
	domain.ErrProductNotFound,
	domain.ErrCartItemNotFound,
	domain.ErrReviewNotFound,
	domain.ErrMissingToken,
	domain.ErrInvalidToken,
	domain.ErrInvalidCredentials,
}

// categories map each error family to its status code, in match order.
var categories = []struct {
	err  error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrInsufficientStock, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrTooManyRequests, http.StatusTooManyRequests},
	{domain.ErrEmailDelivery, http.StatusBadGateway},
	{domain.ErrUpstream, http.StatusBadGateway},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the Fail envelope: {"status": "Fail", "message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, handler.Envelope{Status: handler.StatusFail, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (unknown route, method not allowed, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("framework error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, cat := range categories {
		if !errors.Is(err, cat.err) {
			continue
		}
		if cat.code >= http.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Msg("collaborator failure")
		}
		return cat.code, message(err, cat.err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// message picks the client-facing text for an error of the given family.
func message(err, family error) string {
	for _, specific := range specificErrors {
		if errors.Is(err, specific) {
			return specific.Error()
		}
	}

	text := err.Error()
	switch family {
	case domain.ErrValidation:
		// "validation failed: <reason>" carries the first violation.
		if i := strings.Index(text, family.Error()+": "); i >= 0 {
			return text[i+len(family.Error())+2:]
		}
	case domain.ErrInsufficientStock:
		if i := strings.Index(text, family.Error()); i >= 0 {
			return text[i:]
		}
	}
	return family.Error()
}
