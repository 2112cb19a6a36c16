package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/domain"
)

// The limiter reports denials through c.Error, so the tests observe them
// on the echo error handler rather than the handler's return value.
func rateLimitedEcho(perMinute int, denied *[]error) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		*denied = append(*denied, err)
		if errors.Is(err, domain.ErrTooManyRequests) {
			_ = c.NoContent(http.StatusTooManyRequests)
			return
		}
		_ = c.NoContent(http.StatusInternalServerError)
	}
	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RateLimit(perMinute))
	return e
}

func post(e *echo.Echo, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_DeniesAfterBurst(t *testing.T) {
	var denied []error
	e := rateLimitedEcho(2, &denied)

	for i := 0; i < 2; i++ {
		if code := post(e, "203.0.113.9:4000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if code := post(e, "203.0.113.9:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", code)
	}
	if len(denied) != 1 || !errors.Is(denied[0], domain.ErrTooManyRequests) {
		t.Fatalf("expected one ErrTooManyRequests, got %v", denied)
	}
}

func TestRateLimit_SeparateBucketsPerIP(t *testing.T) {
	var denied []error
	e := rateLimitedEcho(1, &denied)

	if code := post(e, "203.0.113.9:4000"); code != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := post(e, "198.51.100.7:4000"); code != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", code)
	}
	if code := post(e, "203.0.113.9:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	var denied []error
	e := rateLimitedEcho(0, &denied)

	for i := 0; i < 50; i++ {
		if code := post(e, "203.0.113.9:4000"); code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
	if len(denied) != 0 {
		t.Fatalf("expected no denials, got %v", denied)
	}
}
