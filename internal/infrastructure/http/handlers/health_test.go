package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := DependencyCheck{Name: "mongodb", Ping: func(context.Context) error { return nil }}
	down := DependencyCheck{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	cases := []struct {
		name       string
		checks     []DependencyCheck
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []DependencyCheck{ok}, http.StatusOK, "ok"},
		{"one down", []DependencyCheck{ok, down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tc.checks...).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tc.wantStatus {
				t.Errorf("expected status %q, got %q", tc.wantStatus, resp.Status)
			}
			if len(resp.Dependencies) != len(tc.checks) {
				t.Errorf("expected %d dependencies, got %d", len(tc.checks), len(resp.Dependencies))
			}
		})
	}
}
