package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopline/shop-api/docs"
	"github.com/shopline/shop-api/internal/api/handler"
	"github.com/shopline/shop-api/internal/api/metrics"
	"github.com/shopline/shop-api/internal/api/middleware"
	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
	"github.com/shopline/shop-api/internal/infrastructure/http/handlers"
	"github.com/shopline/shop-api/internal/pkg/validation"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Auth     ports.AuthService
	Catalog  ports.CatalogService
	Cart     ports.CartService
	Reviews  ports.ReviewService
	External ports.ExternalCatalog
	Tokens   ports.TokenIssuer

	// Checks back the readiness probe.
	Checks []handlers.DependencyCheck
	// AuthRateLimit is requests per minute per IP on the public user routes.
	AuthRateLimit int
	// Registry receives the HTTP and domain metrics; nil uses the default
	// registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = validation.New()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(prometheusMiddleware(deps.Registry))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Catalog)
	cartHandler := handler.NewCartHandler(deps.Cart)
	reviewHandler := handler.NewReviewHandler(deps.Reviews)
	externalHandler := handler.NewExternalHandler(deps.External)

	authenticated := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	limited := middleware.RateLimit(deps.AuthRateLimit)

	v1 := e.Group("/api/v1")

	// --- User routes ---
	user := v1.Group("/user")
	user.POST("/register", authHandler.Register, limited)
	user.POST("/login", authHandler.Login, limited)
	user.POST("/forgot-password", authHandler.ForgotPassword, limited)
	user.POST("/reset-password", authHandler.ResetPassword, limited)
	user.GET("", authHandler.ListUsers, authenticated, adminOnly)

	// --- Cart routes ---
	user.POST("/cart", cartHandler.Add, authenticated)
	user.GET("/cart", cartHandler.List, authenticated)
	user.POST("/cart/checkout", cartHandler.Checkout, authenticated)
	user.PATCH("/cart/:id", cartHandler.Update, authenticated)
	user.DELETE("/cart/:id", cartHandler.Remove, authenticated)

	// --- Product routes ---
	products := v1.Group("/products")
	products.POST("", productHandler.Create, authenticated, adminOnly)
	products.GET("", productHandler.List)
	products.GET("/filter/price", productHandler.FilterByPrice, authenticated, adminOnly)
	products.GET("/filter/title", productHandler.FilterByTitle, authenticated, adminOnly)
	products.GET("/filter/category", productHandler.FilterByCategory)
	products.GET("/search", productHandler.Search)
	products.GET("/:id", productHandler.Get)
	products.PATCH("/:id", productHandler.Update, authenticated, adminOnly)
	products.DELETE("/:id", productHandler.Delete, authenticated, adminOnly)
	products.GET("/:id/stock", productHandler.GetStock)
	products.PATCH("/:id/stock", productHandler.SetStock, authenticated, adminOnly)

	// --- Review routes ---
	products.POST("/:id/reviews", reviewHandler.Add, authenticated)
	products.PATCH("/:id/reviews/:reviewId", reviewHandler.Update, authenticated)

	v1.GET("/fetch-external-api", externalHandler.Fetch)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", metricsHandler(deps.Registry, deps.Log))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "shop",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry, log zerolog.Logger) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	if err := metrics.Register(reg); err != nil {
		log.Error().Err(err).Msg("register domain metrics")
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
