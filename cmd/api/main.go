// @title                       Shop API
// @version                     1.0
// @description                 E-commerce backend: users, catalog, cart and reviews.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        auth-token
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/api"
	"github.com/shopline/shop-api/internal/core/ports"
	"github.com/shopline/shop-api/internal/core/service"
	"github.com/shopline/shop-api/internal/infrastructure/db/mongo"
	"github.com/shopline/shop-api/internal/infrastructure/db/redis"
	"github.com/shopline/shop-api/internal/infrastructure/external"
	"github.com/shopline/shop-api/internal/infrastructure/http/handlers"
	"github.com/shopline/shop-api/internal/infrastructure/mail"
	"github.com/shopline/shop-api/internal/infrastructure/security"
	"github.com/shopline/shop-api/internal/pkg/config"
	"github.com/shopline/shop-api/internal/pkg/validation"
	"github.com/shopline/shop-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "shop-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "shop-api"})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	users := mongo.NewUserRepository(db)
	products := mongo.NewProductRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := products.EnsureIndexes(ctx); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Collaborators ---
	tokens, err := security.NewJWTIssuer(cfg.Token.Secret)
	if err != nil {
		return err
	}

	var mailer ports.Mailer
	if cfg.Mail.SendGridAPIKey != "" {
		mailer, err = mail.NewSendGridMailer(mail.Config{
			APIKey:   cfg.Mail.SendGridAPIKey,
			From:     cfg.Mail.From,
			FromName: cfg.Mail.FromName,
		})
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set; reset emails are only logged")
		mailer = mail.NewLogMailer(log)
	}

	validate := validation.New()

	// --- Services ---
	authService := service.NewAuthService(
		users,
		security.NewBcryptHasher(security.DefaultCost),
		tokens,
		mailer,
		redis.NewThrottle(rdb),
		validate,
		service.AuthOptions{
			SessionTTL:    cfg.Token.TTL,
			ResetCooldown: cfg.Reset.Cooldown,
			ResetURLBase:  cfg.Reset.URLBase,
		},
		logger.Component("auth"),
	)

	e := api.NewRouter(api.Dependencies{
		Auth:          authService,
		Catalog:       service.NewCatalogService(products, validate, logger.Component("catalog")),
		Cart:          service.NewCartService(users, products, validate, logger.Component("cart")),
		Reviews:       service.NewReviewService(users, products, validate, logger.Component("reviews")),
		External:      external.NewCatalogClient(cfg.External.URL, cfg.External.Timeout),
		Tokens:        tokens,
		Checks:        []handlers.DependencyCheck{handlers.MongoCheck(db), handlers.RedisCheck(rdb)},
		AuthRateLimit: cfg.AuthRateLimit,
		Log:           log,
	})

	// --- Serve ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
