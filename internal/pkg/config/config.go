package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ErrMissingTokenSecret is returned by Load when TOKEN_SECRET is unset.
var ErrMissingTokenSecret = errors.New("config: TOKEN_SECRET is required")

type Config struct {
	Port     string `env:"PORT,      default=8000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Token    TokenConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Reset    ResetConfig
	Mail     MailConfig
	External ExternalConfig

	// AuthRateLimit caps login/register/reset requests per client IP per
	// minute. Zero disables the limit.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT, default=20"`
}

type TokenConfig struct {
	Secret string `env:"TOKEN_SECRET"`
	// TTL of session tokens; zero issues non-expiring tokens.
	TTL time.Duration `env:"TOKEN_TTL, default=0s"`
}

type MongoConfig struct {
	URI      string `env:"DB_CONNECT, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,   default=shop"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
}

type ResetConfig struct {
	Cooldown time.Duration `env:"RESET_COOLDOWN, default=1m"`
	URLBase  string        `env:"RESET_URL_BASE, default=http://localhost:3000/reset-password"`
}

type MailConfig struct {
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	From           string `env:"MAIL_FROM,      default=no-reply@shop.local"`
	FromName       string `env:"MAIL_FROM_NAME, default=Shop"`
}

type ExternalConfig struct {
	URL     string        `env:"EXTERNAL_API_URL,     default=https://fakestoreapi.com/products"`
	Timeout time.Duration `env:"EXTERNAL_API_TIMEOUT, default=10s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	if c.Token.Secret == "" {
		return ErrMissingTokenSecret
	}
	if c.Token.TTL < 0 {
		return fmt.Errorf("config: TOKEN_TTL must not be negative")
	}
	if c.Reset.Cooldown < 0 {
		return fmt.Errorf("config: RESET_COOLDOWN must not be negative")
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
