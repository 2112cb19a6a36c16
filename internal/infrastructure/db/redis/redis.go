package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultAddr    = "localhost:6379"
	defaultTimeout = 5 * time.Second
)

// Config holds the connection settings for the throttle store.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing, each command and the startup ping.
	Timeout time.Duration
}

func (cfg Config) options() *redis.Options {
	addr := cfg.Addr
	if addr == "" {
		addr = defaultAddr
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
}

// Connect opens a client and pings it once. The client is closed when the
// ping fails.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s (db %d): %w", opts.Addr, opts.DB, err)
	}
	return client, nil
}
