package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dogclock/api/internal/config"
)

// Client wraps the Redis client
type Client struct {
	*redis.Client
	logger *slog.Logger
}

// NewClient creates a new Redis client with the provided configuration and verifies the connection
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolTimeout:  30 * time.Second,
	})

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("redis connected",
		slog.String("addr", cfg.Addr()),
		slog.Int("db", cfg.DB),
		slog.Int("pool_size", cfg.PoolSize),
	)

	return &Client{Client: rdb, logger: logger}, nil
}

// Wrap adapts an existing go-redis client, used by tests with miniredis
func Wrap(rdb *redis.Client, logger *slog.Logger) *Client {
	return &Client{Client: rdb, logger: logger}
}
