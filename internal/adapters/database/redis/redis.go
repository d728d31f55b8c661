package redis

import (
	"context"
	"fmt"

	"github.com/Badsnus/qrbatch/internal/adapters/database/redis/presets"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	Presets *presets.Storage
	rdb     *redis.Client
}

type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func New(ctx context.Context, opts Options) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping presets storage: %w", err)
	}

	return &Client{
		Presets: presets.NewStorage(rdb),
		rdb:     rdb,
	}, nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
