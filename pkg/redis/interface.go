package redis

import (
	"context"
	"time"
)

// Client is the subset of Redis operations the engine needs.
type Client interface {
	Connect(ctx context.Context) error
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Close() error
}
