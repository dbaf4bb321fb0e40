package redis

import "time"

// Config holds the configuration for the Redis client.
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int

	ConnectTimeout time.Duration
	PoolSize       int
	MaxRetries     int
}

// DefaultConfig returns a Config with sensible defaults for a local Redis.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "localhost:6379",
		ConnectTimeout: 5 * time.Second,
		PoolSize:       10,
		MaxRetries:     3,
	}
}
