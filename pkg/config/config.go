package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
// It panics when a required variable is missing.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // a missing .env file is not an error

	return env.Parse(cfg)
}

// Config holds the configuration for the matching engine server.
type Config struct {
	Instrument string `env:"INSTRUMENT" envDefault:"BTC-USD"` // Instrument this book matches, e.g. BTC-USD
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`

	// SnapshotPath is the file the book state is saved to and loaded from.
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"vortex-book.json"`

	// ExpiryInterval is how often the engine sweeps expired orders in
	// addition to the sweep before every command.
	ExpiryInterval time.Duration `env:"EXPIRY_INTERVAL" envDefault:"1s"`

	// BroadcastInterval is how often the websocket hub pushes a book
	// snapshot to connected clients.
	BroadcastInterval time.Duration `env:"BROADCAST_INTERVAL" envDefault:"1s"`

	KafkaConfig `envPrefix:"KAFKA_"`
	RedisConfig `envPrefix:"REDIS_"`
}

// KafkaConfig holds the configuration for the trade publisher and the
// optional order command feed. Both are disabled when no brokers are set.
type KafkaConfig struct {
	Brokers    []string `env:"BROKER"`
	TradeTopic string   `env:"TRADE_TOPIC" envDefault:"trades"`
	OrderTopic string   `env:"ORDER_TOPIC" envDefault:"orders"`
}

// RedisConfig holds the configuration for the optional Redis snapshot
// destination. Disabled when no address is set.
type RedisConfig struct {
	Addr     string `env:"ADDRESS"`
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}
