package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	AccessSecret  string        `env:"ACCESS_SECRET"`
	RefreshSecret string        `env:"REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TTL,        default=15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL,       default=168h"`
	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL,     default=10m"`
}

type MongoConfig struct {
	URI              string        `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database         string        `env:"MONGO_DB,  default=chainlance"`
	MessageRetention time.Duration `env:"MESSAGE_RETENTION, default=336h"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
