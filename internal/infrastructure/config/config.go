package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Redis
	RedisURL      string `env:"REDIS_URL"       envDefault:"redis://localhost:6379"`
	RedisEnabled  bool   `env:"REDIS_ENABLED"   envDefault:"true"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Bridge status API
	StatusAPIURL          string        `env:"STATUS_API_URL"          envDefault:"http://localhost:9000"`
	StatusAPITimeout      time.Duration `env:"STATUS_API_TIMEOUT"      envDefault:"5s"`
	StatusAPIMaxRetries   uint64        `env:"STATUS_API_MAX_RETRIES"  envDefault:"3"`
	StatusBreakerFailures uint32        `env:"STATUS_API_BREAKER_FAILURES" envDefault:"5"`
	StatusBreakerTimeout  time.Duration `env:"STATUS_API_BREAKER_TIMEOUT"  envDefault:"30s"`
	StatusCacheTTL        time.Duration `env:"STATUS_CACHE_TTL"        envDefault:"30s"`
	StatusRefreshInterval time.Duration `env:"STATUS_REFRESH_INTERVAL" envDefault:"15s"`
	StatusRefreshTokens   []string      `env:"STATUS_REFRESH_TOKENS"   envDefault:"XVS" envSeparator:","`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables.
// Variables from a .env file in the working directory are applied first
// without overriding anything already set.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
