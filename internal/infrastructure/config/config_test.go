package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/bridgecheck/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.StatusCacheTTL != 30*time.Second {
		t.Fatalf("expected default cache ttl 30s, got %s", cfg.StatusCacheTTL)
	}

	if len(cfg.StatusRefreshTokens) != 1 || cfg.StatusRefreshTokens[0] != "XVS" {
		t.Fatalf("expected default refresh tokens [XVS], got %v", cfg.StatusRefreshTokens)
	}

	if cfg.StatusBreakerFailures != 5 || cfg.StatusBreakerTimeout != 30*time.Second {
		t.Fatalf("unexpected breaker defaults: %d, %s", cfg.StatusBreakerFailures, cfg.StatusBreakerTimeout)
	}

	if cfg.RedisPoolSize != 10 {
		t.Fatalf("expected default redis pool size 10, got %d", cfg.RedisPoolSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STATUS_API_URL", "https://status.example")
	t.Setenv("STATUS_API_TIMEOUT", "45s")
	t.Setenv("STATUS_REFRESH_TOKENS", "XVS,USDT")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := config.LoadFiles()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.StatusAPIURL != "https://status.example" || cfg.StatusAPITimeout != 45*time.Second {
		t.Fatalf("expected status api overrides, got %s %s", cfg.StatusAPIURL, cfg.StatusAPITimeout)
	}

	if len(cfg.StatusRefreshTokens) != 2 || cfg.StatusRefreshTokens[1] != "USDT" {
		t.Fatalf("expected two refresh tokens, got %v", cfg.StatusRefreshTokens)
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.LoadFiles(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadFilesReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := config.LoadFiles(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("expected LOG_LEVEL from dotenv, got %s", cfg.LogLevel)
	}
}
