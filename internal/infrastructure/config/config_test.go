package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/shareledger/internal/infrastructure/config"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := config.Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.OutboxBatchSize != 100 || cfg.OutboxInterval != 5*time.Second {
		t.Fatalf("unexpected outbox defaults: %d %s", cfg.OutboxBatchSize, cfg.OutboxInterval)
	}

	if cfg.AMQPURL != "" {
		t.Fatalf("expected AMQP to be disabled by default, got %q", cfg.AMQPURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("RECONCILE_CRON", "0 0 * * * *")

	cfg, err := config.Load(noEnvFile(t))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}

	if cfg.ReconcileCron != "0 0 * * * *" {
		t.Fatalf("expected cron override, got %s", cfg.ReconcileCron)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "false")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("AMQP_EXCHANGE=from-file\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("AMQP_EXCHANGE") })

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.AMQPExchange != "from-file" {
		t.Fatalf("expected exchange from env file, got %s", cfg.AMQPExchange)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(noEnvFile(t)); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadRequiresSecretWithAuth(t *testing.T) {
	t.Setenv("AUTH_ENABLED", "true")
	t.Setenv("JWT_SECRET", "")

	if _, err := config.Load(noEnvFile(t)); err == nil {
		t.Fatalf("expected error when auth is enabled without a secret")
	}
}

func TestValidateConnBounds(t *testing.T) {
	cfg := &config.Config{DatabaseMinConns: 10, DatabaseMaxConns: 5, OutboxBatchSize: 1}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when min conns exceed max conns")
	}
}
