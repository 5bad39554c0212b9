package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/umlkit/umlkit/pkg/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Store.Backend != "file" {
		t.Errorf("default backend = %q, want %q", cfg.Store.Backend, "file")
	}
	if cfg.Store.Redis.Addr != "localhost:6379" {
		t.Errorf("default redis addr = %q", cfg.Store.Redis.Addr)
	}
	if cfg.Store.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("default mongo uri = %q", cfg.Store.Mongo.URI)
	}
	if cfg.Serve.Addr != ":8080" {
		t.Errorf("default serve addr = %q", cfg.Serve.Addr)
	}
	if cfg.Render.Detailed {
		t.Error("detailed rendering should default to off")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
backend = "redis"

[store.redis]
addr = "redis.internal:6380"
db = 2

[render]
detailed = true

[serve]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.Store.Backend != "redis" {
		t.Errorf("backend = %q, want %q", cfg.Store.Backend, "redis")
	}
	if cfg.Store.Redis.Addr != "redis.internal:6380" {
		t.Errorf("redis addr = %q", cfg.Store.Redis.Addr)
	}
	if cfg.Store.Redis.DB != 2 {
		t.Errorf("redis db = %d, want 2", cfg.Store.Redis.DB)
	}
	if !cfg.Render.Detailed {
		t.Error("detailed should be true")
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("serve addr = %q, want %q", cfg.Serve.Addr, ":9090")
	}

	// Unset sections keep their defaults.
	if cfg.Store.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri should keep default, got %q", cfg.Store.Mongo.URI)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("store = [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := loadConfig(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("loadConfig() error = %v, want INVALID_FORMAT", err)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Error("an explicitly named missing config file should be an error")
	}
}

func TestConfigContext(t *testing.T) {
	cfg := defaultConfig()
	cfg.Serve.Addr = ":7070"

	ctx := withConfig(context.Background(), cfg)
	got := configFromContext(ctx)

	if got.Serve.Addr != ":7070" {
		t.Errorf("serve addr = %q, want %q", got.Serve.Addr, ":7070")
	}
}

func TestConfigContextFallback(t *testing.T) {
	got := configFromContext(context.Background())
	if got.Store.Backend != "file" {
		t.Errorf("fallback config should be the defaults, got backend %q", got.Store.Backend)
	}
}
