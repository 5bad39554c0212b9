package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/umlkit/umlkit/pkg/errors"
)

// Config holds the CLI configuration loaded from the config file. Every
// field has a working default, so running without a config file is fine.
type Config struct {
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// StoreConfig selects and configures the diagram store backend.
type StoreConfig struct {
	// Backend is one of "file", "redis", or "mongo". Defaults to "file".
	Backend string `toml:"backend"`

	// Dir is the base directory for the file backend. Empty means
	// ~/.config/umlkit/diagrams.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	// Detailed includes element kinds and properties in rendered labels.
	Detailed bool `toml:"detailed"`
}

// ServeConfig holds HTTP server defaults.
type ServeConfig struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string `toml:"addr"`
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017"},
		},
		Serve: ServeConfig{Addr: ":8080"},
	}
}

// defaultConfigPath returns ~/.config/umlkit/config.toml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "umlkit", "config.toml"), nil
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults; a malformed file is an
// error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "load config %s", path)
	}
	return cfg, nil
}

// configKey is the context key for the loaded configuration.
const configKey ctxKey = 1

// withConfig returns a new context with the configuration attached.
func withConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext retrieves the configuration from ctx, falling back to
// the defaults.
func configFromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey).(Config); ok {
		return cfg
	}
	return defaultConfig()
}
