// Package config loads conga's optional TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/conga/config.toml (falling back to
// ~/.config/conga/config.toml). Every key is optional:
//
//	[decompose]
//	measure = "lazar"
//	eager_modularity = false
//	workers = 0
//
//	[cache]
//	backend = "file"        # file, redis or none
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[store]
//	backend = "file"        # file, memory, mongo or none
//	mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//
// Environment variables override the file: CONGA_REDIS_ADDR,
// CONGA_MONGO_URI, CONGA_CACHE_BACKEND, CONGA_STORE_BACKEND, CONGA_ADDR
// and CONGA_WORKERS.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/conga/pkg/cache"
	"github.com/matzehuels/conga/pkg/storage"
)

// Config is the full configuration.
type Config struct {
	Decompose Decompose `toml:"decompose"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
	Server    Server    `toml:"server"`
}

// Decompose holds defaults for decomposition runs.
type Decompose struct {
	Measure         string `toml:"measure" validate:"omitempty,oneof=lazar"`
	EagerModularity bool   `toml:"eager_modularity"`
	Workers         int    `toml:"workers" validate:"gte=0"`
	OptimalCount    int    `toml:"optimal_count" validate:"gte=0"`
}

// Cache selects the result cache backend.
type Cache struct {
	Backend   string        `toml:"backend" validate:"oneof=file redis none"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
}

// Store selects the run storage backend.
type Store struct {
	Backend  string `toml:"backend" validate:"oneof=file memory mongo none"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri" validate:"required_if=Backend mongo"`
	Database string `toml:"database"`
}

// Server configures `conga serve`.
type Server struct {
	Addr           string        `toml:"addr" validate:"required"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gte=0"`
	ShutdownGrace  time.Duration `toml:"shutdown_grace" validate:"gte=0"`
	MaxBodyBytes   int64         `toml:"max_body_bytes" validate:"gte=0"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Decompose: Decompose{Measure: "lazar"},
		Cache:     Cache{Backend: "file", TTL: 7 * 24 * time.Hour},
		Store:     Store{Backend: "file", Database: storage.DefaultDatabase},
		Server: Server{
			Addr:           ":8080",
			RequestTimeout: 2 * time.Minute,
			ShutdownGrace:  10 * time.Second,
		},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "conga", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "conga", "config.toml"), nil
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path reads DefaultPath and tolerates its
// absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return Config{}, err
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if keys := md.Undecoded(); len(keys) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown key %s", path, keys[0])
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Cache.RedisAddr = getEnv("CONGA_REDIS_ADDR", c.Cache.RedisAddr)
	c.Store.MongoURI = getEnv("CONGA_MONGO_URI", c.Store.MongoURI)
	c.Cache.Backend = getEnv("CONGA_CACHE_BACKEND", c.Cache.Backend)
	c.Store.Backend = getEnv("CONGA_STORE_BACKEND", c.Store.Backend)
	c.Server.Addr = getEnv("CONGA_ADDR", c.Server.Addr)
	c.Decompose.Workers = getEnvInt("CONGA_WORKERS", c.Decompose.Workers)
}

var validate = validator.New()

// Validate checks field constraints and reports the first violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		switch e.Tag() {
		case "oneof":
			msgs[i] = fmt.Sprintf("%s: %q is not one of [%s]", field, e.Value(), e.Param())
		case "required", "required_if":
			msgs[i] = fmt.Sprintf("%s: required", field)
		default:
			msgs[i] = fmt.Sprintf("%s: failed %s", field, e.Tag())
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Open builds the configured cache backend.
func (c Cache) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(ctx, c.RedisAddr)
	}
	dir := c.Dir
	if dir == "" {
		var err error
		if dir, err = cache.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// Open builds the configured run store. It returns nil for "none".
func (s Store) Open(ctx context.Context) (storage.Store, error) {
	switch s.Backend {
	case "none":
		return nil, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	case "mongo":
		return storage.NewMongoStore(ctx, storage.MongoConfig{URI: s.MongoURI, Database: s.Database})
	}
	return storage.NewFileStore(s.Dir)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
