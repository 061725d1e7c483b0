// Package config loads monitoring server settings from TOML.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/zaiyan-alam/pegasus/pkg/cache"
)

// Defaults applied by Load when the file leaves settings unset.
const (
	DefaultListen   = ":5000"
	DefaultCacheTTL = 10 * time.Minute
)

// Config holds the monitoring server settings.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `toml:"listen"`

	// MasterDBURL is the DSN of the master workflow database.
	MasterDBURL string `toml:"master_db_url"`

	// PrettyPrint indents JSON responses unless a request overrides it.
	PrettyPrint bool `toml:"pretty_print"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "null", "disk", or "redis". Unset means "null".
	Backend string `toml:"backend"`

	// Dir is the disk backend's directory.
	Dir string `toml:"dir"`

	// RedisAddr is the redis backend's host:port.
	RedisAddr string `toml:"redis_addr"`

	// RedisPassword is the optional redis password.
	RedisPassword string `toml:"redis_password"`

	// RedisDB selects the redis database number.
	RedisDB int `toml:"redis_db"`

	// TTL bounds how long resolved stampede URLs stay cached, written
	// as a duration string such as "10m".
	TTL duration `toml:"ttl"`
}

// duration decodes TOML duration strings such as "10m" or "1h30m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Load reads a TOML config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Listen: DefaultListen,
		Cache:  CacheConfig{Backend: "null", TTL: duration{DefaultCacheTTL}},
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Cache.TTL.Duration <= 0 {
		cfg.Cache.TTL.Duration = DefaultCacheTTL
	}
	return cfg, nil
}

// Open builds the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case "", "null":
		return cache.NewNullCache(), nil
	case "disk":
		return cache.NewDiskCache(c.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}
