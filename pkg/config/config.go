// Package config loads planner configuration from porg.toml.
//
// Resolution order: explicit path (--config), $PORG_CONFIG, then
// /etc/porg/porg.toml. A missing fallback file is not an error;
// defaults apply. Individual directories can be overridden with
// PORG_PORTS_DIR, PORG_DB_DIR and PORG_CACHE_DIR after file load.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/porg-project/porg-deps/pkg/errors"
)

// DefaultPath is the system-wide config location.
const DefaultPath = "/etc/porg/porg.toml"

// Config holds all planner settings.
type Config struct {
	PortsDir string `toml:"ports_dir"` // root of the ports tree
	DBDir    string `toml:"db_dir"`    // installed-package registry directory
	CacheDir string `toml:"cache_dir"` // resolution cache directory

	Resolver Resolver `toml:"resolver"`
	Cache    Cache    `toml:"cache"`
}

// Resolver controls graph construction.
type Resolver struct {
	Workers  int `toml:"workers"`   // metafile prefetch parallelism; 1 disables the pool
	MaxNodes int `toml:"max_nodes"` // safety valve on closure size
}

// Cache selects the resolution-cache backend.
type Cache struct {
	Backend   string `toml:"backend"` // "file", "redis" or "none"
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
}

// Cache backend names accepted in porg.toml.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PortsDir: "/usr/ports",
		DBDir:    "/var/db/porg",
		CacheDir: "/var/cache/porg",
		Resolver: Resolver{
			Workers:  8,
			MaxNodes: 50000,
		},
		Cache: Cache{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads configuration from path. An empty path falls back to
// $PORG_CONFIG, then DefaultPath. Only an explicitly given path must
// exist; a missing fallback file yields the defaults. A file that is
// present but malformed is always an error (config is explicit input,
// unlike metafiles).
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("PORG_CONFIG")
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, err, "parsing %s", path)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults apply.
	default:
		return Config{}, errors.Wrap(errors.ErrCodeConfigInvalid, err, "reading %s", path)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORG_PORTS_DIR"); v != "" {
		c.PortsDir = v
	}
	if v := os.Getenv("PORG_DB_DIR"); v != "" {
		c.DBDir = v
	}
	if v := os.Getenv("PORG_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Resolver.Workers < 1 {
		c.Resolver.Workers = 1
	}
	if c.Resolver.MaxNodes < 1 {
		c.Resolver.MaxNodes = Default().Resolver.MaxNodes
	}
	return nil
}
