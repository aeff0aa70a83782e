package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/porg-project/porg-deps/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	// Point at a nonexistent implicit path so the system config (if any)
	// cannot leak into the test.
	t.Setenv("PORG_CONFIG", filepath.Join(t.TempDir(), "nope", "porg.toml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PortsDir != "/usr/ports" {
		t.Errorf("PortsDir = %q, want %q", cfg.PortsDir, "/usr/ports")
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Resolver.Workers != 8 {
		t.Errorf("Resolver.Workers = %d, want 8", cfg.Resolver.Workers)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "porg.toml")
	content := `
ports_dir = "/srv/ports"
db_dir    = "/srv/db"

[resolver]
workers   = 2
max_nodes = 100

[cache]
backend    = "redis"
redis_addr = "cache.local:6379"
redis_db   = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PortsDir != "/srv/ports" {
		t.Errorf("PortsDir = %q, want %q", cfg.PortsDir, "/srv/ports")
	}
	if cfg.CacheDir != "/var/cache/porg" {
		t.Errorf("CacheDir = %q, want default %q", cfg.CacheDir, "/var/cache/porg")
	}
	if cfg.Resolver.Workers != 2 || cfg.Resolver.MaxNodes != 100 {
		t.Errorf("Resolver = %+v, want workers=2 max_nodes=100", cfg.Resolver)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache.local:6379" || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "porg.toml")
	if err := os.WriteFile(path, []byte(`ports_dir = "/from/file"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORG_PORTS_DIR", "/from/env")
	t.Setenv("PORG_DB_DIR", "/db/env")
	t.Setenv("PORG_CACHE_DIR", "/cache/env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.PortsDir != "/from/env" {
		t.Errorf("PortsDir = %q, want env override", cfg.PortsDir)
	}
	if cfg.DBDir != "/db/env" || cfg.CacheDir != "/cache/env" {
		t.Errorf("DBDir = %q, CacheDir = %q, want env overrides", cfg.DBDir, cfg.CacheDir)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "porg.toml")
		if err := os.WriteFile(path, []byte("ports_dir = [broken"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, errors.ErrCodeConfigInvalid) {
			t.Errorf("Load() error = %v, want CONFIG_INVALID", err)
		}
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		if !errors.Is(err, errors.ErrCodeConfigInvalid) {
			t.Errorf("Load() error = %v, want CONFIG_INVALID", err)
		}
	})

	t.Run("bad backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "porg.toml")
		if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\""), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(path)
		if !errors.Is(err, errors.ErrCodeConfigInvalid) {
			t.Errorf("Load() error = %v, want CONFIG_INVALID", err)
		}
	})
}
