package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/porg-project/porg-deps/pkg/cache"
	"github.com/porg-project/porg-deps/pkg/config"
)

func testCLI() *CLI {
	return New(io.Discard, LogInfo)
}

// testConfig writes a porg.toml pointing every directory into a temp
// tree and returns its path. Keeps tests away from /etc/porg.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "porg.toml")
	content := fmt.Sprintf("ports_dir = %q\ndb_dir = %q\ncache_dir = %q\n\n[cache]\nbackend = \"file\"\n",
		filepath.Join(dir, "ports"), filepath.Join(dir, "db"), filepath.Join(dir, "cache"))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func loadTestConfig(t *testing.T, path string) config.Config {
	t.Helper()
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("loading test config: %v", err)
	}
	return cfg
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := testCLI().RootCommand()

	want := []string{
		"resolve", "missing", "check", "graph", "upgrade-plan", "info",
		"register-installed", "unregister-installed", "list-installed",
		"cache-clear", "serve", "completion",
	}

	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}

	if root.Name() != "porg-deps" {
		t.Errorf("root command name = %q, want %q", root.Name(), "porg-deps")
	}
}

func TestNewStoreBackendNone(t *testing.T) {
	c := testCLI()
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone

	if store := c.newStore(context.Background(), cfg); store != nil {
		t.Errorf("newStore() with backend none = %T, want nil", store)
	}
}

func TestNewStoreNoCacheFlag(t *testing.T) {
	c := testCLI()
	c.noCache = true
	cfg := config.Default()
	cfg.CacheDir = t.TempDir()

	if store := c.newStore(context.Background(), cfg); store != nil {
		t.Errorf("newStore() with --no-cache = %T, want nil", store)
	}
}

func TestNewStoreFileBackend(t *testing.T) {
	c := testCLI()
	cfg := config.Default()
	cfg.CacheDir = t.TempDir()

	store := c.newStore(context.Background(), cfg)
	if store == nil {
		t.Fatal("newStore() with file backend returned nil")
	}
	defer store.Close()

	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("newStore() = %T, want *cache.FileCache", store)
	}
}

func TestNewSessionWiresPlanner(t *testing.T) {
	c := testCLI()
	c.configPath = testConfig(t)

	sess, err := c.newSession(context.Background())
	if err != nil {
		t.Fatalf("newSession() error: %v", err)
	}
	defer sess.Close()

	if sess.planner == nil {
		t.Error("session planner is nil")
	}
	if sess.source == nil {
		t.Error("session source is nil")
	}
	if sess.reg == nil {
		t.Error("session registry is nil")
	}
	if sess.store == nil {
		t.Error("session store is nil with default file backend")
	}
}
