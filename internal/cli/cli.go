// Package cli implements the porg-deps command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/buildinfo"
	"github.com/porg-project/porg-deps/pkg/cache"
	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/meta"
	"github.com/porg-project/porg-deps/pkg/observability"
	"github.com/porg-project/porg-deps/pkg/plan"
	"github.com/porg-project/porg-deps/pkg/registry"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger. Planner and
// cache observability hooks are registered against that logger, so -v
// surfaces per-run timings and cache traffic.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
	}
	observability.SetPlannerHooks(debugHooks{logger: c.Logger})
	observability.SetCacheHooks(debugHooks{logger: c.Logger})
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "porg-deps",
		Short:        "porg-deps plans build order for source packages",
		Long:         `porg-deps reads metafiles from a ports tree, resolves transitive dependencies into a build order, and plans rebuilds against the installed-package registry.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to porg.toml (default $PORG_CONFIG, then /etc/porg/porg.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the resolution cache")

	// Register all subcommands
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.missingCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.registerInstalledCommand())
	root.AddCommand(c.unregisterInstalledCommand())
	root.AddCommand(c.listInstalledCommand())
	root.AddCommand(c.cacheClearCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Session Factory
// =============================================================================

// session bundles the collaborators a single command invocation works with.
// Close releases the cache backend; the rest needs no teardown.
type session struct {
	cfg     config.Config
	source  *meta.Source
	reg     *registry.Registry
	store   cache.Store
	planner *plan.Planner
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Default().Debugf("closing cache: %v", err)
		}
	}
}

// newSession loads configuration and wires source, registry, cache and
// planner together. The store may be nil when caching is off.
func (c *CLI) newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}

	source := meta.NewSource(cfg.PortsDir, c.Logger.Warnf)
	reg := registry.New(cfg.DBDir)
	store := c.newStore(ctx, cfg)

	var orders plan.OrderCache
	if store != nil {
		orders = cache.NewResolutionCache(store, c.Logger.Warnf)
	}

	planner, err := plan.New(source, reg, orders, plan.Options{
		Workers:  cfg.Resolver.Workers,
		MaxNodes: cfg.Resolver.MaxNodes,
		Warn:     c.Logger.Warnf,
	})
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &session{cfg: cfg, source: source, reg: reg, store: store, planner: planner}, nil
}

// newStore selects the cache backend from configuration. Backend failures
// degrade to planning without a cache rather than aborting the command.
func (c *CLI) newStore(ctx context.Context, cfg config.Config) cache.Store {
	if c.noCache {
		return nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return nil
	case config.BackendRedis:
		store, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
		if err != nil {
			c.Logger.Warnf("resolution cache disabled: %v", err)
			return nil
		}
		return store
	default:
		store, err := cache.NewFileCache(cfg.CacheDir)
		if err != nil {
			c.Logger.Warnf("resolution cache disabled: %v", err)
			return nil
		}
		return store
	}
}

// =============================================================================
// Output Helpers
// =============================================================================

// printJSON writes v to stdout as indented JSON. Command results go to
// stdout; logs and progress stay on stderr.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
