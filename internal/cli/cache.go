package cli

import (
	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/cache"
	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/errors"
)

// cacheClearCommand drops every cached resolution. Cached orders never
// expire on their own, so this is the way to pick up metafile edits
// without waiting for a version bump.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cache-clear",
		Short: "Clear the resolution cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			// Unlike planning, an explicit clear must not degrade to a
			// no-op when the backend is unreachable.
			var store cache.Store
			switch cfg.Cache.Backend {
			case config.BackendRedis:
				store, err = cache.NewRedisCache(cmd.Context(), cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
			default:
				store, err = cache.NewFileCache(cfg.CacheDir)
			}
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return errors.Wrap(errors.ErrCodeCacheUnavailable, err, "clearing resolution cache")
			}

			printSuccess("Cleared resolution cache")
			if cfg.Cache.Backend == config.BackendFile {
				printDetail("Directory: %s", cfg.CacheDir)
			}
			return nil
		},
	}
}
