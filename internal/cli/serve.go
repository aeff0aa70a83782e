package cli

import (
	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/server"
)

// serveCommand runs the read-only planning API.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning API over HTTP",
		Long: `Serve exposes resolution and planning over HTTP:

  GET /healthz
  GET /v1/resolve/{pkg}
  GET /v1/plan?pkgs=a,b | ?group=name | ?world=1
  GET /v1/installed
  GET /v1/info/{pkg}

Metadata and registry state are re-read per request, so metafile edits
and install events show up without a restart. The server shuts down
cleanly on SIGINT/SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			store := c.newStore(cmd.Context(), cfg)
			if store != nil {
				defer store.Close()
			}

			c.Logger.Infof("serving planning API on %s", listen)
			return server.New(&cfg, store, c.Logger).ListenAndServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8475", "address to listen on")

	return cmd
}
