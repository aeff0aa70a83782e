package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/registry"
)

// listOutput is the JSON shape of the list-installed command.
type listOutput struct {
	Installed []string `json:"installed"`
}

// newRegistry opens the installed-package registry without the rest of
// the planning stack; the registry commands have no use for a cache.
func (c *CLI) newRegistry() (*registry.Registry, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	return registry.New(cfg.DBDir), nil
}

// registerInstalledCommand records a package as installed.
func (c *CLI) registerInstalledCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register-installed <pkgid>",
		Short: "Record a package as installed",
		Long: `Register-installed writes an entry to the installed-package registry.
The pkgid may carry a version ("gcc-13.2.0", "vim/9.0") or be a bare
name; the version part is split off and stored alongside the name.
Prints OK on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			if err := reg.Register(args[0]); err != nil {
				return err
			}
			fmt.Println("OK")
			return nil
		},
	}
}

// unregisterInstalledCommand removes a package from the registry.
// Prints OK when an entry was removed, NOTFOUND when none matched; the
// exit code is zero either way.
func (c *CLI) unregisterInstalledCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unregister-installed <pkgid>",
		Short: "Remove a package from the installed registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			removed, err := reg.Unregister(args[0])
			if err != nil {
				return err
			}
			if removed {
				fmt.Println("OK")
			} else {
				fmt.Println("NOTFOUND")
			}
			return nil
		},
	}
}

// listInstalledCommand prints every registered pkgid as JSON.
func (c *CLI) listInstalledCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-installed",
		Short: "List registered packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			return printJSON(listOutput{Installed: reg.List()})
		},
	}
}
