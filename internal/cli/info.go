package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/config"
	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/meta"
	"github.com/porg-project/porg-deps/pkg/registry"
)

// infoCommand shows one package's metafile record and install state.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Show a package's metadata and install state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			source := meta.NewSource(cfg.PortsDir, c.Logger.Warnf)
			reg := registry.New(cfg.DBDir)

			name := meta.Normalize(args[0])
			if err := errors.ValidatePackageName(name); err != nil {
				return err
			}
			rec, found := source.Lookup(name)
			if !found {
				return errors.New(errors.ErrCodeMetafileNotFound, "no metafile for %q", name)
			}

			fmt.Println(StyleTitle.Render(rec.Name))
			if rec.Version != "" {
				printKeyValue("Version", rec.Version)
			}
			printKeyValueStyled("Tier", string(rec.Tier), lipgloss.NewStyle().Foreground(tierColor(rec.Tier)))
			if rec.IsGroup {
				printKeyValue("Type", "group")
				printKeyValue("Members", strings.Join(rec.Members, ", "))
			} else if len(rec.Depends) > 0 {
				printKeyValue("Depends", strings.Join(rec.Depends, ", "))
			}

			if version, ok := reg.Installed(name); ok {
				installed := "yes"
				if version != "" {
					installed = fmt.Sprintf("yes (%s)", version)
				}
				printKeyValue("Installed", installed)
			} else {
				printKeyValue("Installed", "no")
			}

			printDetail("Metafile: %s", rec.Path)
			return nil
		},
	}
}
