package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/meta"
)

// missingOutput is the JSON shape of the missing command.
type missingOutput struct {
	Package string   `json:"package"`
	Missing []string `json:"missing"`
}

// checkOutput is the JSON shape of the check command.
type checkOutput struct {
	Package string `json:"package"`
	OK      bool   `json:"ok"`
}

// resolveCommand computes the dependency closure of one package and prints
// the build order as JSON.
func (c *CLI) resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <package>",
		Short: "Compute the build order for a package",
		Long: `Resolve reads the package's metafile, walks build_depends and depends
transitively, and prints the resulting build order as JSON. Dependencies
come strictly before their dependents; packages caught in dependency
cycles are appended after the orderable part and reported under "cycles".

Version constraints in the argument are tolerated and ignored, so
"resolve gcc>=13" resolves gcc.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			prog := newProgress(c.Logger)
			res, err := sess.planner.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Resolved %s: %d packages", res.Package, len(res.Order)))

			return printJSON(res)
		},
	}
}

// missingCommand lists the dependencies of a package that are not installed.
func (c *CLI) missingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "missing <package>",
		Short: "List dependencies that are not installed",
		Long: `Missing resolves the package's build order and keeps only the entries
absent from the installed-package registry, preserving build order. An
empty list means everything the package needs is already installed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			missing, err := sess.planner.Missing(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(missingOutput{
				Package: meta.Normalize(args[0]),
				Missing: missing,
			})
		},
	}
}

// checkCommand reports whether a package's dependencies are all installed.
// The answer goes to stdout as JSON; the exit code stays zero either way.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <package>",
		Short: "Check whether all dependencies are installed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			ok, err := sess.planner.Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printJSON(checkOutput{
				Package: meta.Normalize(args[0]),
				OK:      ok,
			})
		},
	}
}
