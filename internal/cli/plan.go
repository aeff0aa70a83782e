package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/errors"
)

// planCommand produces a full rebuild plan for a set of roots.
func (c *CLI) planCommand() *cobra.Command {
	var (
		pkgsFlag  string
		groupFlag string
		worldFlag bool
		review    bool
	)

	cmd := &cobra.Command{
		Use:   "upgrade-plan",
		Short: "Plan rebuilds for packages, a group, or the world",
		Long: `Upgrade-plan resolves the selected roots into one build order and marks
every package that needs a rebuild: not installed, installed at a
different version than the tree declares, caught in a dependency cycle,
or depending on a package that itself needs a rebuild.

Exactly one selector must be given:

  --pkgs a,b,c   plan the listed packages
  --group name   plan the members of a group metafile
  --world        plan every package in the ports tree

The plan is printed as JSON. With --review an interactive browser opens
instead, showing per-package verdicts and reasons.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			var roots []string
			selectors := 0
			if pkgsFlag != "" {
				selectors++
				roots = strings.Split(pkgsFlag, ",")
			}
			if groupFlag != "" {
				selectors++
				roots = []string{groupFlag}
			}
			if worldFlag {
				selectors++
				roots = sess.source.All()
			}
			if selectors != 1 {
				return errors.New(errors.ErrCodeInvalidSelector, "exactly one of --pkgs, --group or --world must be given")
			}

			sp := newSpinner(cmd.Context(), "Planning rebuilds...")
			sp.Start()
			res, err := sess.planner.Plan(cmd.Context(), roots)
			if err != nil {
				sp.StopWithError("Planning failed")
				return err
			}
			sp.Stop()

			c.Logger.Infof("planned %d packages, %d need rebuild (%s)",
				res.Stats.Nodes, len(res.NeedsRebuild), res.Stats.Elapsed.Round(time.Millisecond))
			if len(res.Cycles) > 0 {
				c.Logger.Warnf("%d dependency cycle(s) detected; participants forced to rebuild", len(res.Cycles))
			}

			if review {
				return runPlanReview(res)
			}
			return printJSON(res)
		},
	}

	cmd.Flags().StringVar(&pkgsFlag, "pkgs", "", "comma-separated package names to plan")
	cmd.Flags().StringVar(&groupFlag, "group", "", "group metafile whose members to plan")
	cmd.Flags().BoolVar(&worldFlag, "world", false, "plan every package in the ports tree")
	cmd.Flags().BoolVar(&review, "review", false, "browse the plan interactively instead of printing JSON")

	return cmd
}
