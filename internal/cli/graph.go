package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/export"
	"github.com/porg-project/porg-deps/pkg/plan"
)

// Graph output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
)

// graphCommand exports the dependency graph of one or more packages.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "graph <package>...",
		Short: "Export the dependency graph",
		Long: `Graph builds the dependency graph of the given packages and writes it
in the chosen format:

  text   one "pkg -> dep" line per edge, sorted
  json   nodes and edges as a JSON document
  dot    Graphviz source
  svg    rendered image (requires --output)
  png    rendered image (requires --output)

Text, json and dot go to stdout unless --output names a file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			g, err := sess.planner.BuildGraph(cmd.Context(), args)
			if err != nil {
				return err
			}
			c.Logger.Debugf("graph has %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

			switch format {
			case formatText, formatJSON, formatDOT:
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				defer out.Close()
				switch format {
				case formatJSON:
					return export.WriteJSON(g, out)
				case formatDOT:
					_, err := io.WriteString(out, export.ToDOT(g))
					return err
				default:
					return export.WriteText(g, out)
				}

			case formatSVG, formatPNG:
				if output == "" {
					return errors.New(errors.ErrCodeInvalidFormat, "--output is required for %s", format)
				}
				return c.renderGraph(cmd, g, format, output)

			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want text, json, dot, svg or png)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, dot, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for textual formats)")

	return cmd
}

// renderGraph rasterizes the graph via Graphviz and writes it to path.
func (c *CLI) renderGraph(cmd *cobra.Command, g *plan.Graph, format, path string) error {
	sp := newSpinner(cmd.Context(), fmt.Sprintf("Rendering %s...", format))
	sp.Start()

	dot := export.ToDOT(g)
	var (
		data []byte
		err  error
	)
	if format == formatPNG {
		data, err = export.RenderPNG(cmd.Context(), dot)
	} else {
		data, err = export.RenderSVG(cmd.Context(), dot)
	}
	if err != nil {
		sp.StopWithError("Rendering failed")
		return err
	}
	sp.Stop()

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing %s", path)
	}
	printSuccess("Rendered dependency graph")
	printFile(path)
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
