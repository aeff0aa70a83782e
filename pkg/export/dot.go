package export

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/plan"
)

// ToDOT converts a graph to Graphviz DOT format. The resulting DOT
// string can be rendered with [RenderSVG] or [RenderPNG].
//
// Packages whose metafile is missing are rendered with dashed outlines
// and grey fill to distinguish them from resolved packages.
func ToDOT(g *plan.Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	names := append([]string(nil), g.Nodes()...)
	sort.Strings(names)

	for _, name := range names {
		attrs := nodeAttrs(g, name)
		fmt.Fprintf(&buf, "  %q [%s];\n", name, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, name := range names {
		deps := append([]string(nil), g.Dependencies(name)...)
		sort.Strings(deps)
		for _, dep := range deps {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *plan.Graph, name string) []string {
	label := name
	rec, ok := g.Record(name)
	if ok && rec != nil && rec.Version != "" {
		label = name + "\n" + rec.Version
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if ok && rec != nil && rec.Synthetic() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return buf.Bytes(), nil
}
