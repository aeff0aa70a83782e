package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/porg-project/porg-deps/pkg/plan"
)

// WriteText writes the graph as a sorted "A -> B" edge list, one edge
// per line, where A depends on B. Nodes without edges do not appear.
func WriteText(g *plan.Graph, w io.Writer) error {
	lines := make([]string, 0, g.EdgeCount())
	for _, name := range g.Nodes() {
		for _, dep := range g.Dependencies(name) {
			lines = append(lines, fmt.Sprintf("%s -> %s", name, dep))
		}
	}
	sort.Strings(lines)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
