// Package export serializes dependency graphs for output: a JSON
// snapshot, a plain-text edge list, and Graphviz DOT with SVG/PNG
// rendering. All formats are deterministic; nodes and edges are sorted
// so identical graphs export identical bytes.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/porg-project/porg-deps/pkg/meta"
	"github.com/porg-project/porg-deps/pkg/plan"
)

type graph struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	Name    string    `json:"name"`
	Version string    `json:"version,omitempty"`
	Tier    meta.Tier `json:"tier,omitempty"`
	Missing bool      `json:"missing,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func snapshot(g *plan.Graph) graph {
	names := append([]string(nil), g.Nodes()...)
	sort.Strings(names)

	out := graph{Nodes: make([]node, 0, len(names)), Edges: []edge{}}
	for _, name := range names {
		nd := node{Name: name}
		if rec, ok := g.Record(name); ok && rec != nil {
			nd.Version = rec.Version
			nd.Tier = rec.Tier
			nd.Missing = rec.Synthetic()
		}
		out.Nodes = append(out.Nodes, nd)

		deps := append([]string(nil), g.Dependencies(name)...)
		sort.Strings(deps)
		for _, dep := range deps {
			out.Edges = append(out.Edges, edge{From: name, To: dep})
		}
	}
	return out
}

// WriteJSON encodes the graph as JSON and writes it to w.
// The output includes all nodes (with version, tier and missing-metadata
// state) and all dependency edges.
func WriteJSON(g *plan.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the graph to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *plan.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
