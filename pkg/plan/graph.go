// Package plan builds dependency graphs for porg packages and derives
// build plans from them: cycle reports, topological build orders, tier
// ordering and rebuild analysis.
//
// All state is owned by a single planning run. Nothing in this package
// touches global state, so concurrent runs never interfere.
package plan

import (
	"github.com/porg-project/porg-deps/pkg/meta"
)

// Graph is a resolution graph. Nodes are normalized package names; a
// directed edge A→B records that A depends on B. Every node carries the
// Record it was resolved from (synthetic for unknown packages), and
// every edge endpoint is a node, so edges never dangle.
type Graph struct {
	records    map[string]*meta.Record
	order      []string // node insertion order
	deps       map[string][]string
	dependents map[string][]string
	edges      map[string]map[string]struct{}
	edgeCount  int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		records:    make(map[string]*meta.Record),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
		edges:      make(map[string]map[string]struct{}),
	}
}

// AddNode inserts a node under the given name. The first record wins;
// re-adding an existing node is a no-op.
func (g *Graph) AddNode(name string, rec *meta.Record) {
	if _, ok := g.records[name]; ok {
		return
	}
	g.records[name] = rec
	g.order = append(g.order, name)
}

// AddEdge records a dependency from → to. Both endpoints must already be
// nodes; duplicate edges are dropped, preserving first-seen order.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.records[from]; !ok {
		return
	}
	if _, ok := g.records[to]; !ok {
		return
	}
	set, ok := g.edges[from]
	if !ok {
		set = make(map[string]struct{})
		g.edges[from] = set
	}
	if _, dup := set[to]; dup {
		return
	}
	set[to] = struct{}{}
	g.deps[from] = append(g.deps[from], to)
	g.dependents[to] = append(g.dependents[to], from)
	g.edgeCount++
}

// HasNode reports whether name is a node.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.records[name]
	return ok
}

// Record returns the metadata record attached to a node.
func (g *Graph) Record(name string) (*meta.Record, bool) {
	rec, ok := g.records[name]
	return rec, ok
}

// Nodes returns all node names in insertion order. The slice is shared;
// callers must not mutate it.
func (g *Graph) Nodes() []string {
	return g.order
}

// Dependencies returns the direct dependencies of a node in metafile
// order, deduplicated.
func (g *Graph) Dependencies(name string) []string {
	return g.deps[name]
}

// Dependents returns the nodes that directly depend on name.
func (g *Graph) Dependents(name string) []string {
	return g.dependents[name]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.records) }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }
