package plan

import "sort"

// TopoSort orders the graph's nodes so that every dependency appears
// strictly before each of its dependents. It runs Kahn's algorithm over
// the reversed dependency relation: a node's outstanding count is the
// number of its own dependencies, dependency-free nodes seed the ready
// set, and finishing a node releases its dependents.
//
// Nodes trapped in cycles never reach outstanding zero; they are
// appended after the acyclic portion in sorted order, so the result
// always contains every node exactly once. Ties among simultaneously
// ready nodes resolve lexicographically, making the order reproducible
// for identical metadata.
func TopoSort(g *Graph) []string {
	nodes := g.Nodes()
	outstanding := make(map[string]int, len(nodes))
	for _, n := range nodes {
		outstanding[n] = len(g.Dependencies(n))
	}

	var ready []string
	for _, n := range nodes {
		if outstanding[n] == 0 {
			ready = append(ready, n)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, dep := range g.Dependents(n) {
			outstanding[dep]--
			if outstanding[dep] == 0 {
				ready = insertSorted(ready, dep)
			}
		}
	}

	if len(order) < len(nodes) {
		var rest []string
		for _, n := range nodes {
			if outstanding[n] > 0 {
				rest = append(rest, n)
			}
		}
		sort.Strings(rest)
		order = append(order, rest...)
	}
	return order
}

func insertSorted(s []string, v string) []string {
	i := sort.SearchStrings(s, v)
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
