package plan

import "sort"

// Cycle is a closed dependency path: the first node is repeated as the
// last element, so a self-loop on A reads [A, A].
type Cycle []string

// DFS node colors: white = unvisited, gray = on the active path,
// black = fully explored.
const (
	white = iota
	gray
	black
)

// DetectCycles finds every dependency cycle in the graph, one report per
// distinct closing edge. Edges into already-explored (black) territory
// are skipped, so shared subtrees are not rescanned.
//
// The walk keeps its own frame and path stacks instead of recursing;
// closure depth is bounded by the ports tree, not the goroutine stack.
// Start nodes are taken in sorted order so reports are reproducible.
func DetectCycles(g *Graph) []Cycle {
	color := make(map[string]int, g.NodeCount())

	starts := make([]string, len(g.Nodes()))
	copy(starts, g.Nodes())
	sort.Strings(starts)

	type frame struct {
		node string
		next int // index of the next dependency to examine
	}

	var cycles []Cycle
	for _, start := range starts {
		if color[start] != white {
			continue
		}
		stack := []frame{{node: start}}
		path := []string{start}
		color[start] = gray

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			deps := g.Dependencies(f.node)
			if f.next >= len(deps) {
				color[f.node] = black
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}

			child := deps[f.next]
			f.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{node: child})
				path = append(path, child)
			case gray:
				// Closing edge: the child is on the active path. Report
				// the loop from its position onward and keep scanning
				// this node's remaining dependencies.
				idx := 0
				for i, n := range path {
					if n == child {
						idx = i
						break
					}
				}
				cyc := make(Cycle, 0, len(path)-idx+1)
				cyc = append(cyc, path[idx:]...)
				cyc = append(cyc, child)
				cycles = append(cycles, cyc)
			}
		}
	}
	return cycles
}
