package plan

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// InstallState is the view of the installed-package registry the rebuild
// analysis needs: the installed version for a name, if any.
type InstallState interface {
	Installed(name string) (version string, ok bool)
}

// AnalyzeRebuilds decides, for every node, whether it must be (re)built:
//
//   - not installed at all
//   - installed at a version different from the declared one
//   - depending (transitively) on a package that needs rebuilding
//
// Cycle participants are forced to true: when a dependency is already on
// the active evaluation path its final answer is unknowable mid-cycle,
// so the conservative answer is to rebuild.
//
// Results are memoized per run, each node is evaluated once, and the
// walk uses an explicit frame stack. The reasons map explains every true
// verdict; version drift is labeled as upgrade or downgrade when both
// versions parse as semver, else as a plain change.
func AnalyzeRebuilds(g *Graph, order []string, inst InstallState) (needs map[string]bool, reasons map[string]string) {
	if len(order) == 0 {
		order = g.Nodes()
	}
	a := &analyzer{
		g:       g,
		inst:    inst,
		memo:    make(map[string]bool, len(order)),
		reasons: make(map[string]string),
		onPath:  make(map[string]bool),
	}
	for _, n := range order {
		a.evaluate(n)
	}
	return a.memo, a.reasons
}

type analyzer struct {
	g       *Graph
	inst    InstallState
	memo    map[string]bool
	reasons map[string]string
	onPath  map[string]bool
}

type rebuildFrame struct {
	node  string
	next  int
	needs bool
}

func (a *analyzer) evaluate(root string) {
	if _, done := a.memo[root]; done {
		return
	}
	if a.decideBase(root) {
		return
	}

	stack := []rebuildFrame{{node: root}}
	a.onPath[root] = true

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		deps := a.g.Dependencies(f.node)

		if f.needs || f.next >= len(deps) {
			// Finalize and propagate into the parent frame.
			a.memo[f.node] = f.needs
			delete(a.onPath, f.node)
			stack = stack[:len(stack)-1]
			if f.needs && len(stack) > 0 {
				p := &stack[len(stack)-1]
				p.needs = true
				a.setReason(p.node, "stale dependency: %s", f.node)
			}
			continue
		}

		child := deps[f.next]
		f.next++

		if v, known := a.memo[child]; known {
			if v {
				f.needs = true
				a.setReason(f.node, "stale dependency: %s", child)
			}
			continue
		}
		if a.onPath[child] {
			f.needs = true
			a.setReason(f.node, "dependency cycle via %s", child)
			continue
		}
		if a.decideBase(child) {
			f.needs = true
			a.setReason(f.node, "stale dependency: %s", child)
			continue
		}
		stack = append(stack, rebuildFrame{node: child})
		a.onPath[child] = true
	}
}

// decideBase settles the dependency-independent rules. It memoizes and
// returns true when the node needs a rebuild on its own; false means the
// verdict depends on the node's dependencies.
func (a *analyzer) decideBase(name string) bool {
	installed, ok := a.inst.Installed(name)
	if !ok {
		a.memo[name] = true
		a.setReason(name, "not installed")
		return true
	}

	declared := ""
	if rec, found := a.g.Record(name); found && rec != nil {
		declared = rec.Version
	}
	if declared != "" && installed != "" && declared != installed {
		a.memo[name] = true
		a.setReason(name, "%s", driftReason(declared, installed))
		return true
	}
	return false
}

func (a *analyzer) setReason(name, format string, args ...any) {
	if _, ok := a.reasons[name]; ok {
		return
	}
	a.reasons[name] = fmt.Sprintf(format, args...)
}

// driftReason labels a version difference. Rebuild triggering itself is
// plain string inequality; semver only classifies the direction for the
// report.
func driftReason(declared, installed string) string {
	dv, errD := semver.NewVersion(declared)
	iv, errI := semver.NewVersion(installed)
	if errD == nil && errI == nil {
		switch {
		case dv.GreaterThan(iv):
			return fmt.Sprintf("upgrade %s -> %s", installed, declared)
		case dv.LessThan(iv):
			return fmt.Sprintf("downgrade %s -> %s", installed, declared)
		}
	}
	return fmt.Sprintf("version change %s -> %s", installed, declared)
}
