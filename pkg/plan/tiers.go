package plan

import (
	"sort"

	"github.com/porg-project/porg-deps/pkg/meta"
)

// TierOrder reorders a build order by ascending tier rank (core first,
// unknown last). The sort is stable: within a tier, the incoming
// dependency-respecting order is preserved untouched.
//
// Tier ordering is a presentation policy for batch scheduling. It can
// place a package before a dependency from a later tier; the plain
// TopoSort order remains the correctness reference.
func TierOrder(order []string, g *Graph) []string {
	out := make([]string, len(order))
	copy(out, order)

	sort.SliceStable(out, func(i, j int) bool {
		return tierOf(g, out[i]).Rank() < tierOf(g, out[j]).Rank()
	})
	return out
}

// Tiers maps each node in the order to its tier.
func Tiers(order []string, g *Graph) map[string]meta.Tier {
	tiers := make(map[string]meta.Tier, len(order))
	for _, n := range order {
		tiers[n] = tierOf(g, n)
	}
	return tiers
}

func tierOf(g *Graph, name string) meta.Tier {
	if rec, ok := g.Record(name); ok && rec != nil {
		return rec.Tier
	}
	return meta.TierUnknown
}
