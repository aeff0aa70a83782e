package meta

import "strings"

// Tier is the build-priority class a package belongs to. Lower-ranked
// tiers build earlier when a plan is tier-sorted.
type Tier string

// Known tiers, in rank order.
const (
	TierCore     Tier = "core"
	TierSystem   Tier = "system"
	TierLibs     Tier = "libs"
	TierGUI      Tier = "gui"
	TierDesktop  Tier = "desktop"
	TierOptional Tier = "optional"
	TierUnknown  Tier = "unknown"
)

var tierRanks = map[Tier]int{
	TierCore:     0,
	TierSystem:   1,
	TierLibs:     2,
	TierGUI:      3,
	TierDesktop:  4,
	TierOptional: 5,
	TierUnknown:  6,
}

// ParseTier maps a metafile tier value to a known Tier. Unrecognized,
// empty or missing values map to TierUnknown; matching is
// case-insensitive.
func ParseTier(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierRanks[t]; ok {
		return t
	}
	return TierUnknown
}

// Rank returns the sort rank of the tier. Unknown tiers sort last.
func (t Tier) Rank() int {
	if r, ok := tierRanks[t]; ok {
		return r
	}
	return tierRanks[TierUnknown]
}

func (t Tier) String() string { return string(t) }
