// Package meta reads porg package metadata: it locates metafiles in the
// ports tree, parses their YAML, and canonicalizes the historical key
// spellings into a single Record shape the planner consumes.
package meta

import (
	"strconv"
	"strings"
)

// Record is the canonical view of one metafile. Regardless of which key
// spellings the file used, the planner only ever sees this shape.
type Record struct {
	Name    string
	Version string
	Tier    Tier

	// Depends is the merged dependency list: build-time entries first,
	// then run-time, each normalized, empties dropped, duplicates removed
	// first-seen. Build deps lead because they gate the package's own build.
	Depends []string

	// IsGroup marks a virtual meta-package. Groups carry Members and
	// never appear in a buildable order themselves; any dependency keys
	// in a group metafile are preserved but ignored by the planner.
	IsGroup bool
	Members []string

	// Path is the metafile this record was parsed from. Empty for records
	// synthesized when no metafile exists.
	Path string
}

// Synthetic reports whether the record was fabricated for a package with
// no metafile. Synthetic records are dependency-free leaves.
func (r *Record) Synthetic() bool { return r.Path == "" }

// Historical key spellings, in lookup priority order. Earlier spellings
// win when a file carries several.
var (
	buildDepKeys = []string{"build_depends", "build-depends", "build_requires", "build-requires"}
	runDepKeys   = []string{"depends", "run_depends", "run-depends", "runtime_depends", "runtime_requires", "requires"}
	memberKeys   = []string{"packages", "components"}
	groupKeys    = []string{"group", "is_group"}
)

// fromRaw canonicalizes a parsed metafile mapping. The queried name is
// the fallback when the file declares none; a declared name is itself
// normalized so constraint suffixes in the name field cannot leak into
// graph keys.
func fromRaw(name string, raw map[string]any, path string) *Record {
	rec := &Record{
		Name: name,
		Tier: TierUnknown,
		Path: path,
	}
	if raw == nil {
		return rec
	}

	if v, ok := raw["name"]; ok {
		if declared := Normalize(stringify(v)); declared != "" {
			rec.Name = declared
		}
	}
	if v, ok := raw["version"]; ok {
		rec.Version = strings.TrimSpace(stringify(v))
	}
	if v, ok := raw["tier"]; ok {
		rec.Tier = ParseTier(stringify(v))
	}

	for _, k := range groupKeys {
		if v, ok := raw[k]; ok && truthy(v) {
			rec.IsGroup = true
			break
		}
	}
	if rec.IsGroup {
		for _, k := range memberKeys {
			if v, ok := raw[k]; ok {
				rec.Members = NormalizeAll(stringList(v))
				break
			}
		}
	}

	var build, run []string
	for _, k := range buildDepKeys {
		if v, ok := raw[k]; ok {
			build = stringList(v)
			break
		}
	}
	for _, k := range runDepKeys {
		if v, ok := raw[k]; ok {
			run = stringList(v)
			break
		}
	}
	rec.Depends = NormalizeAll(append(build, run...))
	return rec
}

// stringify renders a YAML scalar as a string. Floats render without
// trailing zeros so "version: 1.2" round-trips as "1.2".
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return ""
	}
}

// stringList accepts scalar or list values for list-shaped keys, the way
// historical metafiles mix them.
func stringList(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := stringify(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return x
	default:
		if s := stringify(v); s != "" {
			return []string{s}
		}
		return nil
	}
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes", "on", "1":
			return true
		}
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return false
}
