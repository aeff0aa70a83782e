package meta

import "strings"

// separators truncate a raw dependency token at the first constraint or
// annotation marker. Order matters only for readability; truncation
// converges to the earliest occurrence regardless.
var separators = []string{" ", ">=", "<=", "==", "=", "(", "[", "{", ";", ","}

// Normalize reduces a raw dependency token to a bare package name.
// Version constraints ("gcc>=13.2"), parenthesised qualifiers
// ("libfoo (>= 1.2)") and bracketed annotations are stripped, and of
// alternative lists ("awk | mawk") only the first entry is kept.
//
// Normalize is total: it never fails, bare names pass through unchanged,
// and the result is already normalized (applying it twice is a no-op).
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	for _, sep := range separators {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeAll maps Normalize over a token list, dropping entries that
// normalize to the empty string and deduplicating while preserving the
// first-seen order.
func NormalizeAll(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		n := Normalize(r)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
