package meta

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadMetafile reads and canonicalizes one metafile. A file the YAML
// decoder rejects is retried with a line-oriented fallback parser, so a
// single malformed entry degrades to a partial record instead of failing
// the whole resolution. The degraded flag tells the caller to warn.
func loadMetafile(path, name string) (rec *Record, degraded bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fromRaw(name, nil, path), true
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err == nil && raw != nil {
		return fromRaw(name, raw, path), false
	}
	return fromRaw(name, parseFallback(data), path), true
}

// parseFallback is a minimal scanner for the metafile subset: top-level
// "key: scalar" lines and "key:" followed by "- item" block sequences.
// It never fails; unparseable lines are skipped.
func parseFallback(data []byte) map[string]any {
	raw := make(map[string]any)
	curKey := ""
	var list []any

	flush := func() {
		if curKey != "" {
			raw[curKey] = list
		}
		curKey = ""
		list = nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		if item, ok := strings.CutPrefix(stripped, "-"); ok {
			if curKey != "" {
				if v := unquote(strings.TrimSpace(item)); v != "" {
					list = append(list, v)
				}
			}
			continue
		}

		key, value, ok := strings.Cut(stripped, ":")
		if !ok {
			continue
		}
		flush()

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch value {
		case "", "|", ">":
			curKey = key
		default:
			raw[key] = unquote(value)
		}
	}
	flush()
	return raw
}

func unquote(s string) string {
	s = strings.Trim(s, `"`)
	return strings.Trim(s, `'`)
}
