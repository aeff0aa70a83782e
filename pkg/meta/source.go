package meta

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Lookup resolves a normalized package name to its canonical Record.
// The returned record is never nil; found is false when it was
// synthesized because no metafile exists.
type Lookup interface {
	Lookup(name string) (rec *Record, found bool)
}

// Source reads metadata from a ports tree laid out as
// <root>/<category>/<pkg>/<pkg>*.yml (or .yaml). Parsed records are
// cached for the lifetime of the Source, keyed by resolved metafile
// path, so one planning run re-reads nothing. Create a fresh Source per
// run to observe metadata edits.
//
// Source is safe for concurrent use; the graph builder's prefetch
// workers share one.
type Source struct {
	root string
	warn func(format string, args ...any)

	mu      sync.Mutex
	byName  map[string]*Record
	byPath  map[string]*Record
	dirList []string // category dirs, scanned once
}

// NewSource creates a Source over the ports tree at root. warn receives
// human-readable diagnostics (missing metafiles, degraded parses); nil
// disables them.
func NewSource(root string, warn func(format string, args ...any)) *Source {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Source{
		root:   root,
		warn:   warn,
		byName: make(map[string]*Record),
		byPath: make(map[string]*Record),
	}
}

// Lookup implements the Lookup interface. Unknown packages yield a
// synthetic dependency-free record and a warning; resolution proceeds
// treating them as leaves.
func (s *Source) Lookup(name string) (*Record, bool) {
	s.mu.Lock()
	if rec, ok := s.byName[name]; ok {
		s.mu.Unlock()
		return rec, !rec.Synthetic()
	}
	s.mu.Unlock()

	mf := s.findMetafile(name)
	if mf == "" {
		s.warn("metafile not found for package %q (searched in %s)", name, s.root)
		rec := &Record{Name: name, Tier: TierUnknown}
		s.store(name, rec)
		return rec, false
	}

	s.mu.Lock()
	if rec, ok := s.byPath[mf]; ok {
		// Another name resolved to the same file (declared-name alias).
		s.byName[name] = rec
		s.mu.Unlock()
		return rec, true
	}
	s.mu.Unlock()

	rec, degraded := loadMetafile(mf, name)
	if degraded {
		s.warn("metafile %s is malformed; using partial parse", mf)
	}
	s.store(name, rec)
	return rec, true
}

func (s *Source) store(name string, rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byName[name] = rec
	if rec.Path != "" {
		s.byPath[rec.Path] = rec
	}
}

// findMetafile locates the metafile for name. Fast path: a package
// directory named exactly after it inside any category. Fallback: a
// full tree walk matching the <name>*.y*ml filename pattern. Candidates
// are taken in sorted order so discovery is deterministic.
func (s *Source) findMetafile(name string) string {
	if name == "" {
		return ""
	}
	pattern := strings.ToLower(name) + "*.y*ml"

	for _, cat := range s.categories() {
		pkgDir := filepath.Join(s.root, cat, name)
		entries, err := os.ReadDir(pkgDir)
		if err != nil {
			continue
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ok, _ := path.Match(pattern, strings.ToLower(e.Name())); ok {
				names = append(names, e.Name())
			}
		}
		if len(names) > 0 {
			sort.Strings(names)
			return filepath.Join(pkgDir, names[0])
		}
	}

	// Slow path: some trees keep metafiles outside the canonical layout.
	var match string
	_ = filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if ok, _ := path.Match(pattern, strings.ToLower(d.Name())); ok {
			match = p
			return fs.SkipAll
		}
		return nil
	})
	return match
}

func (s *Source) categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirList != nil {
		return s.dirList
	}
	entries, err := os.ReadDir(s.root)
	if err != nil {
		s.dirList = []string{}
		return s.dirList
	}
	cats := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			cats = append(cats, e.Name())
		}
	}
	sort.Strings(cats)
	s.dirList = cats
	return s.dirList
}

// All enumerates every package name in the tree: the name of each
// package directory that contains at least one metafile. Sorted.
func (s *Source) All() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, cat := range s.categories() {
		catDir := filepath.Join(s.root, cat)
		pkgs, err := os.ReadDir(catDir)
		if err != nil {
			continue
		}
		for _, p := range pkgs {
			if !p.IsDir() {
				continue
			}
			if _, dup := seen[p.Name()]; dup {
				continue
			}
			if hasMetafile(filepath.Join(catDir, p.Name()), p.Name()) {
				seen[p.Name()] = struct{}{}
				names = append(names, p.Name())
			}
		}
	}
	sort.Strings(names)
	return names
}

func hasMetafile(dir, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	pattern := strings.ToLower(name) + "*.y*ml"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := path.Match(pattern, strings.ToLower(e.Name())); ok {
			return true
		}
	}
	return false
}
