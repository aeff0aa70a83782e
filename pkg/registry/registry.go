// Package registry persists the installed-package database.
//
// The database is a single JSON file, <db_dir>/installed.json, mapping
// an installed-package key (commonly "name-version") to its record. A
// missing or unreadable file behaves as an empty registry, so planning
// on a fresh system needs no setup. Writes go through a temp file and
// rename so a crashed run never leaves a half-written database.
package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/porg-project/porg-deps/pkg/errors"
)

// FileName is the database file name inside the db directory.
const FileName = "installed.json"

// Entry is one installed-package record.
type Entry struct {
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	InstalledAt time.Time `json:"installed_at"`
}

// Registry is the installed-package database. Reads serve from an
// in-memory snapshot taken when the Registry is created; mutations
// update the snapshot and persist it immediately.
type Registry struct {
	mu      sync.RWMutex
	path    string
	entries map[string]Entry
}

// New opens the registry stored under dbDir. A missing, unreadable or
// malformed database file yields an empty registry.
func New(dbDir string) *Registry {
	r := &Registry{
		path:    filepath.Join(dbDir, FileName),
		entries: make(map[string]Entry),
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return r
	}
	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return r
	}
	if entries != nil {
		r.entries = entries
	}
	return r
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// Register records key as installed, deriving name and version from the
// key. Re-registering an existing key refreshes its timestamp.
func (r *Registry) Register(key string) error {
	key = strings.TrimSpace(key)
	if err := errors.ValidatePackageName(key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name, version := SplitKey(key)
	r.entries[key] = Entry{
		Name:        name,
		Version:     version,
		InstalledAt: time.Now().UTC().Truncate(time.Second),
	}
	return r.persist()
}

// Unregister removes key from the registry. It reports whether the key
// was present.
func (r *Registry) Unregister(key string) (bool, error) {
	key = strings.TrimSpace(key)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[key]; !ok {
		return false, nil
	}
	delete(r.entries, key)
	if err := r.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// List returns all installed keys, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Installed looks up a bare package name against the registry's key
// conventions: an exact key, a "name-<version>" key, a "name/<...>"
// key, or a record whose name field equals the query. The first match
// in sorted key order wins.
func (r *Registry) Installed(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		entry := r.entries[k]
		switch {
		case k == name:
			return entryVersion(k, entry), true
		case strings.HasPrefix(k, name+"-"), strings.HasPrefix(k, name+"/"):
			if entry.Version != "" {
				return entry.Version, true
			}
			return k[len(name)+1:], true
		case entry.Name == name:
			return entry.Version, true
		}
	}
	return "", false
}

func entryVersion(key string, entry Entry) string {
	if entry.Version != "" {
		return entry.Version
	}
	_, version := SplitKey(key)
	return version
}

// persist writes the database atomically. Callers hold the write lock.
func (r *Registry) persist() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "create registry dir")
	}

	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "encode registry")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".installed-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "write registry")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "write registry")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "write registry")
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeRegistryUnreadable, err, "write registry")
	}
	return nil
}

// SplitKey splits an installed-package key into name and version. The
// version starts at the first dash followed by a digit, or after a "/"
// separator; keys without either are all name.
func SplitKey(key string) (name, version string) {
	if i := strings.IndexByte(key, '/'); i >= 0 {
		return key[:i], key[i+1:]
	}
	for i := 1; i < len(key)-1; i++ {
		if key[i] == '-' && key[i+1] >= '0' && key[i+1] <= '9' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}
