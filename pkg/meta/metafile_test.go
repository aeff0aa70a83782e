package meta

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMetafileYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "gcc-13.2.0.yaml", `
name: gcc
version: 13.2.0
tier: core
build_depends:
  - binutils
  - mpfr>=4.2
depends: [glibc, zlib]
`)

	rec, degraded := loadMetafile(path, "gcc")
	if degraded {
		t.Error("degraded = true for well-formed YAML")
	}
	if rec.Name != "gcc" || rec.Version != "13.2.0" || rec.Tier != TierCore {
		t.Errorf("record = %+v", rec)
	}
	want := []string{"binutils", "mpfr", "glibc", "zlib"}
	if !slices.Equal(rec.Depends, want) {
		t.Errorf("Depends = %v, want %v", rec.Depends, want)
	}
	if rec.Path != path {
		t.Errorf("Path = %q, want %q", rec.Path, path)
	}
}

func TestLoadMetafileFallback(t *testing.T) {
	// The stray flow mapping makes the YAML decoder fail; the fallback
	// scanner still extracts the usable lines.
	path := writeFile(t, t.TempDir(), "foo.yml", `
name: foo
version: "1.0"
depends:
  - glibc
  - zlib
{{{ broken yaml
`)

	rec, degraded := loadMetafile(path, "foo")
	if !degraded {
		t.Error("degraded = false for malformed YAML")
	}
	if rec.Name != "foo" || rec.Version != "1.0" {
		t.Errorf("record = %+v", rec)
	}
	want := []string{"glibc", "zlib"}
	if !slices.Equal(rec.Depends, want) {
		t.Errorf("Depends = %v, want %v", rec.Depends, want)
	}
}

func TestLoadMetafileUnreadable(t *testing.T) {
	rec, degraded := loadMetafile(filepath.Join(t.TempDir(), "absent.yaml"), "ghost")
	if !degraded {
		t.Error("degraded = false for unreadable file")
	}
	if rec.Name != "ghost" || len(rec.Depends) != 0 {
		t.Errorf("record = %+v, want bare leaf", rec)
	}
}

func TestParseFallback(t *testing.T) {
	raw := parseFallback([]byte(`
# comment
name: demo
tier: 'libs'
build_depends:
  - cmake
  - ninja
depends:
  - openssl
empty_list:
scalar: "quoted value"
`))

	if got := raw["name"]; got != "demo" {
		t.Errorf("name = %v, want demo", got)
	}
	if got := raw["tier"]; got != "libs" {
		t.Errorf("tier = %v, want libs (quotes stripped)", got)
	}
	if got := raw["scalar"]; got != "quoted value" {
		t.Errorf("scalar = %v", got)
	}
	build, _ := raw["build_depends"].([]any)
	if len(build) != 2 || build[0] != "cmake" || build[1] != "ninja" {
		t.Errorf("build_depends = %v", raw["build_depends"])
	}
	run, _ := raw["depends"].([]any)
	if len(run) != 1 || run[0] != "openssl" {
		t.Errorf("depends = %v", raw["depends"])
	}
	if _, ok := raw["empty_list"]; !ok {
		t.Error("empty_list key missing")
	}
}
