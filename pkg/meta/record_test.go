package meta

import (
	"slices"
	"testing"
)

func TestFromRawKeySpellings(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{
			name: "canonical keys",
			raw: map[string]any{
				"build_depends": []any{"binutils"},
				"depends":       []any{"glibc"},
			},
			want: []string{"binutils", "glibc"},
		},
		{
			name: "dashed build key",
			raw: map[string]any{
				"build-depends": []any{"cmake"},
			},
			want: []string{"cmake"},
		},
		{
			name: "requires spellings",
			raw: map[string]any{
				"build_requires":   []any{"meson"},
				"runtime_requires": []any{"libffi"},
			},
			want: []string{"meson", "libffi"},
		},
		{
			name: "run_depends and run-depends",
			raw: map[string]any{
				"run-depends": []any{"zlib"},
			},
			want: []string{"zlib"},
		},
		{
			name: "scalar values",
			raw: map[string]any{
				"build_depends": "binutils",
				"depends":       "glibc",
			},
			want: []string{"binutils", "glibc"},
		},
		{
			name: "build before run with dedup",
			raw: map[string]any{
				"build_depends": []any{"zlib", "binutils"},
				"depends":       []any{"glibc", "zlib"},
			},
			want: []string{"zlib", "binutils", "glibc"},
		},
		{
			name: "constraints normalized",
			raw: map[string]any{
				"depends": []any{"gcc>=13.2", "awk | mawk"},
			},
			want: []string{"gcc", "awk"},
		},
		{
			name: "priority spelling wins",
			raw: map[string]any{
				"depends":     []any{"first"},
				"run_depends": []any{"second"},
			},
			want: []string{"first"},
		},
		{
			name: "no dep keys",
			raw:  map[string]any{"version": "1.0"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fromRaw("pkg", tt.raw, "pkg.yaml")
			if !slices.Equal(rec.Depends, tt.want) {
				t.Errorf("Depends = %v, want %v", rec.Depends, tt.want)
			}
		})
	}
}

func TestFromRawScalars(t *testing.T) {
	raw := map[string]any{
		"name":    "GCC>=0", // declared names are normalized too
		"version": 13.2,
		"tier":    "Core",
	}
	rec := fromRaw("gcc", raw, "gcc.yaml")

	if rec.Name != "GCC" {
		t.Errorf("Name = %q, want %q", rec.Name, "GCC")
	}
	if rec.Version != "13.2" {
		t.Errorf("Version = %q, want %q", rec.Version, "13.2")
	}
	if rec.Tier != TierCore {
		t.Errorf("Tier = %v, want %v", rec.Tier, TierCore)
	}
	if rec.Synthetic() {
		t.Error("Synthetic() = true for parsed record")
	}
}

func TestFromRawGroup(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		want     []string
		wantDeps []string
	}{
		{
			name: "group with packages",
			raw: map[string]any{
				"group":    true,
				"packages": []any{"glibc", "binutils", "gcc"},
			},
			want: []string{"glibc", "binutils", "gcc"},
		},
		{
			name: "is_group with components",
			raw: map[string]any{
				"is_group":   "yes",
				"components": []any{"xorg-server", "xterm"},
			},
			want: []string{"xorg-server", "xterm"},
		},
		{
			name: "members normalized and deduped",
			raw: map[string]any{
				"group":    true,
				"packages": []any{"gcc>=13", "gcc", "glibc"},
			},
			want: []string{"gcc", "glibc"},
		},
		{
			// Stray dependency keys survive canonicalization; deciding
			// that they have no effect is the planner's job.
			name: "group keeps stray depends",
			raw: map[string]any{
				"group":    true,
				"packages": []any{"glibc"},
				"depends":  []any{"zlib"},
			},
			want:     []string{"glibc"},
			wantDeps: []string{"zlib"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fromRaw("base", tt.raw, "base.yaml")
			if !rec.IsGroup {
				t.Fatal("IsGroup = false, want true")
			}
			if !slices.Equal(rec.Members, tt.want) {
				t.Errorf("Members = %v, want %v", rec.Members, tt.want)
			}
			if !slices.Equal(rec.Depends, tt.wantDeps) {
				t.Errorf("Depends = %v, want %v", rec.Depends, tt.wantDeps)
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in   string
		want Tier
	}{
		{"core", TierCore},
		{"System", TierSystem},
		{"LIBS", TierLibs},
		{"gui", TierGUI},
		{"desktop", TierDesktop},
		{"optional", TierOptional},
		{"", TierUnknown},
		{"bogus", TierUnknown},
		{"  core  ", TierCore},
	}
	for _, tt := range tests {
		if got := ParseTier(tt.in); got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTierRank(t *testing.T) {
	order := []Tier{TierCore, TierSystem, TierLibs, TierGUI, TierDesktop, TierOptional, TierUnknown}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("Rank(%v) = %d not below Rank(%v) = %d",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
	if Tier("weird").Rank() != TierUnknown.Rank() {
		t.Errorf("unknown tier rank = %d, want %d", Tier("weird").Rank(), TierUnknown.Rank())
	}
}
