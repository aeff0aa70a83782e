package meta

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare name", "gcc", "gcc"},
		{"version ge", "gcc>=13.2", "gcc"},
		{"version le", "glibc<=2.39", "glibc"},
		{"version eq", "zlib==1.3", "zlib"},
		{"single equals", "ncurses=6.4", "ncurses"},
		{"space then constraint", "libfoo (>= 1.2)", "libfoo"},
		{"paren no space", "libbar(>=2)", "libbar"},
		{"bracket qualifier", "openssl[tls]", "openssl"},
		{"brace qualifier", "perl{core}", "perl"},
		{"semicolon", "python;extra", "python"},
		{"comma list", "glibc,binutils", "glibc"},
		{"alternatives", "awk | mawk", "awk"},
		{"alternatives no space", "awk|mawk", "awk"},
		{"surrounding space", "  tar  ", "tar"},
		{"empty", "", ""},
		{"only spaces", "   ", ""},
		{"plus in name", "gtk+", "gtk+"},
		{"dash version kept", "util-linux", "util-linux"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"gcc>=13.2",
		"libfoo (>= 1.2)",
		"awk | mawk",
		"plain",
		"",
		"a,b;c",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizeAll(t *testing.T) {
	in := []string{"gcc>=13", "glibc", "gcc (>= 13)", "", "   ", "awk | mawk", "glibc"}
	want := []string{"gcc", "glibc", "awk"}

	got := NormalizeAll(in)
	if len(got) != len(want) {
		t.Fatalf("NormalizeAll(%v) = %v, want %v", in, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
