package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/porg-project/porg-deps/pkg/errors"
	"github.com/porg-project/porg-deps/pkg/registry"
)

// captureStdout runs fn with os.Stdout redirected into a pipe and
// returns what was written. Command results go to stdout, so command
// tests need this.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return string(out), fnErr
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	return captureStdout(t, func() error {
		return root.ExecuteContext(context.Background())
	})
}

func TestRegisterInstalledFlow(t *testing.T) {
	cfgPath := testConfig(t)
	c := testCLI()

	out, err := runCommand(t, c, "--config", cfgPath, "register-installed", "gcc-13.2.0")
	if err != nil {
		t.Fatalf("register-installed error: %v", err)
	}
	if strings.TrimSpace(out) != "OK" {
		t.Errorf("register-installed output = %q, want OK", out)
	}

	// The entry must be visible through a fresh registry handle.
	cfg := loadTestConfig(t, cfgPath)
	reg := registry.New(cfg.DBDir)
	if version, ok := reg.Installed("gcc"); !ok || version != "13.2.0" {
		t.Errorf("Installed(gcc) = (%q, %v), want (13.2.0, true)", version, ok)
	}
}

func TestListInstalled(t *testing.T) {
	cfgPath := testConfig(t)
	c := testCLI()

	for _, pkgid := range []string{"glibc-2.39", "binutils-2.41"} {
		if _, err := runCommand(t, c, "--config", cfgPath, "register-installed", pkgid); err != nil {
			t.Fatalf("register-installed %s error: %v", pkgid, err)
		}
	}

	out, err := runCommand(t, c, "--config", cfgPath, "list-installed")
	if err != nil {
		t.Fatalf("list-installed error: %v", err)
	}

	var got listOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("list-installed output is not JSON: %v\n%s", err, out)
	}

	want := []string{"binutils-2.41", "glibc-2.39"}
	if len(got.Installed) != len(want) {
		t.Fatalf("installed = %v, want %v", got.Installed, want)
	}
	for i := range want {
		if got.Installed[i] != want[i] {
			t.Errorf("installed[%d] = %q, want %q", i, got.Installed[i], want[i])
		}
	}
}

func TestUnregisterInstalled(t *testing.T) {
	cfgPath := testConfig(t)
	c := testCLI()

	if _, err := runCommand(t, c, "--config", cfgPath, "register-installed", "vim/9.0"); err != nil {
		t.Fatalf("register-installed error: %v", err)
	}

	out, err := runCommand(t, c, "--config", cfgPath, "unregister-installed", "vim/9.0")
	if err != nil {
		t.Fatalf("unregister-installed error: %v", err)
	}
	if strings.TrimSpace(out) != "OK" {
		t.Errorf("first unregister output = %q, want OK", out)
	}

	out, err = runCommand(t, c, "--config", cfgPath, "unregister-installed", "vim/9.0")
	if err != nil {
		t.Fatalf("second unregister-installed error: %v", err)
	}
	if strings.TrimSpace(out) != "NOTFOUND" {
		t.Errorf("second unregister output = %q, want NOTFOUND", out)
	}
}

func TestRegisterInstalledInvalidID(t *testing.T) {
	cfgPath := testConfig(t)

	_, err := runCommand(t, testCLI(), "--config", cfgPath, "register-installed", "../escape")
	if err == nil {
		t.Fatal("register-installed accepted a path-traversal pkgid")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidPackage {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeInvalidPackage)
	}
}
