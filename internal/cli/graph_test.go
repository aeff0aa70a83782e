package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/porg-project/porg-deps/pkg/errors"
)

func TestOpenOutputStdout(t *testing.T) {
	out, err := openOutput("")
	if err != nil {
		t.Fatalf("openOutput(\"\") error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close() on stdout wrapper error: %v", err)
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	out, err := openOutput(path)
	if err != nil {
		t.Fatalf("openOutput(%q) error: %v", path, err)
	}
	if _, err := out.Write([]byte("hello")); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q, want %q", data, "hello")
	}
}

func TestGraphUnknownFormat(t *testing.T) {
	cfgPath := testConfig(t)

	_, err := runCommand(t, testCLI(), "--config", cfgPath, "graph", "gcc", "--format", "bogus")
	if err == nil {
		t.Fatal("graph accepted an unknown format")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeInvalidFormat)
	}
}

func TestGraphRenderRequiresOutput(t *testing.T) {
	cfgPath := testConfig(t)

	_, err := runCommand(t, testCLI(), "--config", cfgPath, "graph", "gcc", "--format", "svg")
	if err == nil {
		t.Fatal("graph svg without --output should fail")
	}
	if code := errors.GetCode(err); code != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeInvalidFormat)
	}
}

func TestGraphJSONOutput(t *testing.T) {
	cfgPath := testConfig(t)

	// No metafile exists, so gcc resolves to a single synthetic node.
	out, err := runCommand(t, testCLI(), "--config", cfgPath, "graph", "gcc", "--format", "json")
	if err != nil {
		t.Fatalf("graph error: %v", err)
	}

	var got struct {
		Nodes []struct {
			Name    string `json:"name"`
			Missing bool   `json:"missing"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("graph output is not JSON: %v\n%s", err, out)
	}

	if len(got.Nodes) != 1 || got.Nodes[0].Name != "gcc" {
		t.Fatalf("nodes = %+v, want single gcc node", got.Nodes)
	}
	if !got.Nodes[0].Missing {
		t.Error("synthetic node should be marked missing")
	}
	if len(got.Edges) != 0 {
		t.Errorf("edges = %+v, want none", got.Edges)
	}
}
