package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gandergraph/gander/pkg/graph"
)

func TestParseOptionPairs(t *testing.T) {
	opts, err := parseOptionPairs([]string{"iterations=200", "tolerance=0.5", "root=hub", "normalized=true"})
	if err != nil {
		t.Fatalf("parseOptionPairs() error: %v", err)
	}

	if got := opts["iterations"]; got != float64(200) {
		t.Errorf("iterations = %v (%T), want 200 as a number", got, got)
	}
	if got := opts["tolerance"]; got != 0.5 {
		t.Errorf("tolerance = %v, want 0.5", got)
	}
	if got := opts["root"]; got != "hub" {
		t.Errorf("root = %v, want the plain string hub", got)
	}
	if got := opts["normalized"]; got != true {
		t.Errorf("normalized = %v, want true", got)
	}
}

func TestParseOptionPairsEmpty(t *testing.T) {
	opts, err := parseOptionPairs(nil)
	if err != nil {
		t.Fatalf("parseOptionPairs(nil) error: %v", err)
	}
	if opts != nil {
		t.Errorf("no pairs should produce no options, got %v", opts)
	}
}

func TestParseOptionPairsRejectsBadPair(t *testing.T) {
	for _, bad := range []string{"noequals", "=value"} {
		if _, err := parseOptionPairs([]string{bad}); err == nil {
			t.Errorf("pair %q should be rejected", bad)
		}
	}
}

func TestParseNodeList(t *testing.T) {
	got := parseNodeList("a, b ,c,")
	want := []graph.ID{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseNodeList() = %v, want %v", got, want)
	}

	if parseNodeList("") != nil {
		t.Error("empty input should mean every node (nil)")
	}
}

func TestLoadGraphFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	content := `{"nodes": ["a", "b"], "edges": [{"source": "a", "target": "b"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := loadGraph(path)
	if err != nil {
		t.Fatalf("loadGraph() error: %v", err)
	}
	if len(data.Nodes) != 2 || len(data.Edges) != 1 {
		t.Errorf("loadGraph() = %d nodes, %d edges, want 2 and 1", len(data.Nodes), len(data.Edges))
	}
}

func TestLoadGraphMissingFile(t *testing.T) {
	if _, err := loadGraph(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("missing graph file should be an error")
	}
}

func TestWriteJSONOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := writeJSONOutput(map[string]int{"x": 1}, path); err != nil {
		t.Fatalf("writeJSONOutput() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"x": 1`) {
		t.Errorf("output file should hold the indented document, got %q", data)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("output should end with a newline")
	}
}

func TestNewCacheBackends(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx := context.Background()

	c.Config.Cache.Backend = "none"
	store, err := c.newCache(ctx)
	if err != nil {
		t.Fatalf("none backend error: %v", err)
	}
	store.Close()

	c.Config.Cache.Backend = "memory"
	c.Config.Cache.Size = 16
	store, err = c.newCache(ctx)
	if err != nil {
		t.Fatalf("memory backend error: %v", err)
	}
	store.Close()

	c.Config.Cache.Backend = "file"
	c.Config.Cache.Dir = t.TempDir()
	store, err = c.newCache(ctx)
	if err != nil {
		t.Fatalf("file backend error: %v", err)
	}
	store.Close()

	c.Config.Cache.Backend = "bogus"
	if _, err := c.newCache(ctx); err == nil {
		t.Error("unknown backend should be an error")
	}
}

func TestCacheDirHonorsXDG(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "xdg-cache")
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{"stats", "layout", "communities", "graph", "algorithms", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command should register %q", name)
		}
	}
}
