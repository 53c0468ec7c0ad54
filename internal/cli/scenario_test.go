package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovekit/grove/pkg/forest"
	"github.com/grovekit/grove/pkg/tree"
)

// writeScenario drops TOML content into a temp file and returns its path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}
	return path
}

const basicScenario = `
dialect = "raw"

[[tree]]
id = "production"

  [[tree.node]]
  value = "app"

  [[tree.node]]
  value = "api"

  [[tree.node]]
  value = "web"

  [[tree.node]]
  value = "store"
  parent = "api"

  [[tree.node]]
  value = "cache"
  parent = "api/store"

[[tree]]
id = "staging"

  [[tree.node]]
  value = "app"
`

func TestReadScenario(t *testing.T) {
	sc, err := readScenario(writeScenario(t, basicScenario))
	if err != nil {
		t.Fatalf("readScenario error: %v", err)
	}

	if sc.Dialect != dialectRaw {
		t.Errorf("Dialect = %q, want raw", sc.Dialect)
	}
	if len(sc.Trees) != 2 {
		t.Fatalf("Trees = %d, want 2", len(sc.Trees))
	}
	if sc.Trees[0].ID != "production" || len(sc.Trees[0].Nodes) != 5 {
		t.Errorf("first tree = %q with %d nodes, want production with 5", sc.Trees[0].ID, len(sc.Trees[0].Nodes))
	}
}

func TestReadScenarioRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{"unknown dialect", "dialect = \"json\"\n[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\n", "unknown dialect"},
		{"no trees", "dialect = \"raw\"\n", "no trees"},
		{"malformed toml", "dialect = [not toml", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readScenario(writeScenario(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q should contain %q", err, tt.wantIn)
			}
		})
	}
}

func TestReadScenarioMissingFile(t *testing.T) {
	if _, err := readScenario(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestBuildForest(t *testing.T) {
	sc, err := readScenario(writeScenario(t, basicScenario))
	if err != nil {
		t.Fatalf("readScenario error: %v", err)
	}
	loaded, err := buildForest(sc, tree.ParseRaw)
	if err != nil {
		t.Fatalf("buildForest error: %v", err)
	}

	if got := loaded.forest.Len(); got != 2 {
		t.Fatalf("forest holds %d trees, want 2", got)
	}
	if len(loaded.ids) != 2 || loaded.ids[0] != "production" || loaded.ids[1] != "staging" {
		t.Errorf("ids = %v, want file order [production staging]", loaded.ids)
	}

	prod, err := loaded.forest.Get("production")
	if err != nil {
		t.Fatalf("Get(production): %v", err)
	}
	if prod.NodeCount() != 5 {
		t.Errorf("production nodes = %d, want 5", prod.NodeCount())
	}

	// Deep parent path attached cache under api/store
	root, _ := prod.Root()
	h, ok := prod.FindPath(root, "api", "store", "cache")
	if !ok {
		t.Fatal("api/store/cache should resolve")
	}
	n, _ := prod.Node(h)
	if n.Level() != 4 {
		t.Errorf("cache level = %d, want 4", n.Level())
	}

	if treeDepth(prod) != 4 {
		t.Errorf("depth = %d, want 4", treeDepth(prod))
	}
}

func TestBuildForestWeighted(t *testing.T) {
	content := `
dialect = "weighted"

[[tree]]
id = "ranked"

  [[tree.node]]
  value = "10:root"

  [[tree.node]]
  value = "3:left"

  [[tree.node]]
  value = "7:right"
`
	sc, err := readScenario(writeScenario(t, content))
	if err != nil {
		t.Fatalf("readScenario error: %v", err)
	}
	loaded, err := buildForest(sc, tree.ParseWeighted)
	if err != nil {
		t.Fatalf("buildForest error: %v", err)
	}

	rt, _ := loaded.forest.Get("ranked")
	root, _ := rt.Root()
	n, _ := rt.Node(root)
	if n.Content().Value() != "root" {
		t.Errorf("root value = %q, want root (weight stripped)", n.Content().Value())
	}
	if n.Content().Weight() != 10 {
		t.Errorf("root weight = %d, want 10", n.Content().Weight())
	}

	// Parent paths use the text part, not the serialized form
	if _, ok := rt.FindPath(root, "left"); !ok {
		t.Error("left should resolve by its text value")
	}
}

func TestBuildForestWeightedRejectsBadContent(t *testing.T) {
	content := `
dialect = "weighted"

[[tree]]
id = "ranked"

  [[tree.node]]
  value = "heavy:stone"
`
	sc, err := readScenario(writeScenario(t, content))
	if err != nil {
		t.Fatalf("readScenario error: %v", err)
	}
	_, err = buildForest(sc, tree.ParseWeighted)
	if err == nil {
		t.Fatal("bad weight should fail the build")
	}
	if !errors.Is(err, tree.ErrContentParse) {
		t.Errorf("error should wrap ErrContentParse: %v", err)
	}
	if !strings.Contains(err.Error(), "ranked") {
		t.Errorf("error should name the tree: %v", err)
	}
}

func TestBuildForestRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
		wantErr error
	}{
		{
			name:    "first node with parent",
			content: "[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\nparent = \"b\"\n",
			wantIn:  "must be the root",
		},
		{
			name:    "unknown parent path",
			content: "[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\n[[tree.node]]\nvalue = \"b\"\nparent = \"ghost\"\n",
			wantIn:  `parent path "ghost" not found`,
		},
		{
			name:    "tree without nodes",
			content: "[[tree]]\nid = \"x\"\n",
			wantIn:  "no nodes",
		},
		{
			name:    "duplicate tree id",
			content: "[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\n[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\n",
			wantErr: forest.ErrTreeExists,
		},
		{
			name:    "duplicate sibling value",
			content: "[[tree]]\nid = \"x\"\n[[tree.node]]\nvalue = \"a\"\n[[tree.node]]\nvalue = \"b\"\n[[tree.node]]\nvalue = \"b\"\n",
			wantErr: tree.ErrDuplicateChild,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := readScenario(writeScenario(t, tt.content))
			if err != nil {
				t.Fatalf("readScenario error: %v", err)
			}
			_, err = buildForest(sc, tree.ParseRaw)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantIn != "" && !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("error %q should contain %q", err, tt.wantIn)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error should wrap %v: %v", tt.wantErr, err)
			}
		})
	}
}

func TestPickTree(t *testing.T) {
	sc, _ := readScenario(writeScenario(t, basicScenario))
	loaded, err := buildForest(sc, tree.ParseRaw)
	if err != nil {
		t.Fatalf("buildForest error: %v", err)
	}

	id, tr, err := pickTree(loaded, "staging")
	if err != nil {
		t.Fatalf("pickTree(staging): %v", err)
	}
	if id != "staging" || tr.NodeCount() != 1 {
		t.Errorf("picked %q with %d nodes, want staging with 1", id, tr.NodeCount())
	}

	// No id falls back to the first tree in file order
	id, tr, err = pickTree(loaded, "")
	if err != nil {
		t.Fatalf("pickTree(): %v", err)
	}
	if id != "production" || tr.NodeCount() != 5 {
		t.Errorf("picked %q with %d nodes, want production with 5", id, tr.NodeCount())
	}

	if _, _, err := pickTree(loaded, "ghost"); !errors.Is(err, forest.ErrTreeNotFound) {
		t.Errorf("unknown id should return ErrTreeNotFound, got %v", err)
	}
}

func TestSplitPath(t *testing.T) {
	if got := splitPath(""); got != nil {
		t.Errorf("splitPath(\"\") = %v, want nil", got)
	}
	if got := splitPath("a"); len(got) != 1 || got[0] != "a" {
		t.Errorf("splitPath(a) = %v", got)
	}
	if got := splitPath("a/b/c"); len(got) != 3 || got[2] != "c" {
		t.Errorf("splitPath(a/b/c) = %v", got)
	}
}
