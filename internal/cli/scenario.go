package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/grovekit/grove/pkg/forest"
	"github.com/grovekit/grove/pkg/tree"
)

// Content dialects a scenario file can declare. An empty dialect means raw.
const (
	dialectRaw      = "raw"
	dialectWeighted = "weighted"
)

// scenarioFile is the decoded form of a TOML scenario:
//
//	dialect = "raw"
//
//	[[tree]]
//	id = "production"
//
//	[[tree.node]]
//	value = "app"
//
//	[[tree.node]]
//	value = "api"
//	parent = "app"
//
// The first node of each tree is the root and must carry no parent. Every
// other node names its parent as a slash-separated value path from the root
// (the root's own value is not part of the path); an empty parent attaches
// the node directly to the root.
type scenarioFile struct {
	Dialect string         `toml:"dialect"`
	Trees   []scenarioTree `toml:"tree"`
}

type scenarioTree struct {
	ID    string         `toml:"id"`
	Nodes []scenarioNode `toml:"node"`
}

type scenarioNode struct {
	Value  string `toml:"value"`
	Parent string `toml:"parent"`
}

// readScenario loads and validates the scenario file at path. Tree contents
// are not parsed yet; that happens against a concrete dialect in
// buildForest.
func readScenario(path string) (*scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var sc scenarioFile
	if err := toml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	switch sc.Dialect {
	case "", dialectRaw, dialectWeighted:
	default:
		return nil, fmt.Errorf("unknown dialect: %s (must be %q or %q)", sc.Dialect, dialectRaw, dialectWeighted)
	}
	if len(sc.Trees) == 0 {
		return nil, fmt.Errorf("%s: scenario has no trees", path)
	}
	return &sc, nil
}

// scenario is a loaded scenario: the forest plus the tree ids in file order,
// since forests iterate their trees in no particular order.
type scenario[C tree.Content] struct {
	forest *forest.Forest[forest.Name, C]
	ids    []forest.Name
}

// buildForest materializes the scenario's trees under the given content
// dialect. Node and tree errors are wrapped with the offending id and value
// so a broken fixture points at itself.
func buildForest[C tree.Content](sc *scenarioFile, parse tree.ParseFunc[C]) (*scenario[C], error) {
	f := forest.New(forest.ParseName, parse)
	ids := make([]forest.Name, 0, len(sc.Trees))

	for _, st := range sc.Trees {
		id, err := f.Create(st.ID)
		if err != nil {
			return nil, fmt.Errorf("tree %q: %w", st.ID, err)
		}
		ids = append(ids, id)

		t, _ := f.GetByKey(id)
		if len(st.Nodes) == 0 {
			return nil, fmt.Errorf("tree %q: no nodes", st.ID)
		}

		for i, n := range st.Nodes {
			if i == 0 {
				if n.Parent != "" {
					return nil, fmt.Errorf("tree %q: first node %q must be the root (no parent)", st.ID, n.Value)
				}
				if _, err := t.SetRoot(n.Value); err != nil {
					return nil, fmt.Errorf("tree %q: root %q: %w", st.ID, n.Value, err)
				}
				continue
			}

			root, _ := t.Root()
			parent, ok := t.FindPath(root, splitPath(n.Parent)...)
			if !ok {
				return nil, fmt.Errorf("tree %q: node %q: parent path %q not found", st.ID, n.Value, n.Parent)
			}
			if _, err := t.Link(n.Value, parent); err != nil {
				return nil, fmt.Errorf("tree %q: node %q: %w", st.ID, n.Value, err)
			}
		}
	}

	return &scenario[C]{forest: f, ids: ids}, nil
}

// splitPath turns a slash path into FindPath hops. Empty means no hops,
// which FindPath resolves to the start node itself.
func splitPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// pickTree selects the tree a command operates on. An explicit id wins;
// otherwise the scenario's first tree is used, with a warning when the file
// holds more than one.
func pickTree[C tree.Content](sc *scenario[C], id string) (forest.Name, *tree.Tree[C], error) {
	if id != "" {
		t, err := sc.forest.Get(id)
		if err != nil {
			return "", nil, err
		}
		return forest.Name(id), t, nil
	}

	first := sc.ids[0]
	if len(sc.ids) > 1 {
		printWarning("scenario has %d trees, using %q", len(sc.ids), string(first))
	}
	t, _ := sc.forest.GetByKey(first)
	return first, t, nil
}

// treeDepth returns the deepest level among reachable nodes, or 0 for an
// empty tree.
func treeDepth[C tree.Content](t *tree.Tree[C]) int {
	depth := 0
	for _, n := range t.Iter().BFS() {
		if n.Level() > depth {
			depth = n.Level()
		}
	}
	return depth
}
