package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovekit/grove/pkg/render/outline"
	"github.com/grovekit/grove/pkg/tree"
)

// newDemoCmd creates the demo command, which builds a small tree in memory
// and shows the core operations on it: traversals, path lookup, unlinking,
// and compaction. No flags, no files; a tour.
func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Build a sample tree and walk it every way",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

func runDemo() error {
	t := tree.NewRaw()

	// a
	// ├── b
	// │   ├── d
	// │   └── e
	// │       └── h
	// └── c
	//     ├── f
	//     └── g
	root, err := t.SetRoot("a")
	if err != nil {
		return err
	}
	links := []struct {
		value  string
		parent string
	}{
		{"b", ""}, {"c", ""},
		{"d", "b"}, {"e", "b"},
		{"f", "c"}, {"g", "c"},
		{"h", "b/e"},
	}
	for _, l := range links {
		parent, _ := t.FindPath(root, splitPath(l.parent)...)
		if _, err := t.Link(l.value, parent); err != nil {
			return err
		}
	}

	fmt.Println(StyleTitle.Render("A sample tree"))
	printStats(t.NodeCount(), treeDepth(t), "")
	fmt.Print(outline.Render(t, outline.Options{Handles: true}))
	printNewline()

	fmt.Println(StyleTitle.Render("Every traversal order"))
	for _, order := range traversalOrders {
		seq, err := orderSeq(t.Iter(), order)
		if err != nil {
			return err
		}
		var values []string
		for _, n := range seq {
			values = append(values, n.Content().Value())
		}
		printKeyValue(order, strings.Join(values, " "))
	}
	printNewline()

	fmt.Println(StyleTitle.Render("Finding nodes by path"))
	if h, ok := t.FindPath(root, "b", "e", "h"); ok {
		printDetail("b/e/h resolves to handle %d", h)
	}
	if _, ok := t.FindPath(root, "b", "z"); !ok {
		printDetail("b/z does not resolve")
	}
	printNewline()

	fmt.Println(StyleTitle.Render("Unlinking a branch"))
	b, _ := t.FindPath(root, "b")
	if _, err := t.Unlink(b); err != nil {
		return err
	}
	printDetail("unlinked b; the arena still holds %d nodes", t.NodeCount())
	fmt.Print(outline.Render(t, outline.Options{Handles: true}))

	// Sequential iteration is the diagnostic view: it walks the arena and
	// still reaches the severed branch.
	var severed []string
	for h, n := range t.Iter().Sequential() {
		if _, linked := t.FindPath(root, pathTo(t, h)...); !linked {
			severed = append(severed, n.Content().Value())
		}
	}
	printDetail("sequential still sees: %s", strings.Join(severed, " "))
	printNewline()

	fmt.Println(StyleTitle.Render("Compacting"))
	remap := t.Compact()
	printDetail("compacted to %d nodes; the remap covers %d survivors", t.NodeCount(), len(remap))
	fmt.Print(outline.Render(t, outline.Options{Handles: true}))
	printNewline()

	printNextStep("Load a scenario next", appName+" build examples/basic.toml")
	return nil
}

// pathTo rebuilds the value path from the root to h by walking parents.
// Severed nodes yield a path that no longer resolves, which is exactly what
// the demo uses it for.
func pathTo[C tree.Content](t *tree.Tree[C], h tree.Handle) []string {
	var path []string
	for {
		n, ok := t.Node(h)
		if !ok {
			return path
		}
		parent, ok := n.Parent()
		if !ok {
			break
		}
		path = append([]string{n.Content().Value()}, path...)
		h = parent
	}
	return path
}
