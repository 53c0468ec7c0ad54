package tree

import (
	"errors"
	"strconv"
	"testing"
)

// buildSample constructs the tree used throughout the iterator and lookup
// tests, returning the handle of every node by value:
//
//	A
//	├── B
//	│   ├── D
//	│   └── E
//	│       └── H
//	└── C
//	    ├── F
//	    └── G
//
// Nodes are linked in the order A, B, C, D, E, F, G, H so that value order
// and arena order coincide.
func buildSample(t *testing.T) (*Tree[RawContent], map[string]Handle) {
	t.Helper()
	tr := NewRaw()
	hs := map[string]Handle{}

	link := func(val string, parent Handle) Handle {
		t.Helper()
		h, err := tr.Link(val, parent)
		if err != nil {
			t.Fatalf("Link(%q): %v", val, err)
		}
		hs[val] = h
		return h
	}

	root, err := tr.SetRoot("A")
	if err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	hs["A"] = root

	b := link("B", root)
	c := link("C", root)
	link("D", b)
	e := link("E", b)
	link("F", c)
	link("G", c)
	link("H", e)
	return tr, hs
}

func TestSetRoot(t *testing.T) {
	tr := NewRaw()

	h, err := tr.SetRoot("root")
	if err != nil {
		t.Fatalf("SetRoot error: %v", err)
	}
	if h != 0 {
		t.Errorf("root handle = %d, want 0", h)
	}
	n, ok := tr.Node(h)
	if !ok {
		t.Fatal("root node not addressable")
	}
	if n.Level() != 1 {
		t.Errorf("root level = %d, want 1", n.Level())
	}
	if _, ok := n.Parent(); ok {
		t.Error("root should have no parent")
	}

	// Rooting twice fails and changes nothing.
	if _, err := tr.SetRoot("other"); !errors.Is(err, ErrRootExists) {
		t.Errorf("second SetRoot error = %v, want ErrRootExists", err)
	}
	if c, _ := tr.Content(0); c.Value() != "root" {
		t.Errorf("root content = %q after failed SetRoot, want %q", c.Value(), "root")
	}
}

func TestSetRootParseFailure(t *testing.T) {
	tr := New(ParseWeighted)

	_, err := tr.SetRoot("not-weighted")
	if !errors.Is(err, ErrContentParse) {
		t.Fatalf("SetRoot error = %v, want ErrContentParse", err)
	}
	if tr.NodeCount() != 0 {
		t.Errorf("NodeCount = %d after failed SetRoot, want 0", tr.NodeCount())
	}
	// The tree stays rootable.
	if _, err := tr.SetRoot("1:root"); err != nil {
		t.Errorf("SetRoot after failure: %v", err)
	}
}

func TestLink(t *testing.T) {
	tr, hs := buildSample(t)

	if got := tr.NodeCount(); got != 8 {
		t.Fatalf("NodeCount = %d, want 8", got)
	}

	// Handles are assigned sequentially in link order.
	for i, val := range []string{"A", "B", "C", "D", "E", "F", "G", "H"} {
		if hs[val] != Handle(i) {
			t.Errorf("handle of %s = %d, want %d", val, hs[val], i)
		}
	}

	// Level invariant: every child sits one below its parent.
	for h := Handle(0); int(h) < tr.NodeCount(); h++ {
		n, _ := tr.Node(h)
		p, ok := n.Parent()
		if !ok {
			continue
		}
		pn, _ := tr.Node(p)
		if n.Level() != pn.Level()+1 {
			t.Errorf("node %d level = %d, parent level = %d", h, n.Level(), pn.Level())
		}
	}
}

func TestLinkErrors(t *testing.T) {
	tr := NewRaw()
	root, _ := tr.SetRoot("A")

	// Parent out of range.
	if _, err := tr.Link("x", 99); !errors.Is(err, ErrParentNotFound) {
		t.Errorf("Link to 99 error = %v, want ErrParentNotFound", err)
	}
	if _, err := tr.Link("x", NoHandle); !errors.Is(err, ErrParentNotFound) {
		t.Errorf("Link to NoHandle error = %v, want ErrParentNotFound", err)
	}

	// Duplicate sibling value.
	if _, err := tr.Link("B", root); err != nil {
		t.Fatalf("Link B: %v", err)
	}
	if _, err := tr.Link("B", root); !errors.Is(err, ErrDuplicateChild) {
		t.Errorf("duplicate Link error = %v, want ErrDuplicateChild", err)
	}

	// Failed links must not grow the arena.
	if got := tr.NodeCount(); got != 2 {
		t.Errorf("NodeCount = %d after failed links, want 2", got)
	}
}

func TestLinkParseFailure(t *testing.T) {
	tr := New(ParseWeighted)
	root, _ := tr.SetRoot("0:root")

	_, err := tr.Link("weightless", root)
	if !errors.Is(err, ErrContentParse) {
		t.Fatalf("Link error = %v, want ErrContentParse", err)
	}
	if tr.NodeCount() != 1 {
		t.Errorf("NodeCount = %d after failed Link, want 1", tr.NodeCount())
	}
	rn, _ := tr.Node(root)
	if rn.HasChildren() {
		t.Error("failed Link left a child slot behind")
	}
}

func TestUnlink(t *testing.T) {
	tr, hs := buildSample(t)

	h, err := tr.Unlink(hs["B"])
	if err != nil {
		t.Fatalf("Unlink(B): %v", err)
	}
	if h != hs["B"] {
		t.Errorf("Unlink returned %d, want %d", h, hs["B"])
	}

	// The arena keeps every node; only reachability changes.
	if got := tr.NodeCount(); got != 8 {
		t.Errorf("NodeCount = %d after unlink, want 8", got)
	}

	// B and its whole subtree are invisible to structural traversal.
	for gotH := range tr.Iter().BFS() {
		if gotH == hs["B"] || gotH == hs["D"] || gotH == hs["E"] || gotH == hs["H"] {
			t.Errorf("BFS reached severed node %d", gotH)
		}
	}

	// But the severed nodes stay addressable and intact.
	bn, ok := tr.Node(hs["B"])
	if !ok {
		t.Fatal("severed node no longer addressable")
	}
	if got := bn.Content().Value(); got != "B" {
		t.Errorf("severed content = %q, want B", got)
	}
	if got := bn.ChildCount(); got != 2 {
		t.Errorf("severed node child count = %d, want 2", got)
	}

	// The parent no longer resolves the value.
	an, _ := tr.Node(hs["A"])
	if _, ok := an.Child("B"); ok {
		t.Error("parent still resolves severed child by value")
	}

	// Sibling position of C is unaffected.
	if got := an.Children(); len(got) != 1 || got[0] != hs["C"] {
		t.Errorf("live children of root = %v, want [%d]", got, hs["C"])
	}
}

func TestUnlinkErrors(t *testing.T) {
	tr, hs := buildSample(t)

	// Root cannot be unlinked.
	if _, err := tr.Unlink(hs["A"]); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("Unlink(root) error = %v, want ErrChildNotFound", err)
	}

	// Out of range.
	if _, err := tr.Unlink(42); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("Unlink(42) error = %v, want ErrChildNotFound", err)
	}

	// Double unlink.
	if _, err := tr.Unlink(hs["D"]); err != nil {
		t.Fatalf("Unlink(D): %v", err)
	}
	if _, err := tr.Unlink(hs["D"]); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("second Unlink(D) error = %v, want ErrChildNotFound", err)
	}
}

func TestUnlinkThenRelinkValue(t *testing.T) {
	tr, hs := buildSample(t)

	// Once D is severed, the value D is free again under B.
	if _, err := tr.Unlink(hs["D"]); err != nil {
		t.Fatalf("Unlink(D): %v", err)
	}
	d2, err := tr.Link("D", hs["B"])
	if err != nil {
		t.Fatalf("relink D: %v", err)
	}
	if d2 == hs["D"] {
		t.Error("relinked node reused the severed handle")
	}

	bn, _ := tr.Node(hs["B"])
	if got, _ := bn.Child("D"); got != d2 {
		t.Errorf("Child(D) = %d, want new handle %d", got, d2)
	}

	// Unlinking the old D again still fails; the new D is untouched.
	if _, err := tr.Unlink(hs["D"]); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("re-unlink of severed node error = %v, want ErrChildNotFound", err)
	}
	if got, ok := bn.Child("D"); !ok || got != d2 {
		t.Errorf("Child(D) after failed unlink = %d/%v, want %d/true", got, ok, d2)
	}
}

func TestUpdateContent(t *testing.T) {
	tr, hs := buildSample(t)

	h, err := tr.UpdateContent("E2", hs["E"])
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if h != hs["E"] {
		t.Errorf("UpdateContent returned %d, want %d", h, hs["E"])
	}

	// The parent's index follows the value.
	bn, _ := tr.Node(hs["B"])
	if _, ok := bn.Child("E"); ok {
		t.Error("old value still resolves")
	}
	if got, ok := bn.Child("E2"); !ok || got != hs["E"] {
		t.Errorf("Child(E2) = %d/%v, want %d/true", got, ok, hs["E"])
	}

	// Level and linkage are untouched.
	en, _ := tr.Node(hs["E"])
	if en.Level() != 3 {
		t.Errorf("level after update = %d, want 3", en.Level())
	}
	if got, _ := en.Child("H"); got != hs["H"] {
		t.Errorf("update disturbed children: Child(H) = %d, want %d", got, hs["H"])
	}
}

func TestUpdateContentRoot(t *testing.T) {
	tr, hs := buildSample(t)

	if _, err := tr.UpdateContent("A2", hs["A"]); err != nil {
		t.Fatalf("UpdateContent(root): %v", err)
	}
	if c, _ := tr.Content(hs["A"]); c.Value() != "A2" {
		t.Errorf("root content = %q, want A2", c.Value())
	}
}

func TestUpdateContentErrors(t *testing.T) {
	tr, hs := buildSample(t)

	// Out of range.
	if _, err := tr.UpdateContent("x", 99); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("update out of range error = %v, want ErrChildNotFound", err)
	}

	// Colliding with a live sibling.
	if _, err := tr.UpdateContent("C", hs["B"]); !errors.Is(err, ErrDuplicateChild) {
		t.Errorf("update to taken value error = %v, want ErrDuplicateChild", err)
	}
	if c, _ := tr.Content(hs["B"]); c.Value() != "B" {
		t.Errorf("content = %q after rejected update, want B", c.Value())
	}

	// Severed nodes are not updatable.
	if _, err := tr.Unlink(hs["C"]); err != nil {
		t.Fatalf("Unlink(C): %v", err)
	}
	if _, err := tr.UpdateContent("C2", hs["C"]); !errors.Is(err, ErrChildNotFound) {
		t.Errorf("update severed node error = %v, want ErrChildNotFound", err)
	}
}

func TestUpdateContentParseFailure(t *testing.T) {
	tr := New(ParseWeighted)
	root, _ := tr.SetRoot("1:root")
	child, _ := tr.Link("2:child", root)

	if _, err := tr.UpdateContent("nope", child); !errors.Is(err, ErrContentParse) {
		t.Fatalf("update parse error = %v, want ErrContentParse", err)
	}
	c, _ := tr.Content(child)
	if c.Weight() != 2 || c.Value() != "child" {
		t.Errorf("content changed after rejected update: %d:%s", c.Weight(), c.Value())
	}
}

func TestFindPath(t *testing.T) {
	tr, hs := buildSample(t)
	root := hs["A"]

	h, ok := tr.FindPath(root, "B", "E", "H")
	if !ok {
		t.Fatal("FindPath(B,E,H) missed")
	}
	if h != hs["H"] {
		t.Errorf("FindPath = %d, want %d", h, hs["H"])
	}

	// An empty path resolves to the start node.
	if h, ok := tr.FindPath(hs["C"]); !ok || h != hs["C"] {
		t.Errorf("FindPath with empty path = %d/%v, want %d/true", h, ok, hs["C"])
	}

	// Paths start below the start node, so naming it misses.
	if _, ok := tr.FindPath(root, "A", "B"); ok {
		t.Error("path including the start node's own value should miss")
	}

	// Misses: unknown hop, bad start.
	if _, ok := tr.FindPath(root, "B", "Z"); ok {
		t.Error("FindPath(B,Z) should miss")
	}
	if _, ok := tr.FindPath(99, "B"); ok {
		t.Error("FindPath from out-of-range start should miss")
	}

	// Severed branches fall out of path resolution.
	if _, err := tr.Unlink(hs["E"]); err != nil {
		t.Fatalf("Unlink(E): %v", err)
	}
	if _, ok := tr.FindPath(root, "B", "E", "H"); ok {
		t.Error("FindPath should not cross a severed link")
	}
}

func TestContentAndNodeReads(t *testing.T) {
	tr, hs := buildSample(t)

	c, ok := tr.Content(hs["F"])
	if !ok || c.Value() != "F" {
		t.Errorf("Content(F) = %q/%v, want F/true", c.Value(), ok)
	}

	// Out-of-range reads degrade to absence, never errors.
	if _, ok := tr.Content(123); ok {
		t.Error("Content out of range should report false")
	}
	if _, ok := tr.Node(-2); ok {
		t.Error("Node(-2) should report false")
	}

	if h, ok := tr.Root(); !ok || h != 0 {
		t.Errorf("Root = %d/%v, want 0/true", h, ok)
	}
	empty := NewRaw()
	if _, ok := empty.Root(); ok {
		t.Error("empty tree should have no root")
	}
}

func TestHandleStability(t *testing.T) {
	tr, hs := buildSample(t)

	before := map[string]string{}
	for val, h := range hs {
		c, _ := tr.Content(h)
		before[val] = c.Value()
	}

	// Churn elsewhere in the tree.
	if _, err := tr.Unlink(hs["F"]); err != nil {
		t.Fatalf("Unlink(F): %v", err)
	}
	if _, err := tr.Link("I", hs["C"]); err != nil {
		t.Fatalf("Link(I): %v", err)
	}
	if _, err := tr.Link("J", hs["H"]); err != nil {
		t.Fatalf("Link(J): %v", err)
	}

	// Every original handle still addresses the same content.
	for val, h := range hs {
		c, ok := tr.Content(h)
		if !ok {
			t.Fatalf("handle of %s went stale", val)
		}
		if c.Value() != before[val] {
			t.Errorf("handle of %s now reads %q", val, c.Value())
		}
	}
}

func TestDeepLevels(t *testing.T) {
	tr := NewRaw()
	h, _ := tr.SetRoot("n0")
	for i := 1; i <= 64; i++ {
		var err error
		h, err = tr.Link("n"+strconv.Itoa(i), h)
		if err != nil {
			t.Fatalf("Link depth %d: %v", i, err)
		}
		n, _ := tr.Node(h)
		if n.Level() != i+1 {
			t.Fatalf("level at depth %d = %d, want %d", i, n.Level(), i+1)
		}
	}
}
