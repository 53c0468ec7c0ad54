package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrRootExists is returned by [Tree.SetRoot] when the tree already has
	// a root. A tree is rooted exactly once; all further growth goes through
	// [Tree.Link].
	ErrRootExists = errors.New("tree already has a root")

	// ErrParentNotFound is returned by [Tree.Link] when the parent handle
	// does not address a node in the arena.
	ErrParentNotFound = errors.New("parent node not found")

	// ErrContentParse is returned by [Tree.SetRoot], [Tree.Link], and
	// [Tree.UpdateContent] when the tree's parse function rejects the raw
	// text. The parse error is wrapped alongside it and remains inspectable
	// with errors.As.
	ErrContentParse = errors.New("content did not parse")

	// ErrChildNotFound is returned by [Tree.Unlink] and [Tree.UpdateContent]
	// when the handle does not address a node that the operation can act on:
	// out of range, the root (for unlink), or already severed from its
	// parent.
	ErrChildNotFound = errors.New("child node not found")

	// ErrDuplicateChild is returned by [Tree.Link] and [Tree.UpdateContent]
	// when the content value is already taken by a live sibling. Values must
	// be unique among the live children of a node, or value lookup and path
	// resolution would silently shadow nodes.
	ErrDuplicateChild = errors.New("sibling with equal value already linked")
)

// Tree is a growable arena of nodes linked into a single rooted hierarchy.
// Nodes are addressed by [Handle] and never move: linking appends to the
// arena, unlinking tombstones the parent's child slot in O(1) and leaves the
// severed subtree in place, still addressable by handle. The arena only
// shrinks through an explicit [Tree.Compact].
//
// Every mutation validates before it commits: a failed operation returns an
// error and leaves the tree exactly as it was.
//
// The zero value is not usable - construct trees with [New] or [NewRaw].
// A Tree is not safe for concurrent use without external synchronization.
type Tree[C Content] struct {
	parse ParseFunc[C]
	nodes []*Node[C]
}

// New creates an empty tree whose content dialect is defined by parse.
// Every node the tree ever holds is produced by this function.
func New[C Content](parse ParseFunc[C]) *Tree[C] {
	return &Tree[C]{parse: parse}
}

// NewRaw creates an empty tree over [RawContent], the verbatim-text dialect.
func NewRaw() *Tree[RawContent] {
	return New(ParseRaw)
}

// SetRoot parses raw and installs it as the root node at handle 0, level 1.
// Returns ErrRootExists if the tree is already rooted, or ErrContentParse
// (wrapping the cause) if the text is rejected.
func (t *Tree[C]) SetRoot(raw string) (Handle, error) {
	if len(t.nodes) > 0 {
		return NoHandle, ErrRootExists
	}
	c, err := t.parse(raw)
	if err != nil {
		return NoHandle, fmt.Errorf("%w: %w", ErrContentParse, err)
	}
	t.nodes = append(t.nodes, &Node[C]{content: c, level: 1, parent: NoHandle, pos: -1})
	return 0, nil
}

// Link parses raw and appends it to the arena as a new child of parent,
// returning the new node's handle. The child's level is the parent's plus
// one and its sibling position is fixed at link time.
//
// Returns ErrParentNotFound if parent is out of range, ErrContentParse
// (wrapping the cause) if the text is rejected, or ErrDuplicateChild if a
// live child of parent already carries the same value.
func (t *Tree[C]) Link(raw string, parent Handle) (Handle, error) {
	p, ok := t.node(parent)
	if !ok {
		return NoHandle, ErrParentNotFound
	}
	c, err := t.parse(raw)
	if err != nil {
		return NoHandle, fmt.Errorf("%w: %w", ErrContentParse, err)
	}
	if _, taken := p.Child(c.Value()); taken {
		return NoHandle, fmt.Errorf("%w: %q", ErrDuplicateChild, c.Value())
	}
	h := Handle(len(t.nodes))
	t.nodes = append(t.nodes, &Node[C]{
		content: c,
		level:   p.level + 1,
		parent:  parent,
		pos:     p.addChild(c.Value(), h),
	})
	return h, nil
}

// Unlink severs the node at h from its parent in O(1): the parent's child
// slot is tombstoned and the value index entry dropped. The node and its
// entire subtree stay in the arena, addressable by handle and visible to
// [Iter.Sequential], but unreachable from any root-anchored traversal.
// Unlinking does not cascade and does not change [Tree.NodeCount].
//
// Returns ErrChildNotFound if h is out of range, addresses the root, or is
// already severed.
func (t *Tree[C]) Unlink(h Handle) (Handle, error) {
	n, ok := t.node(h)
	if !ok || n.parent == NoHandle {
		return NoHandle, ErrChildNotFound
	}
	if !t.nodes[n.parent].removeChild(n.pos, n.content.Value()) {
		return NoHandle, ErrChildNotFound
	}
	return h, nil
}

// UpdateContent parses raw and replaces the content of the node at h,
// re-keying the parent's value index when the value changes. Level, linkage,
// and sibling position are untouched.
//
// Returns ErrChildNotFound if h is out of range or the node has been severed
// from its parent, ErrContentParse (wrapping the cause) if the text is
// rejected, or ErrDuplicateChild if the new value is already taken by a live
// sibling. The root, having no parent, is always updatable.
func (t *Tree[C]) UpdateContent(raw string, h Handle) (Handle, error) {
	n, ok := t.node(h)
	if !ok {
		return NoHandle, ErrChildNotFound
	}
	c, err := t.parse(raw)
	if err != nil {
		return NoHandle, fmt.Errorf("%w: %w", ErrContentParse, err)
	}
	if n.parent != NoHandle {
		p := t.nodes[n.parent]
		oldVal, newVal := n.content.Value(), c.Value()
		if cur, keyed := p.index[oldVal]; !keyed || cur != h {
			return NoHandle, ErrChildNotFound
		}
		if oldVal != newVal {
			if _, taken := p.index[newVal]; taken {
				return NoHandle, fmt.Errorf("%w: %q", ErrDuplicateChild, newVal)
			}
			delete(p.index, oldVal)
			p.index[newVal] = h
		}
	}
	n.content = c
	return h, nil
}

// FindPath resolves a chain of child values starting below start and returns
// the handle at the end of the chain. The path names children only - it does
// not include the value of the start node itself - so FindPath(root) with no
// path returns the root. Resolution walks the per-node value indices, O(1)
// per hop, and only ever sees live children.
//
// Reports false if start is out of range or any hop is missing.
func (t *Tree[C]) FindPath(start Handle, path ...string) (Handle, bool) {
	n, ok := t.node(start)
	if !ok {
		return NoHandle, false
	}
	cur := start
	for _, value := range path {
		next, ok := n.Child(value)
		if !ok {
			return NoHandle, false
		}
		cur = next
		n = t.nodes[cur]
	}
	return cur, true
}

// Content returns the payload of the node at h and true, or the zero value
// and false if h is out of range. Reads never fail with an error.
func (t *Tree[C]) Content(h Handle) (C, bool) {
	n, ok := t.node(h)
	if !ok {
		var zero C
		return zero, false
	}
	return n.content, true
}

// Node returns the node at h and true, or nil and false if h is out of
// range. The returned node is the live arena slot; its exported surface is
// read-only.
func (t *Tree[C]) Node(h Handle) (*Node[C], bool) {
	return t.node(h)
}

// Root returns handle 0 and true if the tree is rooted, or NoHandle and
// false for an empty tree.
func (t *Tree[C]) Root() (Handle, bool) {
	if len(t.nodes) == 0 {
		return NoHandle, false
	}
	return 0, true
}

// NodeCount returns the arena size: every node ever linked, including
// severed ones. It never decreases except through [Tree.Compact].
func (t *Tree[C]) NodeCount() int { return len(t.nodes) }

func (t *Tree[C]) node(h Handle) (*Node[C], bool) {
	if h < 0 || int(h) >= len(t.nodes) {
		return nil, false
	}
	return t.nodes[h], true
}
