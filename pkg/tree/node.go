package tree

// Handle is a stable index into a tree's node arena. Handles are assigned
// sequentially by [Tree.SetRoot] and [Tree.Link], never reused, and stay
// valid for the lifetime of the tree; only [Tree.Compact] renumbers them.
// The root is always handle 0.
type Handle int

// NoHandle marks an absent handle: a missing parent, a tombstoned child
// slot, or a failed lookup.
const NoHandle Handle = -1

// Node is a single arena slot: content plus the linkage that anchors it in
// the tree. Nodes are created and rewired exclusively through [Tree]
// operations; the exported surface is read-only.
//
// Child order is insertion order. Unlinking a child tombstones its slot
// instead of shifting siblings, so a node's position under its parent never
// changes.
type Node[C Content] struct {
	content C
	level   int    // root = 1, child = parent + 1
	parent  Handle // NoHandle for the root
	pos     int    // index of this node in the parent's children slice

	children []Handle          // ordered, tombstoned with NoHandle on unlink
	index    map[string]Handle // live child value -> handle
	live     int               // count of non-tombstone children entries
}

// Content returns the node's payload.
func (n *Node[C]) Content() C { return n.content }

// Level returns the node's depth, counting the root as 1.
func (n *Node[C]) Level() int { return n.level }

// Parent returns the handle of the node's parent and true, or NoHandle and
// false for the root. The parent handle survives unlinking: a severed node
// still reports the parent it was linked under.
func (n *Node[C]) Parent() (Handle, bool) {
	if n.parent == NoHandle {
		return NoHandle, false
	}
	return n.parent, true
}

// Child returns the handle of the live child whose content value matches,
// and true, or NoHandle and false if no such child is linked. Unlinked
// children are not found. The lookup is O(1).
func (n *Node[C]) Child(value string) (Handle, bool) {
	h, ok := n.index[value]
	if !ok {
		return NoHandle, false
	}
	return h, true
}

// Children returns the handles of the node's live children in sibling order.
// The slice is freshly allocated on every call.
func (n *Node[C]) Children() []Handle {
	if n.live == 0 {
		return nil
	}
	out := make([]Handle, 0, n.live)
	for _, c := range n.children {
		if c != NoHandle {
			out = append(out, c)
		}
	}
	return out
}

// ChildCount returns the number of live children in O(1).
func (n *Node[C]) ChildCount() int { return n.live }

// HasChildren reports whether at least one child is still linked.
func (n *Node[C]) HasChildren() bool { return n.live > 0 }

// addChild appends a child slot and indexes it by value, returning the
// slot's position. Duplicate checking is the caller's job.
func (n *Node[C]) addChild(value string, child Handle) int {
	if n.index == nil {
		n.index = make(map[string]Handle)
	}
	pos := len(n.children)
	n.children = append(n.children, child)
	n.index[value] = child
	n.live++
	return pos
}

// removeChild tombstones the child slot at pos and drops its index entry.
// It reports false if the slot is out of range or already severed.
func (n *Node[C]) removeChild(pos int, value string) bool {
	if pos < 0 || pos >= len(n.children) || n.children[pos] == NoHandle {
		return false
	}
	n.children[pos] = NoHandle
	delete(n.index, value)
	n.live--
	return true
}

// liveChild returns the ordinal-th live child counting from the left, or
// from the right when rtl is set. Reports false when fewer live children
// exist.
func (n *Node[C]) liveChild(ordinal int, rtl bool) (Handle, bool) {
	if rtl {
		for i := len(n.children) - 1; i >= 0; i-- {
			if c := n.children[i]; c != NoHandle {
				if ordinal == 0 {
					return c, true
				}
				ordinal--
			}
		}
		return NoHandle, false
	}
	for _, c := range n.children {
		if c != NoHandle {
			if ordinal == 0 {
				return c, true
			}
			ordinal--
		}
	}
	return NoHandle, false
}
