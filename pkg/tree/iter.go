package tree

import "iter"

// Iter builds traversal sequences over a tree from a fixed starting node.
// Obtain one with [Tree.Iter] (default start) or [Tree.IterAt] (explicit
// start), then pick a strategy:
//
//	for h, n := range t.Iter().BFS() {
//		fmt.Println(h, n.Content().Value())
//	}
//
// Every strategy returns a lazy iter.Seq2 of handle and node. Sequences are
// cheap to build, safe to abandon mid-walk, and never mutate the tree.
// Mutating the tree while a sequence is being consumed is undefined.
//
// The structural strategies (BFS, DFS, and Children families) walk live
// links only and never reach severed subtrees. Sequential and SequentialRev
// walk the arena itself and include severed nodes.
type Iter[C Content] struct {
	t     *Tree[C]
	start Handle
}

// Iter returns a traversal builder starting at each strategy's default node:
// the root for structural walks, arena end for [Iter.SequentialRev].
func (t *Tree[C]) Iter() Iter[C] {
	return Iter[C]{t: t, start: NoHandle}
}

// IterAt returns a traversal builder starting at start. A start that is out
// of range falls back to the strategy's default, matching [Tree.Iter].
func (t *Tree[C]) IterAt(start Handle) Iter[C] {
	return Iter[C]{t: t, start: start}
}

// from resolves the start handle against the arena, substituting def when
// the requested start is out of range. Reports false on an empty tree, in
// which case every strategy yields nothing.
func (it Iter[C]) from(def Handle) (Handle, bool) {
	if len(it.t.nodes) == 0 {
		return NoHandle, false
	}
	s := it.start
	if s < 0 || int(s) >= len(it.t.nodes) {
		s = def
	}
	return s, true
}

// Sequential yields nodes in ascending arena order from the start handle
// (default 0). This is a view of the arena, not of the linked structure:
// severed nodes appear exactly like linked ones.
func (it Iter[C]) Sequential() iter.Seq2[Handle, *Node[C]] {
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		for h := start; int(h) < len(it.t.nodes); h++ {
			if !yield(h, it.t.nodes[h]) {
				return
			}
		}
	}
}

// SequentialRev yields nodes in descending arena order from the start handle
// (default the last node). Like [Iter.Sequential], it includes severed
// nodes.
func (it Iter[C]) SequentialRev() iter.Seq2[Handle, *Node[C]] {
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(Handle(len(it.t.nodes) - 1))
		if !ok {
			return
		}
		for h := start; h >= 0; h-- {
			if !yield(h, it.t.nodes[h]) {
				return
			}
		}
	}
}

// BFS yields the subtree under the start node in level order, visiting each
// node's children left to right.
func (it Iter[C]) BFS() iter.Seq2[Handle, *Node[C]] {
	return it.bfs(false)
}

// BFSRev yields the subtree in level order with each node's children taken
// right to left.
func (it Iter[C]) BFSRev() iter.Seq2[Handle, *Node[C]] {
	return it.bfs(true)
}

func (it Iter[C]) bfs(rtl bool) iter.Seq2[Handle, *Node[C]] {
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		queue := []Handle{start}
		for len(queue) > 0 {
			h := queue[0]
			queue = queue[1:]
			n := it.t.nodes[h]
			if !yield(h, n) {
				return
			}
			queue = appendLive(queue, n, rtl)
		}
	}
}

// PreOrder yields the subtree depth first, each node before its children,
// subtrees taken left to right.
func (it Iter[C]) PreOrder() iter.Seq2[Handle, *Node[C]] {
	return it.preOrder(false)
}

// PreOrderRev yields the subtree depth first, each node before its children,
// subtrees taken right to left.
func (it Iter[C]) PreOrderRev() iter.Seq2[Handle, *Node[C]] {
	return it.preOrder(true)
}

func (it Iter[C]) preOrder(rtl bool) iter.Seq2[Handle, *Node[C]] {
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		stack := []Handle{start}
		for len(stack) > 0 {
			h := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := it.t.nodes[h]
			if !yield(h, n) {
				return
			}
			// Push opposite to the visit order so the next subtree pops first.
			stack = appendLive(stack, n, !rtl)
		}
	}
}

// PostOrder yields the subtree depth first, each node after all of its
// children, subtrees taken left to right.
func (it Iter[C]) PostOrder() iter.Seq2[Handle, *Node[C]] {
	return it.postOrder(false)
}

// PostOrderRev yields the subtree depth first, each node after all of its
// children, subtrees taken right to left.
func (it Iter[C]) PostOrderRev() iter.Seq2[Handle, *Node[C]] {
	return it.postOrder(true)
}

func (it Iter[C]) postOrder(rtl bool) iter.Seq2[Handle, *Node[C]] {
	type frame struct {
		h        Handle
		expanded bool
	}
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		stack := []frame{{h: start}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := it.t.nodes[f.h]
			if f.expanded || n.live == 0 {
				if !yield(f.h, n) {
					return
				}
				continue
			}
			stack = append(stack, frame{h: f.h, expanded: true})
			// Push opposite to the visit order so the first subtree pops first.
			if rtl {
				for _, c := range n.children {
					if c != NoHandle {
						stack = append(stack, frame{h: c})
					}
				}
			} else {
				for i := len(n.children) - 1; i >= 0; i-- {
					if c := n.children[i]; c != NoHandle {
						stack = append(stack, frame{h: c})
					}
				}
			}
		}
	}
}

// InOrder yields the subtree in generalized in-order: a node is visited
// after its first child's subtree and before the subtrees of its remaining
// children, left to right. Leaves are visited directly. On binary trees this
// is the classic left-node-right order.
func (it Iter[C]) InOrder() iter.Seq2[Handle, *Node[C]] {
	return it.inOrder(false)
}

// InOrderRev yields the mirror of [Iter.InOrder]: a node is visited after
// its last child's subtree and before the subtrees of its remaining
// children, right to left. On binary trees this is right-node-left.
func (it Iter[C]) InOrderRev() iter.Seq2[Handle, *Node[C]] {
	return it.inOrder(true)
}

func (it Iter[C]) inOrder(rtl bool) iter.Seq2[Handle, *Node[C]] {
	type frame struct {
		h    Handle
		next int // ordinal of the next child subtree to descend into
	}
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		stack := []frame{{h: start}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n := it.t.nodes[f.h]
			child, hasChild := n.liveChild(f.next, rtl)
			switch {
			case f.next == 0 && hasChild:
				// Descend into the first subtree; the node waits.
				stack = append(stack, frame{h: f.h, next: 1}, frame{h: child})
			case f.next == 0:
				// Leaf.
				if !yield(f.h, n) {
					return
				}
			case f.next == 1:
				// First subtree done: visit the node, then descend further.
				if !yield(f.h, n) {
					return
				}
				if hasChild {
					stack = append(stack, frame{h: f.h, next: 2}, frame{h: child})
				}
			case hasChild:
				stack = append(stack, frame{h: f.h, next: f.next + 1}, frame{h: child})
			}
		}
	}
}

// Children yields the live children of the start node in sibling order.
// Only direct children are visited, not their subtrees.
func (it Iter[C]) Children() iter.Seq2[Handle, *Node[C]] {
	return func(yield func(Handle, *Node[C]) bool) {
		start, ok := it.from(0)
		if !ok {
			return
		}
		for _, c := range it.t.nodes[start].children {
			if c == NoHandle {
				continue
			}
			if !yield(c, it.t.nodes[c]) {
				return
			}
		}
	}
}

// appendLive appends the live children of n to dst, left to right, or right
// to left when rtl is set.
func appendLive[C Content](dst []Handle, n *Node[C], rtl bool) []Handle {
	if rtl {
		for i := len(n.children) - 1; i >= 0; i-- {
			if c := n.children[i]; c != NoHandle {
				dst = append(dst, c)
			}
		}
		return dst
	}
	for _, c := range n.children {
		if c != NoHandle {
			dst = append(dst, c)
		}
	}
	return dst
}
