package tree

// Compact rebuilds the arena, keeping exactly the nodes reachable from the
// root and renumbering their handles. Relative arena order and sibling order
// are preserved, tombstoned child slots are dropped, and the root stays at
// handle 0. Severed subtrees are gone afterwards.
//
// The returned map translates old handles to new ones; handles absent from
// the map addressed unreachable nodes. Every handle issued before the call
// is invalid afterwards, whether or not its node survived.
//
// Compact is O(n) in the arena size. Unlink stays O(1) precisely because
// this reclamation pass is explicit and never runs behind the caller's back.
func (t *Tree[C]) Compact() map[Handle]Handle {
	remap := make(map[Handle]Handle, len(t.nodes))
	if len(t.nodes) == 0 {
		return remap
	}

	reach := make([]bool, len(t.nodes))
	reach[0] = true
	stack := []Handle{0}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range t.nodes[h].children {
			if c != NoHandle && !reach[c] {
				reach[c] = true
				stack = append(stack, c)
			}
		}
	}

	// Number survivors in arena order so relative positions carry over.
	next := Handle(0)
	for old, ok := range reach {
		if ok {
			remap[Handle(old)] = next
			next++
		}
	}

	old := t.nodes
	t.nodes = make([]*Node[C], 0, len(remap))
	for i, ok := range reach {
		if !ok {
			continue
		}
		src := old[i]
		dst := &Node[C]{content: src.content, level: src.level, parent: NoHandle, pos: -1}
		if src.parent != NoHandle {
			// A reachable non-root always has a reachable parent.
			dst.parent = remap[src.parent]
		}
		t.nodes = append(t.nodes, dst)
	}

	// Children link up in a second pass: every child's new handle is larger
	// than its parent's, so all nodes already exist.
	for i, ok := range reach {
		if !ok {
			continue
		}
		src, dst := old[i], t.nodes[remap[Handle(i)]]
		for _, c := range src.children {
			if c == NoHandle {
				continue
			}
			nc := remap[c]
			child := t.nodes[nc]
			child.pos = dst.addChild(child.content.Value(), nc)
		}
	}
	return remap
}
