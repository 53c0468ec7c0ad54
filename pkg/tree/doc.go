// Package tree provides a growable, arena-backed n-ary tree addressed by
// stable integer handles.
//
// # Overview
//
// Nodes live in a flat arena owned by the [Tree]. Creating a node appends to
// the arena and returns a [Handle]; nodes never move and handles never
// dangle. Removal is split into two deliberately separate steps: [Tree.Unlink]
// severs a node from its parent in O(1) without touching the subtree below
// it, and [Tree.Compact] is the explicit O(n) pass that rebuilds the arena
// and actually reclaims unreachable nodes.
//
// This layout trades memory for predictable costs: no mutation is ever worse
// than amortized O(1), bulk builds are append-only, and read paths are plain
// slice indexing.
//
// # Basic Usage
//
// Create a tree with [NewRaw] (verbatim string payloads) or [New] with a
// custom parse function, root it once, and grow it with [Tree.Link]:
//
//	t := tree.NewRaw()
//	root, _ := t.SetRoot("fs")
//	etc, _ := t.Link("etc", root)
//	t.Link("hosts", etc)
//
// Children are indexed by content value, so lookups and path resolution are
// constant time per hop:
//
//	h, ok := t.FindPath(root, "etc", "hosts")
//
// # Handles and Unlinking
//
// A [Handle] is an index into the arena, assigned sequentially from 0 (the
// root). Handles remain valid for the lifetime of the tree: unlinking a node
// hides it from structural traversals and value lookups but keeps it, and
// its whole subtree, addressable. [Tree.NodeCount] reports the arena size
// including severed nodes. Sibling positions are stable too - unlinking
// tombstones the parent's child slot instead of shifting its siblings.
//
// # Traversal
//
// [Tree.Iter] and [Tree.IterAt] build lazy traversal sequences in eleven
// strategies: arena-order walks in both directions ([Iter.Sequential],
// [Iter.SequentialRev]), level order ([Iter.BFS], [Iter.BFSRev]), depth
// first in pre, post, and generalized in-order with their mirrored variants,
// and direct [Iter.Children]. All are iter.Seq2 values that work directly
// with range-over-func:
//
//	for h, n := range t.Iter().PostOrder() {
//		fmt.Println(h, n.Content().Value())
//	}
//
// # Content Codecs
//
// Node payloads implement [Content]: a canonical Value used for lookups and
// a Serialize form that round-trips through the tree's [ParseFunc]. The
// package ships [RawContent] (any string, never fails) and
// [WeightedContent] (the "<weight>:<text>" dialect). Custom codecs plug in
// through [New]; a failed parse rejects the mutation and leaves the tree
// untouched.
//
// # Concurrency
//
// Tree instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same tree. Distinct trees
// are independent and can be used in parallel freely.
package tree
