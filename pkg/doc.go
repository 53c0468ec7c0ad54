// Package pkg provides the core libraries for Grove tree manipulation.
//
// # Overview
//
// Grove builds, mutates, and traverses in-memory n-ary trees addressed by
// stable integer handles. Nodes live in an append-only arena per tree, so a
// handle stays valid until an explicit compaction. The pkg directory is
// organized into four main areas:
//
//  1. [tree] - The tree core (arena, handles, traversals, content dialects)
//  2. [forest] - A keyed registry of trees sharing one content dialect
//  3. [render] - Diagram and terminal output (Graphviz DOT, text outlines)
//  4. [cache] - Artifact and response caching (file, memory, Redis)
//
// # Architecture
//
// The typical data flow through Grove:
//
//	TOML scenario / API calls
//	         ↓
//	    [forest] package (create and look up trees by id)
//	         ↓
//	    [tree] package (link, unlink, update, traverse)
//	         ↓
//	    [render/treedot] or [render/outline]
//	         ↓
//	    DOT/SVG/PNG or terminal output
//
// # Quick Start
//
// Build a tree and walk it:
//
//	t := tree.NewRaw()
//	root, _ := t.SetRoot("app")
//	api, _ := t.Link("api", root)
//	t.Link("web", root)
//	t.Link("store", api)
//
//	for h, n := range t.Iter().BFS() {
//	    fmt.Println(h, n.Content().Value())
//	}
//
// # Main Packages
//
// [tree] - The core. Trees are generic over their content dialect: a
// [tree.ParseFunc] validates raw text on every SetRoot, Link, and
// UpdateContent, and the parsed [tree.Content] is what traversals see.
// Eleven traversal strategies are exposed through [tree.Iter] as standard
// iter.Seq2 sequences. Unlink severs a branch in O(1) and leaves it in the
// arena; Compact rebuilds the arena and reports the handle remap.
//
// [forest] - A registry of trees under comparable keys with a parsed-id
// layer, so ids get the same validate-on-entry treatment as node content.
//
// [render/treedot] - Graphviz node-link diagrams: DOT generation plus SVG
// and PNG rasterization, with optional severed-branch display.
//
// [render/outline] - Indented text outlines for terminals.
//
// [cache] - Content-addressed caching for rendered artifacts and HTTP
// responses: file-backed with sharded keys, in-memory for tests and
// servers, Redis for shared deployments, and a retry helper for the
// network-backed stores.
//
// [observability] - Hook registry for tree mutations and cache traffic.
// No-op by default; main registers real implementations at startup.
//
// [buildinfo] - Version metadata injected at build time via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/tree/...         # Specific package
//	go test -run Example           # Examples only
//
// [tree]: https://pkg.go.dev/github.com/grovekit/grove/pkg/tree
// [forest]: https://pkg.go.dev/github.com/grovekit/grove/pkg/forest
// [render]: https://pkg.go.dev/github.com/grovekit/grove/pkg/render
// [render/treedot]: https://pkg.go.dev/github.com/grovekit/grove/pkg/render/treedot
// [render/outline]: https://pkg.go.dev/github.com/grovekit/grove/pkg/render/outline
// [cache]: https://pkg.go.dev/github.com/grovekit/grove/pkg/cache
// [observability]: https://pkg.go.dev/github.com/grovekit/grove/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/grovekit/grove/pkg/buildinfo
package pkg
