// Package treedot renders trees as Graphviz node-link diagrams.
//
// # Overview
//
// This package turns a [tree.Tree] into DOT source and, via
// [github.com/goccy/go-graphviz], into SVG or PNG. Nodes appear as rounded
// boxes labeled with their content value, parent-child links as arrows in a
// top-to-bottom layout.
//
// # Usage
//
// Convert a tree to DOT, then render:
//
//	dot := treedot.ToDOT(t, treedot.Options{})
//	svg, err := treedot.RenderSVG(dot)
//
// # Severed Nodes
//
// Unlinked subtrees stay in a tree's arena, and Options.Severed makes them
// visible: severed nodes render dashed with grey fill, keeping the links
// they had below them when they were cut. This is the diagram twin of a
// Sequential arena walk, useful for seeing what an explicit Compact would
// reclaim.
package treedot
