// Package render provides visual output for trees.
//
// # Overview
//
// This directory groups the two ways Grove draws a tree:
//
//   - Graphviz node-link diagrams (in [treedot] subpackage)
//   - Indented text outlines for terminals (in [outline] subpackage)
//
// # Node-Link Diagrams
//
// The [treedot] subpackage converts a tree to Graphviz DOT source and
// rasterizes it to SVG or PNG. Severed branches can be included, drawn
// dashed with grey fill.
//
//	dot := treedot.ToDOT(t, treedot.Options{})
//	svg, err := treedot.RenderSVG(dot)
//
// # Text Outlines
//
// The [outline] subpackage renders a tree as an indented outline with
// box-drawing connectors, the format the build and demo commands print.
//
//	fmt.Print(outline.Render(t, outline.Options{}))
//
// [treedot]: github.com/grovekit/grove/pkg/render/treedot
// [outline]: github.com/grovekit/grove/pkg/render/outline
package render
