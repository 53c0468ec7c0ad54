package treedot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/grovekit/grove/pkg/tree"
)

// Options configures tree diagram generation.
type Options struct {
	// Detailed includes handle and level in node labels.
	// When false, only the content value is shown.
	Detailed bool

	// Severed includes nodes that are no longer reachable from the root.
	// They appear with dashed outlines and grey fill, connected to whatever
	// children they kept when they were cut loose.
	Severed bool
}

// ToDOT converts a tree to Graphviz DOT format. Node identifiers in the DOT
// source are the arena handles, so the output is stable across runs for the
// same build sequence. The resulting string can be rendered with [RenderSVG]
// or [RenderPNG], or fed to external Graphviz tools.
func ToDOT[C tree.Content](t *tree.Tree[C], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph tree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	linked := linkedSet(t)
	for h, n := range t.Iter().Sequential() {
		if !opts.Severed && !linked[h] {
			continue
		}
		label := fmtLabel(h, n, opts.Detailed)
		attrs := fmtAttrs(linked[h], label)
		fmt.Fprintf(&buf, "  %d [%s];\n", h, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for h, n := range t.Iter().Sequential() {
		if !opts.Severed && !linked[h] {
			continue
		}
		for _, c := range n.Children() {
			fmt.Fprintf(&buf, "  %d -> %d;\n", h, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// linkedSet marks every handle reachable from the root.
func linkedSet[C tree.Content](t *tree.Tree[C]) map[tree.Handle]bool {
	linked := make(map[tree.Handle]bool, t.NodeCount())
	for h := range t.Iter().BFS() {
		linked[h] = true
	}
	return linked
}

func fmtLabel[C tree.Content](h tree.Handle, n *tree.Node[C], detailed bool) string {
	value := n.Content().Value()
	if !detailed {
		return value
	}
	return fmt.Sprintf("%s\nhandle: %d\nlevel: %d", value, h, n.Level())
}

func fmtAttrs(linked bool, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !linked {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// The SVG tag is normalized to carry explicit width and height so the result
// embeds cleanly in HTML and terminals that inline images.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz's built-in rasterizer.
func RenderPNG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
