// Package outline renders trees as indented text using box-drawing
// characters, the plain-terminal companion to [treedot] diagrams.
package outline

import (
	"fmt"
	"strings"

	"github.com/grovekit/grove/pkg/tree"
)

// Options configures outline rendering.
type Options struct {
	// Handles appends each node's arena handle to its line, "#n" style.
	Handles bool
}

// Render returns the outline of the whole tree, or the empty string for an
// empty tree:
//
//	app
//	├── api
//	│   └── cache
//	└── store
func Render[C tree.Content](t *tree.Tree[C], opts Options) string {
	root, ok := t.Root()
	if !ok {
		return ""
	}
	return RenderAt(t, root, opts)
}

// RenderAt returns the outline of the subtree anchored at start. An
// out-of-range start renders as empty.
func RenderAt[C tree.Content](t *tree.Tree[C], start tree.Handle, opts Options) string {
	if _, ok := t.Node(start); !ok {
		return ""
	}
	var b strings.Builder
	writeNode(&b, t, start, "", "", opts)
	return b.String()
}

func writeNode[C tree.Content](b *strings.Builder, t *tree.Tree[C], h tree.Handle, lead, childLead string, opts Options) {
	n, _ := t.Node(h)
	b.WriteString(lead)
	b.WriteString(n.Content().Value())
	if opts.Handles {
		fmt.Fprintf(b, " #%d", h)
	}
	b.WriteByte('\n')

	kids := n.Children()
	for i, c := range kids {
		if i == len(kids)-1 {
			writeNode(b, t, c, childLead+"└── ", childLead+"    ", opts)
		} else {
			writeNode(b, t, c, childLead+"├── ", childLead+"│   ", opts)
		}
	}
}
