package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/grovekit/grove/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewLimit caps how many values the traversal preview line shows.
const previewLimit = 12

// =============================================================================
// exploreModel - Interactive tree navigation
// =============================================================================

// exploreModel is the bubbletea model for walking a tree node by node. The
// view lists the current node's live children; the preview line shows where
// the selected traversal order would go from here.
type exploreModel[C tree.Content] struct {
	ID     string
	Tree   *tree.Tree[C]
	Cur    tree.Handle
	Cursor int
	Order  int // index into traversalOrders
	Height int
	Offset int
}

// newExploreModel creates an explore model rooted at the tree's root.
func newExploreModel[C tree.Content](id string, t *tree.Tree[C]) (exploreModel[C], error) {
	root, ok := t.Root()
	if !ok {
		return exploreModel[C]{}, fmt.Errorf("tree %q has no root", id)
	}
	return exploreModel[C]{
		ID:     id,
		Tree:   t,
		Cur:    root,
		Height: 15,
	}, nil
}

func (m exploreModel[C]) Init() tea.Cmd {
	return nil
}

// children returns the live children of the current node in sibling order.
func (m exploreModel[C]) children() []tree.Handle {
	var out []tree.Handle
	n, ok := m.Tree.Node(m.Cur)
	if !ok {
		return nil
	}
	for _, c := range n.Children() {
		if c != tree.NoHandle {
			out = append(out, c)
		}
	}
	return out
}

func (m exploreModel[C]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.children())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "l", "right":
			kids := m.children()
			if m.Cursor < len(kids) {
				m.Cur = kids[m.Cursor]
				m.Cursor = 0
				m.Offset = 0
			}
		case "backspace", "h", "left":
			n, ok := m.Tree.Node(m.Cur)
			if !ok {
				break
			}
			if parent, ok := n.Parent(); ok {
				m.Cur = parent
				m.Cursor = 0
				m.Offset = 0
			}
		case "o":
			m.Order = (m.Order + 1) % len(traversalOrders)
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m exploreModel[C]) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore: " + m.ID))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ descend  ← parent  o order  q quit"))
	b.WriteString("\n\n")

	n, ok := m.Tree.Node(m.Cur)
	if !ok {
		return b.String()
	}

	path := append([]string{}, pathTo(m.Tree, m.Cur)...)
	rootVal := ""
	if root, ok := m.Tree.Root(); ok {
		if rn, ok := m.Tree.Node(root); ok {
			rootVal = rn.Content().Value()
		}
	}
	b.WriteString(StyleDim.Render("Path: ") + StyleValue.Render(strings.Join(append([]string{rootVal}, path...), " / ")))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("Node: ") + StyleHighlight.Render(n.Content().Value()) +
		listDimStyle.Render(fmt.Sprintf("  #%d  level %d", m.Cur, n.Level())))
	b.WriteString("\n\n")

	kids := m.children()
	if len(kids) == 0 {
		b.WriteString(listDimStyle.Render("  (leaf)"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.childTable(kids))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.previewLine())
	b.WriteString("\n")

	return b.String()
}

// childTable renders the visible slice of children as a bordered table.
func (m exploreModel[C]) childTable(kids []tree.Handle) string {
	end := m.Offset + m.Height
	if end > len(kids) {
		end = len(kids)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		h := kids[i]
		cn, ok := m.Tree.Node(h)
		if !ok {
			continue
		}

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		kidCount := "leaf"
		if cn.HasChildren() {
			kidCount = fmt.Sprintf("%d", cn.ChildCount())
		}
		rows = append(rows, []string{cursor, cn.Content().Value(), fmt.Sprintf("#%d", h), kidCount})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Value", "Handle", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	out := t.Render()
	if len(kids) > m.Height {
		out += "\n" + listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(kids)))
	}
	return out
}

// previewLine shows where the selected traversal order goes from the
// current node.
func (m exploreModel[C]) previewLine() string {
	order := traversalOrders[m.Order]
	seq, err := orderSeq(m.Tree.IterAt(m.Cur), order)
	if err != nil {
		return ""
	}

	var values []string
	for _, n := range seq {
		values = append(values, n.Content().Value())
		if len(values) == previewLimit {
			values = append(values, "...")
			break
		}
	}
	return StyleDim.Render(order+": ") + StyleValue.Render(strings.Join(values, " "))
}
