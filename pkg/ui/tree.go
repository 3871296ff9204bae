// tree.go - Hierarchical rendering of a navigation tree with branch glyphs.
package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/keynav/pkg/model"
)

// treeRow is one rendered line: a node and its nesting depth below the
// subtree being drawn.
type treeRow struct {
	Node  *model.Node
	Depth int
}

// TreeView draws a subtree of the navigation tree and keeps the cursor row
// scrolled into view.
type TreeView struct {
	theme  Theme
	width  int
	height int
	offset int // Index of first visible row
}

// NewTreeView creates a tree view with the given theme.
func NewTreeView(theme Theme) *TreeView {
	return &TreeView{theme: theme}
}

// SetSize updates the available dimensions
func (t *TreeView) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Rows flattens the children of top in pre-order. Regions are not listed
// as children and so never appear.
func (t *TreeView) Rows(top *model.Node) []treeRow {
	var rows []treeRow
	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		for _, child := range n.Children {
			rows = append(rows, treeRow{Node: child, Depth: depth})
			walk(child, depth+1)
		}
	}
	if top != nil {
		walk(top, 0)
	}
	return rows
}

// Render draws the subtree below top. The cursor row is styled from st.
func (t *TreeView) Render(top *model.Node, st *viewState) string {
	rows := t.Rows(top)
	if len(rows) == 0 {
		return t.theme.Renderer.NewStyle().Foreground(t.theme.Muted).Render("(nothing to navigate)")
	}

	cursor := -1
	for i, row := range rows {
		if row.Node.ID == st.highlighted {
			cursor = i
			break
		}
	}
	start, end := t.visibleRange(len(rows), cursor)

	var sb strings.Builder
	for i := start; i < end; i++ {
		row := rows[i]
		line := t.renderRow(top, row.Node, st)
		if i == cursor {
			if st.active == row.Node.ID {
				line = t.theme.Active.Render(line)
			} else {
				line = t.theme.Selected.Render(line)
			}
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// visibleRange returns the [start, end) window of rows to draw, moving the
// stored offset just enough to keep cursor visible.
func (t *TreeView) visibleRange(total, cursor int) (start, end int) {
	visible := t.height
	if visible <= 0 {
		visible = 20
	}
	if cursor >= 0 {
		if cursor < t.offset {
			t.offset = cursor
		}
		if cursor >= t.offset+visible {
			t.offset = cursor - visible + 1
		}
	}
	if t.offset > total-visible {
		t.offset = total - visible
	}
	if t.offset < 0 {
		t.offset = 0
	}
	start = t.offset
	end = min(start+visible, total)
	return start, end
}

func (t *TreeView) renderRow(top, n *model.Node, st *viewState) string {
	r := t.theme.Renderer
	var sb strings.Builder

	prefix := t.buildTreePrefix(top, n)
	sb.WriteString(r.NewStyle().Foreground(t.theme.Muted).Render(prefix))

	sb.WriteString(r.NewStyle().Foreground(t.theme.Secondary).Render(indicator(n)))
	sb.WriteString(" ")

	label := n.DisplayName()
	suffix := ""
	if n.IsVendor() {
		suffix = " → " + n.ViewportRef
	}
	mark := ""
	if st.marked[n.ID] {
		mark = " ✓"
	}
	maxLen := t.width - runewidth.StringWidth(prefix) - runewidth.StringWidth(suffix) - 4
	if maxLen < 8 {
		maxLen = 8
	}
	sb.WriteString(runewidth.Truncate(label, maxLen, "…"))
	if suffix != "" {
		sb.WriteString(r.NewStyle().Foreground(t.theme.Muted).Render(suffix))
	}
	if mark != "" {
		sb.WriteString(r.NewStyle().Foreground(t.theme.Focused).Render(mark))
	}
	return sb.String()
}

// buildTreePrefix builds the indentation and branch characters for n
// relative to top.
func (t *TreeView) buildTreePrefix(top, n *model.Node) string {
	ancestors := ancestorsBelow(top, n)
	if len(ancestors) == 0 {
		return ""
	}

	var parts []string
	for _, a := range ancestors {
		if hasSiblingsBelow(a) {
			parts = append(parts, "│   ")
		} else {
			parts = append(parts, "    ")
		}
	}
	// The first ancestor sits at depth zero and draws no column of its own.
	parts = parts[1:]
	if isLastChild(n) {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return strings.Join(parts, "")
}

// ancestorsBelow returns n's ancestors strictly below top, outermost first.
func ancestorsBelow(top, n *model.Node) []*model.Node {
	var chain []*model.Node
	for cur := n.Parent; cur != nil && cur != top; cur = cur.Parent {
		chain = append([]*model.Node{cur}, chain...)
	}
	return chain
}

func hasSiblingsBelow(n *model.Node) bool {
	if n.Parent == nil {
		return false
	}
	siblings := n.Parent.Children
	for i, s := range siblings {
		if s == n {
			return i < len(siblings)-1
		}
	}
	return false
}

func isLastChild(n *model.Node) bool {
	if n.Parent == nil {
		return true
	}
	siblings := n.Parent.Children
	return len(siblings) > 0 && siblings[len(siblings)-1] == n
}

func indicator(n *model.Node) string {
	switch {
	case n.IsVendor():
		return "◆"
	case n.Kind.CanEnter() && len(n.Children) > 0:
		return "▾"
	case n.Kind.CanEnter():
		return "▹"
	default:
		return "•"
	}
}
