package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/orgweaver/internal/hierarchy"
	"github.com/kingrea/orgweaver/internal/position"
)

var (
	nameStyle     = lipgloss.NewStyle().Bold(true)
	vacantStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFB347"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
)

// chartRow is one visible line of the chart.
type chartRow struct {
	node  *hierarchy.Node
	depth int
}

// rows flattens the current view depth-first.
func (a *App) rows() []chartRow {
	var out []chartRow
	var visit func(nodes []*hierarchy.Node, depth int)
	visit = func(nodes []*hierarchy.Node, depth int) {
		for _, n := range nodes {
			out = append(out, chartRow{node: n, depth: depth})
			visit(n.Children, depth+1)
		}
	}
	visit(a.session.View(), 0)
	return out
}

// cursorIndex finds the cursor row, falling back to the first row when the
// remembered id is no longer visible.
func (a *App) cursorIndex(rows []chartRow) int {
	for i, row := range rows {
		if row.node.ID == a.cursorID {
			return i
		}
	}
	return 0
}

func (a *App) moveCursor(delta int) {
	rows := a.rows()
	if len(rows) == 0 {
		return
	}
	idx := a.cursorIndex(rows) + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	a.cursorID = rows[idx].node.ID
}

func (a *App) cursorNode() (*hierarchy.Node, bool) {
	rows := a.rows()
	if len(rows) == 0 {
		return nil, false
	}
	return rows[a.cursorIndex(rows)].node, true
}

func (a *App) cursorRecord() (position.Position, bool) {
	node, ok := a.cursorNode()
	if !ok {
		return position.Position{}, false
	}
	return node.Position, true
}

func (a *App) chartHeight() int {
	if a.height <= 0 {
		return 20
	}
	return max(5, a.height-20)
}

func (a *App) renderChart(width int) string {
	var sections []string
	sections = append(sections, a.renderBreadcrumbs())
	if a.state == stateSearch {
		sections = append(sections, a.search.View())
	} else if term := a.session.State().Search; term != "" {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("search: %s", term)))
	}

	rows := a.rows()
	if len(rows) == 0 {
		empty := "No positions yet · press a to add one"
		if a.session.State().Search != "" {
			empty = "No matches"
		}
		sections = append(sections, "", mutedStyle.Render(empty))
		return strings.Join(sections, "\n")
	}

	cursor := a.cursorIndex(rows)
	height := a.chartHeight()
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(rows), start+height)

	attrs := a.config.DisplayAttributes()
	selected := a.session.State().Selected
	lines := make([]string, 0, end-start+2)
	if start > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	for i := start; i < end; i++ {
		line := renderRow(rows[i], attrs, width)
		switch {
		case i == cursor:
			line = cursorStyle.Render("› ") + line
		case rows[i].node.ID == selected:
			line = selectedStyle.Render("· ") + line
		default:
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if end < len(rows) {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  ↓ %d more", len(rows)-end)))
	}
	sections = append(sections, "", strings.Join(lines, "\n"))
	return strings.Join(sections, "\n")
}

func (a *App) renderBreadcrumbs() string {
	parts := []string{"All"}
	for _, crumb := range a.session.Breadcrumbs() {
		parts = append(parts, crumb.Name)
	}
	return titleStyle.Render(strings.Join(parts, " › "))
}

// renderRow draws one node: indentation, branch marker, name and the
// configured card fields.
func renderRow(row chartRow, attrs []position.Attribute, width int) string {
	n := row.node
	marker := "• "
	if len(n.Children) > 0 {
		marker = "▾ "
	} else if n.DirectReportCount > 0 {
		marker = "▸ "
	}
	name := nameStyle.Render(n.DisplayName())
	if n.Vacant() {
		name = vacantStyle.Render(n.DisplayName())
	}
	var fields []string
	for _, attr := range attrs {
		if attr == position.AttrEmployeeName {
			continue
		}
		if value := n.AttributeValue(attr, n.SupervisorName); value != "" {
			fields = append(fields, value)
		}
	}
	line := strings.Repeat("  ", row.depth) + marker + name
	if len(fields) > 0 {
		line += mutedStyle.Render(" · " + strings.Join(fields, " · "))
	}
	if n.TotalReportCount > 0 {
		line += mutedStyle.Render(fmt.Sprintf(" (%d/%d)", n.DirectReportCount, n.TotalReportCount))
	}
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}
