package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/orgweaver/internal/advisor"
	"github.com/kingrea/orgweaver/internal/position"
)

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
	return box
}

func (a *App) renderStatusBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ ORGWEAVER")
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(mainContent)
	var body string
	if rightWidth > 0 {
		right := a.renderSidePanel(rightWidth - 4)
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(right)
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer, a.help.View(a.keys))
	return strings.Join(sections, "\n")
}

func (a *App) renderSidePanel(width int) string {
	sections := []string{
		a.renderDetails(width),
		a.renderStats(),
		a.renderSummary(width),
	}
	if recs := a.renderRecommendations(width); recs != "" {
		sections = append(sections, recs)
	}
	return strings.Join(sections, "\n\n")
}

func (a *App) renderDetails(width int) string {
	node, ok := a.cursorNode()
	if !ok {
		return titleStyle.Render("POSITION") + "\n" + mutedStyle.Render("Nothing selected")
	}
	lines := []string{titleStyle.Render("POSITION")}
	for _, attr := range allAttributes {
		value := node.AttributeValue(attr, node.SupervisorName)
		if value == "" {
			continue
		}
		label := mutedStyle.Render(fmt.Sprintf("%-18s", position.AttributeLabels[attr]))
		lines = append(lines, label+value)
	}
	lines = append(lines,
		mutedStyle.Render(fmt.Sprintf("%-18s", "Level"))+fmt.Sprintf("%d", node.Level),
		mutedStyle.Render(fmt.Sprintf("%-18s", "Reports"))+fmt.Sprintf("%d direct · %d total", node.DirectReportCount, node.TotalReportCount),
	)
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
}

func (a *App) renderStats() string {
	stats := a.session.Stats()
	lines := []string{
		titleStyle.Render("ORGANISATION"),
		fmt.Sprintf("%d positions · %d vacant", stats.Positions, stats.Vacancies),
		fmt.Sprintf("Total cost %s", position.FormatCost(stats.TotalCost)),
		fmt.Sprintf("%d jobs · max span %d", len(stats.JobsCovered), stats.MaxSpan),
	}
	if stats.DanglingLinks > 0 {
		lines = append(lines, vacantStyle.Render(fmt.Sprintf("%d supervisor links point nowhere", stats.DanglingLinks)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSummary(width int) string {
	head := titleStyle.Render("IMPACT SUMMARY")
	if a.summary.Loading() {
		return head + "\n" + a.spinner.View() + " Generating summary..."
	}
	if err := a.summary.Err(); err != nil {
		return head + "\n" + mutedStyle.Render(advisorErrorText(err))
	}
	summary, ok := a.summary.Value()
	if !ok {
		return head + "\n" + mutedStyle.Render("Press s to summarise")
	}
	lines := []string{head, wrap(summary.Summary, width)}
	lines = append(lines, fmt.Sprintf("Cost change %s", signedCost(summary.CostChange)))
	if len(summary.JobsAdded) > 0 {
		lines = append(lines, wrap("Jobs added: "+strings.Join(summary.JobsAdded, ", "), width))
	}
	if len(summary.JobsRemoved) > 0 {
		lines = append(lines, wrap("Jobs removed: "+strings.Join(summary.JobsRemoved, ", "), width))
	}
	if len(summary.JobsCovered) > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d jobs covered", len(summary.JobsCovered))))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderRecommendations(width int) string {
	head := titleStyle.Render("RECOMMENDATIONS")
	if a.recs.Loading() {
		return head + "\n" + a.spinner.View() + " Analysing structure..."
	}
	if err := a.recs.Err(); err != nil {
		return head + "\n" + mutedStyle.Render(advisorErrorText(err))
	}
	recs, ok := a.recs.Value()
	if !ok {
		return ""
	}
	lines := []string{head}
	if recs.Summary != "" {
		lines = append(lines, wrap(recs.Summary, width))
	}
	for i, rec := range recs.Recommendations {
		lines = append(lines,
			nameStyle.Render(fmt.Sprintf("%d. %s", i+1, rec.Area)),
			wrap(rec.Optimization, width),
			mutedStyle.Render(wrap("Impact: "+rec.PotentialImpact, width)),
		)
	}
	return strings.Join(lines, "\n")
}

func advisorErrorText(err error) string {
	if errors.Is(err, advisor.ErrUnavailable) {
		return "Advisor offline · set an API key to enable"
	}
	return fmt.Sprintf("Unavailable: %v", err)
}

func signedCost(value float64) string {
	if value > 0 {
		return "+" + position.FormatCost(value)
	}
	return position.FormatCost(value)
}

func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
