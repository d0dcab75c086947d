package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/cc-convo/internal/scan"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: sessions with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.filtered) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, s := range m.filtered {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLines(s, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatSessionLines formats a session as two lines:
//
//	line 1: [>] MM-DD shortid project
//	line 2:     path (dimmed)
func formatSessionLines(s scan.Session, width int, selected bool) []string {
	date := s.ModifiedISO
	if len(date) >= 10 {
		date = date[5:10] // MM-DD
	}

	project := s.Project
	projectMax := width - 2 - 6 - 9 - 2 // prefix + date + short id + padding
	if projectMax < 0 {
		projectMax = 0
	}
	if runewidth.StringWidth(project) > projectMax {
		project = runewidth.Truncate(project, projectMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", date, s.ShortID, styleProject.Render(project))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	path := s.Path
	pathMax := width - 4
	if pathMax < 0 {
		pathMax = 0
	}
	if runewidth.StringWidth(path) > pathMax {
		path = runewidth.Truncate(path, pathMax, "")
	}
	line2 := "    " + styleDim.Render(path)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
