package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/sdash/internal/tui/theme"
)

// styles are derived from the active theme on every render so the
// appearance.theme setting applies to plain CLI output too.
type styles struct {
	title, header, value, muted, rate, count, warn, dim lipgloss.Style
}

func currentStyles() styles {
	t := theme.Active
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Align(lipgloss.Center),
		header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		value:  lipgloss.NewStyle().Foreground(t.TextPrimary),
		muted:  lipgloss.NewStyle().Foreground(t.TextMuted),
		rate:   lipgloss.NewStyle().Foreground(t.Orange),
		count:  lipgloss.NewStyle().Foreground(t.Blue),
		warn:   lipgloss.NewStyle().Foreground(t.Red),
		dim:    lipgloss.NewStyle().Foreground(t.TextDim),
	}
}

// separatorRow is a Table row that renders as a horizontal rule.
var separatorRow = []string{"---"}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	st := currentStyles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return box.Render(st.title.Render(title))
}

// RenderTable renders a bordered table with headers and rows. Columns whose
// cells are all numeric are right-aligned.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 {
		for _, row := range t.Rows {
			numCols = max(numCols, len(row))
		}
	}

	widths := columnWidths(t, numCols)
	right := numericColumns(t.Rows, numCols)
	st := currentStyles()

	rule := func(left, mid, end string) string {
		parts := make([]string, numCols)
		for i, w := range widths {
			parts[i] = strings.Repeat("─", w+2)
		}
		return st.dim.Render(left+strings.Join(parts, mid)+end) + "\n"
	}
	line := func(cells []string, style lipgloss.Style, align []bool) string {
		var b strings.Builder
		b.WriteString(st.dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], align[i]) + " "))
			b.WriteString(st.dim.Render("│"))
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(st.header.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(line(t.Headers, st.header, right))
		b.WriteString(rule("├", "┼", "┤"))
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}
		b.WriteString(line(row, st.value, right))
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

func columnWidths(t Table, numCols int) []int {
	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
		return widths
	}
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	return widths
}

// numericColumns reports, per column, whether every non-empty cell reads as
// a number ("1,209,742", "$4,120", "12.5%", "-").
func numericColumns(rows [][]string, numCols int) []bool {
	right := make([]bool, numCols)
	seen := make([]bool, numCols)
	for i := range right {
		right[i] = true
	}
	for _, row := range rows {
		if isSeparator(row) {
			continue
		}
		for i, cell := range row {
			if i >= numCols || cell == "" {
				continue
			}
			seen[i] = true
			if !looksNumeric(cell) {
				right[i] = false
			}
		}
	}
	for i := range right {
		right[i] = right[i] && seen[i]
	}
	return right
}

func looksNumeric(s string) bool {
	if s == "-" {
		return true
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(",.$%-+kMB ", r):
		default:
			return false
		}
	}
	return digits > 0
}

func isSeparator(row []string) bool {
	return len(row) == 1 && row[0] == separatorRow[0]
}

// pad pads s to w display cells.
func pad(s string, w int, right bool) string {
	gap := w - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return b.String()
}

// RenderHorizontalBar renders a labelled horizontal bar chart entry.
// labelWidth pads the label so consecutive bars line up.
func RenderHorizontalBar(label string, value, maxValue float64, labelWidth, maxWidth int, valueText string) string {
	st := currentStyles()
	padded := pad(label, labelWidth, false)
	if maxValue <= 0 {
		return fmt.Sprintf("  %s  %s", padded, valueText)
	}
	barLen := min(max(int(value/maxValue*float64(maxWidth)), 0), maxWidth)
	bar := st.count.Render(strings.Repeat("█", barLen)) +
		st.dim.Render(strings.Repeat("·", maxWidth-barLen))
	return fmt.Sprintf("  %s  %s %s", padded, bar, valueText)
}

// RenderNoData renders the placeholder shown for an empty view.
func RenderNoData(what string) string {
	st := currentStyles()
	return "  " + st.warn.Render("No data") + st.muted.Render(" for "+what) + "\n"
}
