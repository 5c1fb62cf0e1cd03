package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a loading bar with a percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)

	bar := progress.New(
		progress.WithGradient(string(t.Accent), string(t.AccentBright)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return bar.ViewAs(pct) + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// Share is one slice of a proportion breakdown.
type Share struct {
	Label string
	Value int64
	Color lipgloss.Color
}

// ShareBars renders each slice as a labelled bar of its share of the total,
// followed by a single stacked bar of all slices.
func ShareBars(shares []Share, width int) string {
	var total int64
	labelW := 0
	for _, s := range shares {
		total += s.Value
		labelW = max(labelW, lipgloss.Width(s.Label))
	}
	if total <= 0 {
		return ""
	}
	t := theme.Active
	labelW = min(labelW, width/3)
	barW := max(4, width-labelW-9)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(shares)+2)
	for _, s := range shares {
		pct := float64(s.Value) / float64(total)
		bar := progress.New(
			progress.WithSolidFill(string(s.Color)),
			progress.WithWidth(barW),
			progress.WithoutPercentage(),
		)
		bar.EmptyColor = string(t.Border)
		pctStyle := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Bold(true)

		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(s.Label, labelW)))+
				spaceStyle.Render(" ")+
				bar.ViewAs(pct)+
				spaceStyle.Render(" ")+
				pctStyle.Render(fmt.Sprintf("%5.1f%%", pct*100)))
	}

	lines = append(lines, "", stackedBar(shares, total, labelW+1+barW))
	return strings.Join(lines, "\n")
}

// stackedBar draws every slice end to end in its own color. Rounding error
// goes to the last slice so the bar is always exactly width cells.
func stackedBar(shares []Share, total int64, width int) string {
	var b strings.Builder
	used := 0
	for i, s := range shares {
		cells := int(float64(s.Value) / float64(total) * float64(width))
		if i == len(shares)-1 {
			cells = width - used
		}
		cells = max(0, min(cells, width-used))
		used += cells
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(theme.Active.Surface).
			Render(strings.Repeat("█", cells)))
	}
	return b.String()
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
