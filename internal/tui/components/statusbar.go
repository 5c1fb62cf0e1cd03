package components

import (
	"strings"

	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar: key hints on the left and
// dataset facts on the right, separated by " · ".
func RenderStatusBar(width int, hints string, facts ...string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := " " + hints
	var kept []string
	for _, f := range facts {
		if f != "" {
			kept = append(kept, f)
		}
	}
	right := strings.Join(kept, " · ") + " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Facts give way to hints on narrow terminals.
		right = ""
		padding = max(0, width-lipgloss.Width(left))
	}

	return style.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}
