package components

import (
	"strings"

	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs lists the dashboard pages in display order.
var Tabs = []Tab{
	{Name: "Home", Key: 'h', KeyPos: 0},
	{Name: "Global Trends", Key: 'g', KeyPos: 0},
	{Name: "Country Analysis", Key: 'c', KeyPos: 0},
}

func tabStyles() (active, inactive, key, dimKey lipgloss.Style) {
	t := theme.Active
	active = lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)
	inactive = lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)
	key = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	dimKey = lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)
	return active, inactive, key, dimKey
}

func renderTab(tab Tab, active bool) string {
	activeStyle, inactiveStyle, keyStyle, dimKeyStyle := tabStyles()
	if active {
		return activeStyle.Render(tab.Name)
	}

	pad := inactiveStyle.Render(" ")
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return pad +
			inactiveStyle.Render(tab.Name[:tab.KeyPos]) +
			dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Name[tab.KeyPos])) + dimKeyStyle.Render("]") +
			inactiveStyle.Render(tab.Name[tab.KeyPos+1:]) +
			pad
	}
	return pad + inactiveStyle.Render(tab.Name) +
		dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]") + pad
}

// TabVisualWidth returns the rendered width of a tab, matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders the tab bar with the given active index, one column
// between tabs, filled to width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		parts[i] = renderTab(tab, i == activeIdx)
	}
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	return lipgloss.NewStyle().
		Background(t.Surface).
		Width(width).
		Render(strings.Join(parts, sep))
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
