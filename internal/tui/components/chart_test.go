package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/sdash/internal/tui/theme"
)

func TestSparkline(t *testing.T) {
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Error("empty sparkline should render nothing")
	}
	out := Sparkline([]float64{0, 1, 2, 4}, theme.Active.Accent)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("sparkline = %q", out)
	}
}

func TestBarChartShowsFirstAndLastLabel(t *testing.T) {
	values := make([]float64, 32)
	labels := make([]string, 32)
	for i := range values {
		values[i] = float64(i * 1000)
		labels[i] = string(rune('A'+i%26)) + "y"
	}
	labels[0], labels[31] = "1985", "2016"

	out := BarChart(values, labels, theme.Active.Accent, 60, 8)
	last := strings.Split(out, "\n")
	axis := last[len(last)-1]
	if !strings.Contains(axis, "1985") || !strings.Contains(axis, "2016") {
		t.Errorf("x axis = %q, want first and last labels", axis)
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("line %d is %d wide, want <= 60", i, w)
		}
	}
}

func TestBarChartNarrowFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, theme.Active.Accent, 10, 8)
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a one-line sparkline, got %q", out)
	}
}

func TestHBarChartScalesToLargest(t *testing.T) {
	out := HBarChart([]HBar{
		{Label: "75+ years", Value: 20, Text: "20.00"},
		{Label: "5-14 years", Value: 0},
	}, theme.Active.Accent, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "20.00") || strings.Contains(lines[0], "·") {
		t.Errorf("largest bar should be full: %q", lines[0])
	}
	if strings.Contains(lines[1], "█") {
		t.Errorf("zero bar should be empty: %q", lines[1])
	}
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Error("rows should share a width")
	}
}

func TestScatterPlot(t *testing.T) {
	if ScatterPlot(nil, theme.Active.Accent, 40, 10) != "" {
		t.Error("no points should render nothing")
	}
	out := ScatterPlot([]Point{{0.5, 10}, {0.9, 2}, {0.9, 2}}, theme.Active.Accent, 40, 10)
	if !strings.Contains(out, "0.50") || !strings.Contains(out, "0.90") {
		t.Errorf("scatter x range missing:\n%s", out)
	}
	if !strings.Contains(out, "·") {
		t.Errorf("scatter has no points:\n%s", out)
	}
}

func TestShareBars(t *testing.T) {
	out := ShareBars([]Share{
		{Label: "female", Value: 25, Color: theme.Active.Magenta},
		{Label: "male", Value: 75, Color: theme.Active.Blue},
	}, 50)
	if !strings.Contains(out, "25.0%") || !strings.Contains(out, "75.0%") {
		t.Errorf("shares missing:\n%s", out)
	}
	if ShareBars([]Share{{Label: "x"}}, 50) != "" {
		t.Error("zero total should render nothing")
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		0.25:    "0.25",
		40:      "40",
		2000:    "2k",
		2500:    "2.5k",
		3000000: "3M",
	}
	for in, want := range cases {
		if got := formatChartLabel(in); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if TabIdxByKey('g') != 1 || TabIdxByKey('c') != 2 || TabIdxByKey('z') != -1 {
		t.Error("tab keys do not resolve")
	}
}

func TestStatusBarWidth(t *testing.T) {
	out := RenderStatusBar(80, "[?]help  [q]uit", "27,820 rows", "", "loaded in 0.4s")
	if lipgloss.Width(out) != 80 {
		t.Errorf("status bar width = %d, want 80", lipgloss.Width(out))
	}
	if !strings.Contains(out, "27,820 rows · loaded in 0.4s") {
		t.Errorf("status bar = %q", out)
	}
}
