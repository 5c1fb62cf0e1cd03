package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// BarChart renders a vertical bar chart with a labelled Y axis. When there
// are more values than columns, values are sampled evenly so the first and
// last bars are always shown.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	maxVal := 0.0
	for _, v := range values {
		maxVal = math.Max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := chartTickStep(maxVal)
	for math.Ceil(maxVal/step) > float64(max(2, height/2)) {
		step *= 2
	}
	ceiling := math.Ceil(maxVal/step) * step
	intervals := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	ticks := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		ticks[i*rowsPerTick] = formatChartLabel(step * float64(i))
	}

	chartW := max(5, width-yLabelW-1)
	n := len(values)
	if maxBars := (chartW + 1) / 2; n > maxBars {
		values, labels = sampleSeries(values, labels, maxBars)
		n = maxBars
	}
	gap := 1
	if n == 1 {
		gap = 0
	}
	barW := min(6, max(1, (chartW-(n-1)*gap)/n))
	axisLen := n*barW + (n-1)*gap

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		barColor := color
		if float64(row)/float64(chartH) > 0.8 {
			barColor = t.AccentBright
		}
		barStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, ticks[row])))
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			switch {
			case v >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(barStyle.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))

	if len(labels) == n {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(xAxisLabels(labels, barW+gap, axisLen)))
	}
	return b.String()
}

// sampleSeries picks n evenly spaced points, keeping the first and last.
func sampleSeries(values []float64, labels []string, n int) ([]float64, []string) {
	src := len(values)
	sampled := make([]float64, n)
	var sampledLabels []string
	if len(labels) == src {
		sampledLabels = make([]string, n)
	}
	for i := range sampled {
		idx := i * (src - 1) / max(1, n-1)
		sampled[i] = values[idx]
		if sampledLabels != nil {
			sampledLabels[i] = labels[idx]
		}
	}
	return sampled, sampledLabels
}

// xAxisLabels lays labels under their bars, skipping any that would overlap
// the previous one. The last label is always placed.
func xAxisLabels(labels []string, pitch, axisLen int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	lastEnd := -1
	place := func(pos int, lbl string) {
		if pos+len(lbl) > axisLen {
			pos = axisLen - len(lbl)
		}
		if pos < 0 || pos <= lastEnd {
			return
		}
		copy(buf[pos:], lbl)
		lastEnd = pos + len(lbl)
	}
	for i := 0; i < len(labels)-1; i++ {
		place(i*pitch, labels[i])
	}
	if n := len(labels); n > 0 {
		// The last label wins over whatever sits in its way.
		pos := max(0, min((n-1)*pitch, axisLen-len(labels[n-1])))
		if pos > 0 {
			for j := pos - 1; j >= 0 && buf[j] != ' '; j-- {
				buf[j] = ' '
			}
		}
		for j := pos; j < axisLen; j++ {
			buf[j] = ' '
		}
		copy(buf[pos:], labels[n-1])
	}
	return strings.TrimRight(string(buf), " ")
}

// HBar is one labelled row of a horizontal bar chart.
type HBar struct {
	Label string
	Value float64
	Text  string // rendered after the bar; defaults to the formatted value
}

// HBarChart renders one horizontal bar per row, scaled to the largest value.
func HBarChart(bars []HBar, color lipgloss.Color, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	maxVal := 0.0
	texts := make([]string, len(bars))
	for i, bar := range bars {
		texts[i] = bar.Text
		if texts[i] == "" {
			texts[i] = formatChartLabel(bar.Value)
		}
		labelW = max(labelW, lipgloss.Width(bar.Label))
		textW = max(textW, lipgloss.Width(texts[i]))
		maxVal = math.Max(maxVal, bar.Value)
	}
	labelW = min(labelW, width/3)
	barMax := max(4, width-labelW-textW-3)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	trackStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(bars))
	for i, bar := range bars {
		filled := 0
		if maxVal > 0 {
			filled = int(math.Round(bar.Value / maxVal * float64(barMax)))
		}
		filled = max(0, min(filled, barMax))
		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(bar.Label, labelW)))+
				blank.Render(" ")+
				barStyle.Render(strings.Repeat("█", filled))+
				trackStyle.Render(strings.Repeat("·", barMax-filled))+
				blank.Render(" ")+
				textStyle.Render(fmt.Sprintf("%*s", textW, texts[i])))
	}
	return strings.Join(lines, "\n")
}

// Point is one (x, y) sample of a ScatterPlot.
type Point struct {
	X, Y float64
}

// ScatterPlot renders points on a width x height character grid. Cells hit
// by more points get denser glyphs.
func ScatterPlot(points []Point, color lipgloss.Color, width, height int) string {
	if len(points) == 0 || width < 10 || height < 3 {
		return ""
	}
	t := theme.Active

	minX, maxX := points[0].X, points[0].X
	maxY := points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY <= 0 {
		maxY = 1
	}

	yLabelW := max(4, len(formatChartLabel(maxY))+1)
	plotW := max(5, width-yLabelW-1)

	grid := make([][]int, height)
	for i := range grid {
		grid[i] = make([]int, plotW)
	}
	for _, p := range points {
		col := int((p.X - minX) / (maxX - minX) * float64(plotW-1))
		row := int(math.Max(p.Y, 0) / maxY * float64(height-1))
		grid[height-1-row][col]++
	}

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	dotStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	glyphs := []rune{' ', '·', '•', '●'}

	var b strings.Builder
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = formatChartLabel(maxY)
		case height - 1:
			label = "0"
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		var row strings.Builder
		for _, hits := range cells {
			g := 3
			switch {
			case hits == 0:
				g = 0
			case hits < 3:
				g = 1
			case hits < 10:
				g = 2
			}
			row.WriteRune(glyphs[g])
		}
		b.WriteString(dotStyle.Render(row.String()))
		b.WriteString("\n")
	}
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "", strings.Repeat("─", plotW))))
	b.WriteString("\n")

	lo, hi := fmt.Sprintf("%.2f", minX), fmt.Sprintf("%.2f", maxX)
	pad := max(1, plotW-len(lo)-len(hi))
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s %s%s%s", yLabelW, "", lo, strings.Repeat(" ", pad), hi)))
	return b.String()
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v >= u.div {
			if v == math.Trunc(v/u.div)*u.div {
				return fmt.Sprintf("%.0f%s", v/u.div, u.suffix)
			}
			return fmt.Sprintf("%.1f%s", v/u.div, u.suffix)
		}
	}
	if v >= 1 || v == 0 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
