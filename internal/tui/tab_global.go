package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
	"github.com/theirongolddev/sdash/internal/tui/components"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderGlobalTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: headline metrics
	if rep, ok := a.report(pipeline.ViewGlobalSummary); ok {
		s := rep.Data.(model.GlobalSummary)
		b.WriteString(components.MetricCardRow([]components.Metric{
			{Label: "Total Cases", Value: cli.FormatNumber(s.TotalCases)},
			{Label: "Average Rate per 100k", Value: cli.FormatRate(s.AverageRate)},
			{Label: "Countries Covered", Value: cli.FormatNumber(int64(s.CountryCount))},
		}, cw))
	} else {
		b.WriteString(components.EmptyCard(pipeline.ViewGlobalSummary.Title(), "the selected years", cw))
	}
	b.WriteString("\n")

	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}

	// Row 2: cases per year
	b.WriteString(a.yearTotalsCard(pipeline.ViewYearlyTrend, t.Accent, cw, chartH, "the selected years"))
	b.WriteString("\n")

	// Row 3: cases per year by sex, one chart per sex
	b.WriteString(a.yearSexCards(cw, chartH))
	b.WriteString("\n")

	// Rows 4-5: age groups and income tiers, then HDI scatter and top countries
	if a.isCompactLayout() {
		b.WriteString(a.categoryRateCard(pipeline.ViewAgeGroups, t.Orange, cw) + "\n")
		b.WriteString(a.categoryRateCard(pipeline.ViewIncome, t.Green, cw) + "\n")
		b.WriteString(a.hdiCard(cw, chartH) + "\n")
		b.WriteString(a.topCountriesCard(cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.categoryRateCard(pipeline.ViewAgeGroups, t.Orange, halves[0]),
		a.categoryRateCard(pipeline.ViewIncome, t.Green, halves[1]),
	}))
	b.WriteString("\n")
	b.WriteString(components.CardRow([]string{
		a.hdiCard(halves[0], chartH),
		a.topCountriesCard(halves[1]),
	}))

	return b.String()
}

// yearTotalsCard charts a []model.YearTotals view as bars per year with the
// mean rate as a sparkline underneath.
func (a App) yearTotalsCard(v pipeline.View, color lipgloss.Color, w, h int, what string) string {
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), what, w)
	}
	years := rep.Data.([]model.YearTotals)

	values := make([]float64, len(years))
	rates := make([]float64, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		values[i] = float64(y.TotalCases)
		rates[i] = y.AverageRate
		labels[i] = strconv.Itoa(y.Year)
	}

	t := theme.Active
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	inner := components.CardInnerWidth(w)

	body := components.BarChart(values, labels, color, inner, h) + "\n\n" +
		mutedStyle.Render("avg rate ") + components.Sparkline(rates, t.Orange)

	title := fmt.Sprintf("%s (%s)", v.Title(), cli.FormatYearRange(years[0].Year, years[len(years)-1].Year))
	return components.ContentCard(title, body, w)
}

func (a App) yearSexCards(cw, h int) string {
	v := pipeline.ViewYearlyTrendBySex
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), "the selected years", cw)
	}
	totals := rep.Data.([]model.YearSexTotal)

	// Split the long-form series into one series per sex, in first-seen order.
	var sexes []string
	series := make(map[string][]float64)
	labels := make(map[string][]string)
	for _, ts := range totals {
		if _, seen := series[ts.Sex]; !seen {
			sexes = append(sexes, ts.Sex)
		}
		series[ts.Sex] = append(series[ts.Sex], float64(ts.TotalCases))
		labels[ts.Sex] = append(labels[ts.Sex], strconv.Itoa(ts.Year))
	}

	t := theme.Active
	if a.isCompactLayout() || len(sexes) > 2 {
		var b strings.Builder
		for i, sex := range sexes {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(components.ContentCard(v.Title()+": "+sex,
				components.BarChart(series[sex], labels[sex], t.SexColor(sex), components.CardInnerWidth(cw), h), cw))
		}
		return b.String()
	}

	widths := components.LayoutRow(cw, len(sexes))
	cards := make([]string, len(sexes))
	for i, sex := range sexes {
		cards[i] = components.ContentCard(v.Title()+": "+sex,
			components.BarChart(series[sex], labels[sex], t.SexColor(sex), components.CardInnerWidth(widths[i]), h),
			widths[i])
	}
	return components.CardRow(cards)
}

func (a App) categoryRateCard(v pipeline.View, color lipgloss.Color, w int) string {
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), "the selected years", w)
	}
	rates := rep.Data.([]model.CategoryRate)

	bars := make([]components.HBar, len(rates))
	for i, r := range rates {
		bars[i] = components.HBar{Label: r.Category, Value: r.AverageRate, Text: cli.FormatRate(r.AverageRate)}
	}
	return components.ContentCard(v.Title(), components.HBarChart(bars, color, components.CardInnerWidth(w)), w)
}

func (a App) hdiCard(w, h int) string {
	v := pipeline.ViewRateVsHDI
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), "rows with an HDI value", w)
	}
	points := rep.Data.([]model.HDIPoint)

	pts := make([]components.Point, len(points))
	for i, p := range points {
		pts[i] = components.Point{X: p.HDI, Y: p.Rate}
	}

	t := theme.Active
	title := fmt.Sprintf("%s (%s points)", v.Title(), cli.FormatNumber(int64(len(points))))
	body := components.ScatterPlot(pts, t.Cyan, components.CardInnerWidth(w), h)
	return components.ContentCard(title, body, w)
}

func (a App) topCountriesCard(w int) string {
	v := pipeline.ViewTopCountries
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), "the selected years", w)
	}
	top := rep.Data.([]model.CountryTotal)

	bars := make([]components.HBar, len(top))
	for i, c := range top {
		bars[i] = components.HBar{
			Label: fmt.Sprintf("%2d. %s", i+1, c.Country),
			Value: float64(c.TotalCases),
			Text:  cli.FormatNumber(c.TotalCases),
		}
	}
	title := fmt.Sprintf("Top %d Countries by Cases", len(top))
	return components.ContentCard(title, components.HBarChart(bars, theme.Active.Red, components.CardInnerWidth(w)), w)
}
