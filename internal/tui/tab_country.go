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

func (a App) renderCountryTab(cw int) string {
	t := theme.Active

	if a.country == "" {
		hint := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render("No countries loaded. Press / to pick one once data is available.")
		return components.ContentCard("Country Analysis", hint, cw)
	}

	var b strings.Builder
	what := a.country
	if a.from != 0 || a.to != 0 {
		what += " in " + formatYearRange(a.from, a.to)
	}

	// Row 1: headline metrics
	if rep, ok := a.report(pipeline.ViewCountrySummary); ok {
		s := rep.Data.(model.CountrySummary)
		b.WriteString(components.MetricCardRow([]components.Metric{
			{Label: "Total Cases", Value: cli.FormatNumber(s.TotalCases), Note: s.Country},
			{Label: "Average Rate per 100k", Value: cli.FormatRate(s.AverageRate)},
			{Label: "Years Covered", Value: strconv.Itoa(s.YearsCovered)},
		}, cw))
	} else {
		b.WriteString(components.EmptyCard(pipeline.ViewCountrySummary.Title(), what, cw))
	}
	b.WriteString("\n")

	chartH := 10
	if a.isCompactLayout() {
		chartH = 7
	}

	// Row 2: cases per year
	b.WriteString(a.yearTotalsCard(pipeline.ViewCountryYearlyTrend, t.Accent, cw, chartH, what))
	b.WriteString("\n")

	// Row 3: sex and age proportions
	if a.isCompactLayout() {
		b.WriteString(a.sharesCard(pipeline.ViewCountryGender, what, cw) + "\n")
		b.WriteString(a.sharesCard(pipeline.ViewCountryAge, what, cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			a.sharesCard(pipeline.ViewCountryGender, what, halves[0]),
			a.sharesCard(pipeline.ViewCountryAge, what, halves[1]),
		}))
	}
	b.WriteString("\n")

	// Row 4: GDP per capita against rate
	b.WriteString(a.gdpCard(what, cw, chartH))

	return b.String()
}

// sharesCard renders a model.CategoryTotals view as proportion bars.
func (a App) sharesCard(v pipeline.View, what string, w int) string {
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), what, w)
	}
	totals := rep.Data.(model.CategoryTotals)

	t := theme.Active
	shares := make([]components.Share, len(totals))
	for i, c := range totals {
		color := t.Series(i)
		if v == pipeline.ViewCountryGender {
			color = t.SexColor(c.Category)
		}
		shares[i] = components.Share{Label: c.Category, Value: c.TotalCases, Color: color}
	}

	title := fmt.Sprintf("%s (%s cases)", v.Title(), cli.FormatNumber(totals.Sum()))
	return components.ContentCard(title, components.ShareBars(shares, components.CardInnerWidth(w)), w)
}

// gdpCard shows mean GDP per capita and mean rate per year side by side so
// the two series can be read against each other.
func (a App) gdpCard(what string, cw, h int) string {
	v := pipeline.ViewCountryGDP
	rep, ok := a.report(v)
	if !ok {
		return components.EmptyCard(v.Title(), what, cw)
	}
	years := rep.Data.([]model.YearGDPRate)

	gdp := make([]float64, len(years))
	rates := make([]float64, len(years))
	labels := make([]string, len(years))
	for i, y := range years {
		gdp[i] = y.AverageGDPPerCapita
		rates[i] = y.AverageRate
		labels[i] = strconv.Itoa(y.Year)
	}

	t := theme.Active
	first, last := years[0], years[len(years)-1]
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	summary := mutedStyle.Render("GDP/capita ") +
		valueStyle.Render(cli.FormatUSD(first.AverageGDPPerCapita)+" → "+cli.FormatUSD(last.AverageGDPPerCapita)) +
		mutedStyle.Render("   rate ") +
		valueStyle.Render(cli.FormatRate(first.AverageRate)+" → "+cli.FormatRate(last.AverageRate))

	if a.isCompactLayout() {
		body := components.BarChart(gdp, labels, t.Green, components.CardInnerWidth(cw), h) + "\n\n" +
			mutedStyle.Render("rate ") + components.Sparkline(rates, t.Orange) + "\n" + summary
		return components.ContentCard(v.Title(), body, cw)
	}

	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard("GDP per Capita ($)",
			components.BarChart(gdp, labels, t.Green, components.CardInnerWidth(halves[0]), h)+"\n"+summary,
			halves[0]),
		components.ContentCard("Average Rate per 100k",
			components.BarChart(rates, labels, t.Orange, components.CardInnerWidth(halves[1]), h),
			halves[1]),
	})
}
