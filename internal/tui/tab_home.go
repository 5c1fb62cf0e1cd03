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

// previewRows is how many records the Home page lists.
const previewRows = 15

var columnDescriptions = []struct{ name, desc string }{
	{"country", "Country where the data was collected"},
	{"year", "Year of observation"},
	{"sex", "male or female"},
	{"age", "Age group, e.g. \"15-24 years\""},
	{"suicides_no", "Suicides recorded for the country, year, sex and age group"},
	{"population", "Population of that same group"},
	{"suicides/100k pop", "Suicide rate per 100,000 people"},
	{"HDI for year", "Human Development Index, 0 to 1; often missing"},
	{"gdp_per_capita ($)", "GDP per person in US dollars"},
	{"income_category", "Income tier derived from GDP per capita"},
	{"generation", "Generation label, e.g. \"Generation X\""},
}

func (a App) renderHomeTab(cw int) string {
	var b strings.Builder

	rep, ok := a.report(pipeline.ViewOverview)
	if !ok {
		b.WriteString(components.EmptyCard(pipeline.ViewOverview.Title(), "the selected years", cw))
		return b.String()
	}
	ov := rep.Data.(model.DatasetOverview)

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Rows", Value: cli.FormatNumber(int64(ov.Rows))},
		{Label: "Countries", Value: cli.FormatNumber(int64(ov.Countries))},
		{Label: "Years", Value: cli.FormatYearRange(ov.FirstYear, ov.LastYear)},
		{Label: "Rows without HDI", Value: cli.FormatNumber(int64(ov.MissingHDI)), Note: cli.FormatShare(int64(ov.MissingHDI), int64(ov.Rows))},
	}, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard(
		fmt.Sprintf("Records (first %d of %s)", min(previewRows, len(a.records)), cli.FormatNumber(int64(len(a.records)))),
		renderRecordTable(a.records, components.CardInnerWidth(cw), previewRows),
		cw,
	))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Columns", renderColumnList(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Load", a.renderLoadStats(ov), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Columns", renderColumnList(components.CardInnerWidth(halves[0])), halves[0]),
			components.ContentCard("Load", a.renderLoadStats(ov), halves[1]),
		}))
	}
	return b.String()
}

func renderColumnList(width int) string {
	t := theme.Active
	nameStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := 0
	for _, c := range columnDescriptions {
		nameW = max(nameW, len(c.name))
	}
	descW := max(10, width-nameW-2)

	lines := make([]string, 0, len(columnDescriptions))
	for _, c := range columnDescriptions {
		lines = append(lines, nameStyle.Render(fmt.Sprintf("%-*s", nameW, c.name))+
			descStyle.Render("  "+truncStr(c.desc, descW)))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderLoadStats(ov model.DatasetOverview) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	rows := []struct{ label, value string }{
		{"Source", a.opts.DataPath},
		{"Files", fmt.Sprintf("%d (%d from cache)", a.stats.files, a.stats.cacheHits)},
		{"Rows read", cli.FormatNumber(int64(a.stats.rows))},
		{"Rejected", cli.FormatNumber(int64(a.stats.rejected))},
		{"Duplicates", cli.FormatNumber(int64(a.stats.duplicates))},
		{"Age groups", strconv.Itoa(len(ov.AgeGroups))},
		{"Generations", strings.Join(ov.Generations, ", ")},
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", r.label)))
		b.WriteString(valueStyle.Render(r.value))
	}
	for _, w := range a.stats.warnings {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render("! "))
		b.WriteString(dimStyle.Render(w))
	}
	return b.String()
}

// renderRecordTable lists up to limit records, dropping trailing columns
// that do not fit in width.
func renderRecordTable(records []model.Record, width, limit int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	type column struct {
		title string
		width int
		right bool
		cell  func(model.Record) string
	}
	columns := []column{
		{"Country", 22, false, func(r model.Record) string { return r.Country }},
		{"Year", 4, true, func(r model.Record) string { return strconv.Itoa(r.Year) }},
		{"Sex", 6, false, func(r model.Record) string { return r.Sex }},
		{"Age", 11, false, func(r model.Record) string { return r.AgeGroup }},
		{"Cases", 8, true, func(r model.Record) string { return cli.FormatNumber(r.SuicideCount) }},
		{"Population", 11, true, func(r model.Record) string { return cli.FormatNumber(r.Population) }},
		{"/100k", 6, true, func(r model.Record) string { return cli.FormatRate(r.RatePer100k) }},
		{"HDI", 5, true, func(r model.Record) string {
			if r.HDIForYear == nil {
				return "-"
			}
			return cli.FormatHDI(*r.HDIForYear)
		}},
		{"GDP/cap", 8, true, func(r model.Record) string { return cli.FormatUSD(r.GDPPerCapita) }},
		{"Income", 19, false, func(r model.Record) string { return r.IncomeCategory }},
		{"Generation", 15, false, func(r model.Record) string { return r.Generation }},
	}

	used := 0
	n := 0
	for _, c := range columns {
		if used+c.width+2 > width && n > 0 {
			break
		}
		used += c.width + 2
		n++
	}
	columns = columns[:n]

	format := func(c column, s string) string {
		s = truncStr(s, c.width)
		if c.right {
			return fmt.Sprintf("%*s  ", c.width, s)
		}
		return fmt.Sprintf("%-*s  ", c.width, s)
	}

	var b strings.Builder
	for _, c := range columns {
		b.WriteString(headerStyle.Render(format(c, c.title)))
	}
	for i, r := range records {
		if i >= limit {
			break
		}
		b.WriteString("\n")
		for _, c := range columns {
			b.WriteString(cellStyle.Render(format(c, c.cell(r))))
		}
	}
	return b.String()
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
