package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

const barWidth = 30

// RenderReport renders a built view as terminal text: a table plus a
// sparkline or bars where the view has a natural chart shape.
func RenderReport(rep pipeline.Report) string {
	title := rep.Title
	if rep.Country != "" {
		title += "  " + rep.Country
	}
	if rep.Empty {
		what := strings.ToLower(rep.Title)
		if rep.Country != "" {
			what += " in " + rep.Country
		}
		return RenderNoData(what)
	}

	switch d := rep.Data.(type) {
	case model.DatasetOverview:
		return renderOverview(title, d)
	case model.GlobalSummary:
		return renderGlobalSummary(title, d)
	case model.CountrySummary:
		return renderCountrySummary(title, d)
	case []model.YearTotals:
		return renderYearTotals(title, d)
	case []model.YearSexTotal:
		return renderYearSex(title, d)
	case []model.CategoryRate:
		return renderCategoryRates(title, d)
	case []model.HDIPoint:
		return renderHDI(title, d)
	case []model.CountryTotal:
		return renderCountryTotals(title, d)
	case model.CategoryTotals:
		return renderCategoryTotals(title, d)
	case []model.YearGDPRate:
		return renderGDP(title, d)
	}
	return fmt.Sprintf("  %s: %v\n", title, rep.Data)
}

func renderOverview(title string, ov model.DatasetOverview) string {
	rows := [][]string{
		{"Rows", FormatNumber(int64(ov.Rows))},
		{"Countries", FormatNumber(int64(ov.Countries))},
		{"Years", FormatYearRange(ov.FirstYear, ov.LastYear)},
		{"Rows without HDI", fmt.Sprintf("%s (%s)", FormatNumber(int64(ov.MissingHDI)), FormatShare(int64(ov.MissingHDI), int64(ov.Rows)))},
		separatorRow,
		{"Age groups", strings.Join(ov.AgeGroups, ", ")},
		{"Generations", strings.Join(ov.Generations, ", ")},
	}
	return RenderTable(Table{Title: title, Headers: []string{"Field", "Value"}, Rows: rows})
}

func renderGlobalSummary(title string, s model.GlobalSummary) string {
	rows := [][]string{
		{"Total cases", FormatNumber(s.TotalCases)},
		{"Average rate /100k", FormatRate(s.AverageRate)},
		{"Countries", FormatNumber(int64(s.CountryCount))},
		{"Rows", FormatNumber(int64(s.Rows))},
	}
	return RenderTable(Table{Title: title, Headers: []string{"Metric", "Value"}, Rows: rows})
}

func renderCountrySummary(title string, s model.CountrySummary) string {
	rows := [][]string{
		{"Total cases", FormatNumber(s.TotalCases)},
		{"Average rate /100k", FormatRate(s.AverageRate)},
		{"Years covered", strconv.Itoa(s.YearsCovered)},
		{"Rows", FormatNumber(int64(s.Rows))},
	}
	return RenderTable(Table{Title: title, Headers: []string{"Metric", "Value"}, Rows: rows})
}

func renderYearTotals(title string, years []model.YearTotals) string {
	rows := make([][]string, 0, len(years))
	cases := make([]float64, 0, len(years))
	for _, y := range years {
		rows = append(rows, []string{strconv.Itoa(y.Year), FormatNumber(y.TotalCases), FormatRate(y.AverageRate)})
		cases = append(cases, float64(y.TotalCases))
	}

	st := currentStyles()
	var b strings.Builder
	b.WriteString(RenderTable(Table{Title: title, Headers: []string{"Year", "Cases", "Avg rate"}, Rows: rows}))
	b.WriteString("  ")
	b.WriteString(st.count.Render(RenderSparkline(cases)))
	b.WriteString(st.muted.Render(fmt.Sprintf("  %s", FormatYearRange(years[0].Year, years[len(years)-1].Year))))
	b.WriteString("\n")
	return b.String()
}

func renderYearSex(title string, totals []model.YearSexTotal) string {
	// Pivot into one row per year with a column per sex.
	var sexes []string
	seenSex := make(map[string]bool)
	var years []int
	byYear := make(map[int]map[string]int64)
	for _, t := range totals {
		if !seenSex[t.Sex] {
			seenSex[t.Sex] = true
			sexes = append(sexes, t.Sex)
		}
		if _, ok := byYear[t.Year]; !ok {
			byYear[t.Year] = make(map[string]int64)
			years = append(years, t.Year)
		}
		byYear[t.Year][t.Sex] = t.TotalCases
	}

	headers := append([]string{"Year"}, sexes...)
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		row := []string{strconv.Itoa(y)}
		for _, s := range sexes {
			row = append(row, FormatNumber(byYear[y][s]))
		}
		rows = append(rows, row)
	}
	return RenderTable(Table{Title: title, Headers: headers, Rows: rows})
}

func renderCategoryRates(title string, rates []model.CategoryRate) string {
	var maxRate float64
	labelWidth := 0
	for _, r := range rates {
		if r.AverageRate > maxRate {
			maxRate = r.AverageRate
		}
		labelWidth = max(labelWidth, lipgloss.Width(r.Category))
	}

	st := currentStyles()
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(st.header.Render(title))
	b.WriteString("\n")
	for _, r := range rates {
		b.WriteString(RenderHorizontalBar(r.Category, r.AverageRate, maxRate, labelWidth, barWidth, st.rate.Render(FormatRate(r.AverageRate))))
		b.WriteString("\n")
	}
	return b.String()
}

func renderHDI(title string, points []model.HDIPoint) string {
	// A full scatter does not fit a terminal; bucket by HDI tenth instead.
	type bucket struct {
		n    int
		rate float64
	}
	buckets := make([]bucket, 10)
	for _, p := range points {
		i := int(p.HDI * 10)
		if i > 9 {
			i = 9
		}
		if i < 0 {
			i = 0
		}
		buckets[i].n++
		buckets[i].rate += p.Rate
	}

	rows := make([][]string, 0, len(buckets))
	for i, bk := range buckets {
		if bk.n == 0 {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.1f-%.1f", float64(i)/10, float64(i+1)/10),
			FormatNumber(int64(bk.n)),
			FormatRate(bk.rate / float64(bk.n)),
		})
	}
	return RenderTable(Table{
		Title:   fmt.Sprintf("%s (%s points)", title, FormatNumber(int64(len(points)))),
		Headers: []string{"HDI", "Points", "Avg rate"},
		Rows:    rows,
	})
}

func renderCountryTotals(title string, totals []model.CountryTotal) string {
	rows := make([][]string, 0, len(totals))
	for i, c := range totals {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.Country, FormatNumber(c.TotalCases)})
	}
	return RenderTable(Table{Title: title, Headers: []string{"#", "Country", "Cases"}, Rows: rows})
}

func renderCategoryTotals(title string, totals model.CategoryTotals) string {
	sum := totals.Sum()
	rows := make([][]string, 0, len(totals))
	for _, c := range totals {
		rows = append(rows, []string{c.Category, FormatNumber(c.TotalCases), FormatShare(c.TotalCases, sum)})
	}
	return RenderTable(Table{Title: title, Headers: []string{"Category", "Cases", "Share"}, Rows: rows})
}

func renderGDP(title string, years []model.YearGDPRate) string {
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		rows = append(rows, []string{strconv.Itoa(y.Year), FormatUSD(y.AverageGDPPerCapita), FormatRate(y.AverageRate)})
	}
	return RenderTable(Table{Title: title, Headers: []string{"Year", "GDP/capita", "Avg rate"}, Rows: rows})
}
