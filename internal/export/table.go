// Package export writes dashboard views to PNG charts and an XLSX workbook.
package export

import (
	"strings"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

// sheetTable flattens a report into a header row and typed cell rows.
func sheetTable(rep pipeline.Report) ([]string, [][]any) {
	switch d := rep.Data.(type) {
	case model.DatasetOverview:
		return []string{"Field", "Value"}, [][]any{
			{"Rows", d.Rows},
			{"Countries", d.Countries},
			{"First year", d.FirstYear},
			{"Last year", d.LastYear},
			{"Rows without HDI", d.MissingHDI},
			{"Age groups", strings.Join(d.AgeGroups, ", ")},
			{"Generations", strings.Join(d.Generations, ", ")},
		}
	case model.GlobalSummary:
		return []string{"Metric", "Value"}, [][]any{
			{"Total cases", d.TotalCases},
			{"Average rate per 100k", d.AverageRate},
			{"Countries", d.CountryCount},
			{"Rows", d.Rows},
		}
	case model.CountrySummary:
		return []string{"Metric", "Value"}, [][]any{
			{"Country", d.Country},
			{"Total cases", d.TotalCases},
			{"Average rate per 100k", d.AverageRate},
			{"Years covered", d.YearsCovered},
			{"Rows", d.Rows},
		}
	case []model.YearTotals:
		rows := make([][]any, 0, len(d))
		for _, y := range d {
			rows = append(rows, []any{y.Year, y.TotalCases, y.AverageRate})
		}
		return []string{"Year", "Total cases", "Average rate"}, rows
	case []model.YearSexTotal:
		rows := make([][]any, 0, len(d))
		for _, y := range d {
			rows = append(rows, []any{y.Year, y.Sex, y.TotalCases})
		}
		return []string{"Year", "Sex", "Total cases"}, rows
	case []model.CategoryRate:
		rows := make([][]any, 0, len(d))
		for _, c := range d {
			rows = append(rows, []any{c.Category, c.AverageRate})
		}
		return []string{"Category", "Average rate"}, rows
	case []model.HDIPoint:
		rows := make([][]any, 0, len(d))
		for _, p := range d {
			rows = append(rows, []any{p.HDI, p.Rate, p.IncomeCategory})
		}
		return []string{"HDI", "Rate per 100k", "Income category"}, rows
	case []model.CountryTotal:
		rows := make([][]any, 0, len(d))
		for i, c := range d {
			rows = append(rows, []any{i + 1, c.Country, c.TotalCases})
		}
		return []string{"Rank", "Country", "Total cases"}, rows
	case model.CategoryTotals:
		rows := make([][]any, 0, len(d))
		for _, c := range d {
			rows = append(rows, []any{c.Category, c.TotalCases})
		}
		return []string{"Category", "Total cases"}, rows
	case []model.YearGDPRate:
		rows := make([][]any, 0, len(d))
		for _, y := range d {
			rows = append(rows, []any{y.Year, y.AverageGDPPerCapita, y.AverageRate})
		}
		return []string{"Year", "Average GDP per capita", "Average rate"}, rows
	}
	return nil, nil
}

// baseName is the file or sheet stem for a report.
func baseName(rep pipeline.Report) string {
	name := string(rep.View)
	if rep.Country != "" {
		name += "-" + slug(rep.Country)
	}
	return name
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
