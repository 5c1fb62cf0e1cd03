// Package pipeline orchestrates record loading, caching, and view aggregation.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/sdash/internal/model"
)

// DefaultTopN is the ranking length used when the caller asks for none.
const DefaultTopN = 10

// mean is a running unweighted average. It never yields NaN.
type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// GlobalSummary computes headline metrics across every record.
// Empty input yields the zero summary; check HasData before showing AverageRate.
func GlobalSummary(records []model.Record) model.GlobalSummary {
	var s model.GlobalSummary
	var rate mean
	countries := make(map[string]struct{})

	for _, r := range records {
		s.TotalCases += r.SuicideCount
		rate.add(r.RatePer100k)
		countries[r.Country] = struct{}{}
	}

	s.Rows = len(records)
	s.AverageRate = rate.value()
	s.CountryCount = len(countries)
	return s
}

// YearlyTrend sums cases and averages the rate per year, ascending by year.
func YearlyTrend(records []model.Record) []model.YearTotals {
	type acc struct {
		total int64
		rate  mean
	}
	yearMap := make(map[int]*acc)

	for _, r := range records {
		a, ok := yearMap[r.Year]
		if !ok {
			a = &acc{}
			yearMap[r.Year] = a
		}
		a.total += r.SuicideCount
		a.rate.add(r.RatePer100k)
	}

	years := make([]model.YearTotals, 0, len(yearMap))
	for y, a := range yearMap {
		years = append(years, model.YearTotals{
			Year:        y,
			TotalCases:  a.total,
			AverageRate: a.rate.value(),
		})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// YearlyTrendBySex sums cases per (year, sex), ordered by year then sex.
func YearlyTrendBySex(records []model.Record) []model.YearSexTotal {
	type key struct {
		year int
		sex  string
	}
	totals := make(map[key]int64)

	for _, r := range records {
		totals[key{r.Year, r.Sex}] += r.SuicideCount
	}

	out := make([]model.YearSexTotal, 0, len(totals))
	for k, v := range totals {
		out = append(out, model.YearSexTotal{Year: k.year, Sex: k.sex, TotalCases: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Sex < out[j].Sex
	})
	return out
}

// AverageRateByAgeGroup averages the rate per age group, highest first.
// Ties fall back to the group label.
func AverageRateByAgeGroup(records []model.Record) []model.CategoryRate {
	groups := make(map[string]*mean)
	for _, r := range records {
		m, ok := groups[r.AgeGroup]
		if !ok {
			m = &mean{}
			groups[r.AgeGroup] = m
		}
		m.add(r.RatePer100k)
	}

	out := make([]model.CategoryRate, 0, len(groups))
	for g, m := range groups {
		out = append(out, model.CategoryRate{Category: g, AverageRate: m.value()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageRate != out[j].AverageRate {
			return out[i].AverageRate > out[j].AverageRate
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AverageRateByIncomeCategory averages the rate per income category in the
// order categories first appear in the input.
func AverageRateByIncomeCategory(records []model.Record) []model.CategoryRate {
	var order []string
	groups := make(map[string]*mean)

	for _, r := range records {
		m, ok := groups[r.IncomeCategory]
		if !ok {
			m = &mean{}
			groups[r.IncomeCategory] = m
			order = append(order, r.IncomeCategory)
		}
		m.add(r.RatePer100k)
	}

	out := make([]model.CategoryRate, 0, len(order))
	for _, c := range order {
		out = append(out, model.CategoryRate{Category: c, AverageRate: groups[c].value()})
	}
	return out
}

// RateVsHDI returns one point per row with an HDI value, in input order.
func RateVsHDI(records []model.Record) []model.HDIPoint {
	out := []model.HDIPoint{}
	for _, r := range records {
		if !r.HasHDI() {
			continue
		}
		out = append(out, model.HDIPoint{
			HDI:            *r.HDIForYear,
			Rate:           r.RatePer100k,
			IncomeCategory: r.IncomeCategory,
		})
	}
	return out
}

// TopCountriesByTotalCases ranks countries by summed cases, descending, and
// keeps the first n. Ties fall back to the country name. n <= 0 yields none.
func TopCountriesByTotalCases(records []model.Record, n int) []model.CountryTotal {
	if n <= 0 {
		return []model.CountryTotal{}
	}

	totals := make(map[string]int64)
	for _, r := range records {
		totals[r.Country] += r.SuicideCount
	}

	out := make([]model.CountryTotal, 0, len(totals))
	for c, v := range totals {
		out = append(out, model.CountryTotal{Country: c, TotalCases: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCases != out[j].TotalCases {
			return out[i].TotalCases > out[j].TotalCases
		}
		return out[i].Country < out[j].Country
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CountrySummary computes headline metrics for one country. An unknown
// country yields the zero summary with Rows == 0.
func CountrySummary(records []model.Record, country string) model.CountrySummary {
	filtered := FilterByCountry(records, country)

	s := model.CountrySummary{Country: country}
	var rate mean
	years := make(map[int]struct{})
	for _, r := range filtered {
		s.TotalCases += r.SuicideCount
		rate.add(r.RatePer100k)
		years[r.Year] = struct{}{}
	}

	s.Rows = len(filtered)
	s.AverageRate = rate.value()
	s.YearsCovered = len(years)
	return s
}

// CountryYearlyTrend is YearlyTrend restricted to one country.
func CountryYearlyTrend(records []model.Record, country string) []model.YearTotals {
	return YearlyTrend(FilterByCountry(records, country))
}

// CountryGenderBreakdown sums one country's cases per sex. Zero slices are
// omitted; order follows the sex label.
func CountryGenderBreakdown(records []model.Record, country string) model.CategoryTotals {
	out := sumByCategory(FilterByCountry(records, country), func(r model.Record) string { return r.Sex })
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})
	return out
}

// CountryAgeBreakdown sums one country's cases per age group, youngest first.
// Zero slices are omitted.
func CountryAgeBreakdown(records []model.Record, country string) model.CategoryTotals {
	out := sumByCategory(FilterByCountry(records, country), func(r model.Record) string { return r.AgeGroup })
	sort.Slice(out, func(i, j int) bool {
		return model.LessAgeGroup(out[i].Category, out[j].Category)
	})
	return out
}

func sumByCategory(records []model.Record, category func(model.Record) string) model.CategoryTotals {
	totals := make(map[string]int64)
	for _, r := range records {
		totals[category(r)] += r.SuicideCount
	}

	out := make(model.CategoryTotals, 0, len(totals))
	for c, v := range totals {
		if v == 0 {
			continue
		}
		out = append(out, model.CategoryTotal{Category: c, TotalCases: v})
	}
	return out
}

// CountryGDPVsRate averages GDP per capita and rate per year for one country.
func CountryGDPVsRate(records []model.Record, country string) []model.YearGDPRate {
	type acc struct {
		gdp, rate mean
	}
	yearMap := make(map[int]*acc)

	for _, r := range FilterByCountry(records, country) {
		a, ok := yearMap[r.Year]
		if !ok {
			a = &acc{}
			yearMap[r.Year] = a
		}
		a.gdp.add(r.GDPPerCapita)
		a.rate.add(r.RatePer100k)
	}

	out := make([]model.YearGDPRate, 0, len(yearMap))
	for y, a := range yearMap {
		out = append(out, model.YearGDPRate{
			Year:                y,
			AverageGDPPerCapita: a.gdp.value(),
			AverageRate:         a.rate.value(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Year < out[j].Year
	})
	return out
}

// Overview describes the dataset for the Home page.
func Overview(records []model.Record) model.DatasetOverview {
	ov := model.DatasetOverview{Rows: len(records)}
	countries := make(map[string]struct{})
	ages := make(map[string]struct{})
	gens := make(map[string]struct{})

	for i, r := range records {
		countries[r.Country] = struct{}{}
		ages[r.AgeGroup] = struct{}{}
		if r.Generation != "" {
			gens[r.Generation] = struct{}{}
		}
		if !r.HasHDI() {
			ov.MissingHDI++
		}
		if i == 0 || r.Year < ov.FirstYear {
			ov.FirstYear = r.Year
		}
		if i == 0 || r.Year > ov.LastYear {
			ov.LastYear = r.Year
		}
	}

	ov.Countries = len(countries)
	ov.AgeGroups = keys(ages)
	model.SortAgeGroups(ov.AgeGroups)
	ov.Generations = keys(gens)
	sort.Strings(ov.Generations)
	return ov
}

// Countries returns the sorted distinct country names.
func Countries(records []model.Record) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		set[r.Country] = struct{}{}
	}
	out := keys(set)
	sort.Strings(out)
	return out
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
