package pipeline

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/sdash/internal/model"
)

func rec(country string, year int, sex, age string, count int64, rate float64) model.Record {
	return model.Record{
		Country:        country,
		Year:           year,
		Sex:            sex,
		AgeGroup:       age,
		SuicideCount:   count,
		Population:     100000,
		RatePer100k:    rate,
		GDPPerCapita:   1000,
		IncomeCategory: "Low income",
	}
}

func withHDI(r model.Record, hdi float64) model.Record {
	r.HDIForYear = &hdi
	return r
}

func withIncome(r model.Record, income string, gdp float64) model.Record {
	r.IncomeCategory = income
	r.GDPPerCapita = gdp
	return r
}

func fixture() []model.Record {
	return []model.Record{
		withHDI(rec("US", 2010, "male", "15-24 years", 60, 12), 0.9),
		rec("US", 2010, "female", "15-24 years", 40, 4),
		withIncome(rec("US", 2011, "male", "75+ years", 100, 30), "High income", 48000),
		withIncome(rec("Japan", 2011, "female", "75+ years", 50, 20), "High income", 44000),
		withHDI(rec("Chile", 2011, "male", "5-14 years", 0, 0.5), 0.7),
	}
}

func TestGlobalSummary(t *testing.T) {
	s := GlobalSummary(fixture())

	assert.Equal(t, int64(250), s.TotalCases)
	assert.Equal(t, 3, s.CountryCount)
	assert.Equal(t, 5, s.Rows)
	assert.InDelta(t, (12+4+30+20+0.5)/5.0, s.AverageRate, 1e-9)
	assert.True(t, s.HasData())
}

func TestGlobalSummary_Empty(t *testing.T) {
	s := GlobalSummary(nil)

	assert.Equal(t, model.GlobalSummary{}, s)
	assert.False(t, s.HasData())
}

func TestYearlyTrend(t *testing.T) {
	records := []model.Record{
		rec("A", 2011, "male", "15-24 years", 150, 3),
		rec("A", 2010, "male", "15-24 years", 60, 1),
		rec("B", 2010, "female", "15-24 years", 40, 2),
	}

	got := YearlyTrend(records)
	require.Len(t, got, 2)
	assert.Equal(t, model.YearTotals{Year: 2010, TotalCases: 100, AverageRate: 1.5}, got[0])
	assert.Equal(t, model.YearTotals{Year: 2011, TotalCases: 150, AverageRate: 3}, got[1])
}

func TestYearlyTrend_SumMatchesGlobal(t *testing.T) {
	records := fixture()

	var sum int64
	for _, y := range YearlyTrend(records) {
		sum += y.TotalCases
	}
	assert.Equal(t, GlobalSummary(records).TotalCases, sum)
}

func TestYearlyTrendBySex(t *testing.T) {
	got := YearlyTrendBySex(fixture())

	want := []model.YearSexTotal{
		{Year: 2010, Sex: "female", TotalCases: 40},
		{Year: 2010, Sex: "male", TotalCases: 60},
		{Year: 2011, Sex: "female", TotalCases: 50},
		{Year: 2011, Sex: "male", TotalCases: 100},
	}
	assert.Equal(t, want, got)
}

func TestAverageRateByAgeGroup(t *testing.T) {
	got := AverageRateByAgeGroup(fixture())

	require.Len(t, got, 3)
	assert.Equal(t, "75+ years", got[0].Category)
	assert.InDelta(t, 25, got[0].AverageRate, 1e-9)
	assert.Equal(t, "15-24 years", got[1].Category)
	assert.InDelta(t, 8, got[1].AverageRate, 1e-9)
	assert.Equal(t, "5-14 years", got[2].Category)
}

func TestAverageRateByAgeGroup_TiesByLabel(t *testing.T) {
	records := []model.Record{
		rec("A", 2000, "male", "35-54 years", 1, 7),
		rec("A", 2000, "male", "15-24 years", 1, 7),
	}
	got := AverageRateByAgeGroup(records)

	require.Len(t, got, 2)
	assert.Equal(t, "15-24 years", got[0].Category)
	assert.Equal(t, "35-54 years", got[1].Category)
}

func TestAverageRateByAgeGroup_Empty(t *testing.T) {
	assert.Empty(t, AverageRateByAgeGroup(nil))
	assert.Empty(t, AverageRateByAgeGroup([]model.Record{}))
}

func TestAverageRateByIncomeCategory_FirstSeenOrder(t *testing.T) {
	got := AverageRateByIncomeCategory(fixture())

	require.Len(t, got, 2)
	assert.Equal(t, "Low income", got[0].Category)
	assert.InDelta(t, (12+4+0.5)/3.0, got[0].AverageRate, 1e-9)
	assert.Equal(t, "High income", got[1].Category)
	assert.InDelta(t, 25, got[1].AverageRate, 1e-9)
}

func TestRateVsHDI_SkipsMissing(t *testing.T) {
	got := RateVsHDI(fixture())

	require.Len(t, got, 2)
	assert.Equal(t, model.HDIPoint{HDI: 0.9, Rate: 12, IncomeCategory: "Low income"}, got[0])
	assert.Equal(t, model.HDIPoint{HDI: 0.7, Rate: 0.5, IncomeCategory: "Low income"}, got[1])
}

func TestRateVsHDI_EmptyIsNotNil(t *testing.T) {
	for _, records := range [][]model.Record{nil, {{Country: "US", Year: 2010, RatePer100k: 3}}} {
		got := RateVsHDI(records)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestTopCountriesByTotalCases(t *testing.T) {
	records := fixture()
	got := TopCountriesByTotalCases(records, 2)

	require.Len(t, got, 2)
	assert.Equal(t, model.CountryTotal{Country: "US", TotalCases: 200}, got[0])
	assert.Equal(t, model.CountryTotal{Country: "Japan", TotalCases: 50}, got[1])

	known := make(map[string]bool)
	for _, c := range Countries(records) {
		known[c] = true
	}
	for n := 0; n <= 5; n++ {
		top := TopCountriesByTotalCases(records, n)
		assert.LessOrEqual(t, len(top), n)
		for i, ct := range top {
			assert.True(t, known[ct.Country], "unknown country %q", ct.Country)
			if i > 0 {
				assert.GreaterOrEqual(t, top[i-1].TotalCases, ct.TotalCases)
			}
		}
	}
}

func TestTopCountriesByTotalCases_TiesAndBounds(t *testing.T) {
	records := []model.Record{
		rec("Zambia", 2000, "male", "15-24 years", 10, 1),
		rec("Austria", 2000, "male", "15-24 years", 10, 1),
	}

	got := TopCountriesByTotalCases(records, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "Austria", got[0].Country)
	assert.Equal(t, "Zambia", got[1].Country)

	assert.Empty(t, TopCountriesByTotalCases(records, 0))
	assert.Empty(t, TopCountriesByTotalCases(records, -3))
}

func TestCountrySummary(t *testing.T) {
	s := CountrySummary(fixture(), "US")

	assert.Equal(t, "US", s.Country)
	assert.Equal(t, int64(200), s.TotalCases)
	assert.Equal(t, 2, s.YearsCovered)
	assert.Equal(t, 3, s.Rows)
	assert.InDelta(t, (12+4+30)/3.0, s.AverageRate, 1e-9)
}

func TestCountrySummary_Absent(t *testing.T) {
	s := CountrySummary(fixture(), "Atlantis")

	assert.Equal(t, model.CountrySummary{Country: "Atlantis"}, s)
	assert.False(t, s.HasData())
}

func TestCountryYearlyTrend(t *testing.T) {
	got := CountryYearlyTrend(fixture(), "US")

	require.Len(t, got, 2)
	assert.Equal(t, int64(100), got[0].TotalCases)
	assert.Equal(t, int64(100), got[1].TotalCases)
}

func TestCountryGenderBreakdown(t *testing.T) {
	records := []model.Record{
		rec("US", 2010, "male", "15-24 years", 10, 1),
		rec("US", 2010, "female", "15-24 years", 5, 1),
		rec("CA", 2010, "male", "15-24 years", 99, 1),
	}

	got := CountryGenderBreakdown(records, "US")
	assert.Equal(t, map[string]int64{"male": 10, "female": 5}, got.Map())
	assert.Equal(t, int64(15), got.Sum())
	assert.Equal(t, "female", got[0].Category)
}

func TestCountryAgeBreakdown_OmitsZeroAndOrders(t *testing.T) {
	records := []model.Record{
		rec("US", 2010, "male", "75+ years", 3, 1),
		rec("US", 2010, "male", "5-14 years", 0, 0),
		rec("US", 2010, "male", "15-24 years", 7, 1),
		rec("US", 2011, "female", "15-24 years", 1, 1),
	}

	got := CountryAgeBreakdown(records, "US")
	want := model.CategoryTotals{
		{Category: "15-24 years", TotalCases: 8},
		{Category: "75+ years", TotalCases: 3},
	}
	assert.Equal(t, want, got)
}

func TestCountryBreakdown_Absent(t *testing.T) {
	assert.Empty(t, CountryGenderBreakdown(fixture(), "Atlantis"))
	assert.Empty(t, CountryAgeBreakdown(fixture(), "Atlantis"))
	assert.Empty(t, CountryGDPVsRate(fixture(), "Atlantis"))
}

func TestCountryGDPVsRate(t *testing.T) {
	got := CountryGDPVsRate(fixture(), "US")

	require.Len(t, got, 2)
	assert.Equal(t, 2010, got[0].Year)
	assert.InDelta(t, 1000, got[0].AverageGDPPerCapita, 1e-9)
	assert.InDelta(t, 8, got[0].AverageRate, 1e-9)
	assert.Equal(t, 2011, got[1].Year)
	assert.InDelta(t, 48000, got[1].AverageGDPPerCapita, 1e-9)
}

func TestOverview(t *testing.T) {
	records := fixture()
	records[0].Generation = "Millenials"
	records[2].Generation = "Boomers"

	ov := Overview(records)
	assert.Equal(t, 5, ov.Rows)
	assert.Equal(t, 3, ov.Countries)
	assert.Equal(t, 2010, ov.FirstYear)
	assert.Equal(t, 2011, ov.LastYear)
	assert.Equal(t, []string{"5-14 years", "15-24 years", "75+ years"}, ov.AgeGroups)
	assert.Equal(t, []string{"Boomers", "Millenials"}, ov.Generations)
	assert.Equal(t, 3, ov.MissingHDI)
}

func TestCountries(t *testing.T) {
	assert.Equal(t, []string{"Chile", "Japan", "US"}, Countries(fixture()))
	assert.Empty(t, Countries(nil))
}

func TestEngine_DoesNotMutateInputAndIsIdempotent(t *testing.T) {
	records := fixture()
	before := make([]model.Record, len(records))
	copy(before, records)

	run := func() string {
		return fmt.Sprint(
			GlobalSummary(records),
			YearlyTrend(records),
			YearlyTrendBySex(records),
			AverageRateByAgeGroup(records),
			AverageRateByIncomeCategory(records),
			RateVsHDI(records),
			TopCountriesByTotalCases(records, 2),
			CountrySummary(records, "US"),
			CountryGenderBreakdown(records, "US"),
			CountryAgeBreakdown(records, "US"),
			CountryGDPVsRate(records, "US"),
			Overview(records),
			Countries(records),
		)
	}

	first := run()
	assert.Equal(t, first, run())
	assert.True(t, reflect.DeepEqual(before, records), "input slice was modified")
}

func TestFilterByYears(t *testing.T) {
	records := fixture()

	assert.Len(t, FilterByYears(records, 0, 0), 5)
	assert.Len(t, FilterByYears(records, 2011, 0), 3)
	assert.Len(t, FilterByYears(records, 0, 2010), 2)
	assert.Empty(t, FilterByYears(records, 2012, 2015))
}

func TestFilterBySex(t *testing.T) {
	got := FilterBySex(fixture(), "female")
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "female", r.Sex)
	}
}
