package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/sdash/internal/model"
)

var (
	// ErrUnknownView is returned for a view name outside the enumeration.
	ErrUnknownView = errors.New("unknown view")
	// ErrCountryRequired is returned when a country view is built without a country.
	ErrCountryRequired = errors.New("country is required for this view")
)

// View names one aggregate the presentation shells can request.
type View string

// Supported views.
const (
	ViewOverview           View = "overview"
	ViewGlobalSummary      View = "global-summary"
	ViewYearlyTrend        View = "yearly-trend"
	ViewYearlyTrendBySex   View = "yearly-trend-by-sex"
	ViewAgeGroups          View = "age-groups"
	ViewIncome             View = "income"
	ViewRateVsHDI          View = "rate-vs-hdi"
	ViewTopCountries       View = "top-countries"
	ViewCountrySummary     View = "country-summary"
	ViewCountryYearlyTrend View = "country-yearly-trend"
	ViewCountryGender      View = "country-gender"
	ViewCountryAge         View = "country-age"
	ViewCountryGDP         View = "country-gdp"
)

// AllViews lists every view in page order.
var AllViews = []View{
	ViewOverview,
	ViewGlobalSummary,
	ViewYearlyTrend,
	ViewYearlyTrendBySex,
	ViewAgeGroups,
	ViewIncome,
	ViewRateVsHDI,
	ViewTopCountries,
	ViewCountrySummary,
	ViewCountryYearlyTrend,
	ViewCountryGender,
	ViewCountryAge,
	ViewCountryGDP,
}

// ParseView resolves a view name, case-insensitively.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllViews {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// NeedsCountry reports whether the view is scoped to a single country.
func (v View) NeedsCountry() bool {
	switch v {
	case ViewCountrySummary, ViewCountryYearlyTrend, ViewCountryGender, ViewCountryAge, ViewCountryGDP:
		return true
	}
	return false
}

// Title is the human-readable heading for a view.
func (v View) Title() string {
	switch v {
	case ViewOverview:
		return "Dataset Overview"
	case ViewGlobalSummary:
		return "Global Summary"
	case ViewYearlyTrend:
		return "Cases per Year"
	case ViewYearlyTrendBySex:
		return "Cases per Year by Sex"
	case ViewAgeGroups:
		return "Average Rate by Age Group"
	case ViewIncome:
		return "Average Rate by Income Category"
	case ViewRateVsHDI:
		return "Rate vs HDI"
	case ViewTopCountries:
		return "Top Countries by Cases"
	case ViewCountrySummary:
		return "Country Summary"
	case ViewCountryYearlyTrend:
		return "Country Cases per Year"
	case ViewCountryGender:
		return "Cases by Sex"
	case ViewCountryAge:
		return "Cases by Age Group"
	case ViewCountryGDP:
		return "GDP per Capita vs Rate"
	}
	return string(v)
}

// Request selects a view and its parameters.
type Request struct {
	View    View
	Country string
	TopN    int // top-countries only; 0 means DefaultTopN
}

// Report is a built view ready for a presentation shell.
type Report struct {
	View    View   `json:"view"`
	Title   string `json:"title"`
	Country string `json:"country,omitempty"`
	Empty   bool   `json:"empty"`
	Data    any    `json:"data"`
}

// Build dispatches a request to the matching aggregation. It fails only for
// an unknown view or a country view without a country; an aggregate with no
// rows comes back with Empty set.
func Build(records []model.Record, req Request) (Report, error) {
	if req.View.NeedsCountry() && strings.TrimSpace(req.Country) == "" {
		return Report{}, fmt.Errorf("%s: %w", req.View, ErrCountryRequired)
	}

	rep := Report{View: req.View, Title: req.View.Title()}
	if req.View.NeedsCountry() {
		rep.Country = req.Country
	}

	switch req.View {
	case ViewOverview:
		ov := Overview(records)
		rep.Data, rep.Empty = ov, ov.Rows == 0
	case ViewGlobalSummary:
		s := GlobalSummary(records)
		rep.Data, rep.Empty = s, !s.HasData()
	case ViewYearlyTrend:
		d := YearlyTrend(records)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewYearlyTrendBySex:
		d := YearlyTrendBySex(records)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewAgeGroups:
		d := AverageRateByAgeGroup(records)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewIncome:
		d := AverageRateByIncomeCategory(records)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewRateVsHDI:
		d := RateVsHDI(records)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewTopCountries:
		n := req.TopN
		if n == 0 {
			n = DefaultTopN
		}
		d := TopCountriesByTotalCases(records, n)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewCountrySummary:
		s := CountrySummary(records, req.Country)
		rep.Data, rep.Empty = s, !s.HasData()
	case ViewCountryYearlyTrend:
		d := CountryYearlyTrend(records, req.Country)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewCountryGender:
		d := CountryGenderBreakdown(records, req.Country)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewCountryAge:
		d := CountryAgeBreakdown(records, req.Country)
		rep.Data, rep.Empty = d, len(d) == 0
	case ViewCountryGDP:
		d := CountryGDPVsRate(records, req.Country)
		rep.Data, rep.Empty = d, len(d) == 0
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownView, req.View)
	}

	return rep, nil
}

// Page groups the views shown together in a presentation shell.
type Page string

// Dashboard pages.
const (
	PageHome            Page = "home"
	PageGlobalTrends    Page = "global-trends"
	PageCountryAnalysis Page = "country-analysis"
)

// Pages lists the dashboard pages in navigation order.
var Pages = []Page{PageHome, PageGlobalTrends, PageCountryAnalysis}

// Title is the navigation label for a page.
func (p Page) Title() string {
	switch p {
	case PageHome:
		return "Home"
	case PageGlobalTrends:
		return "Global Trends"
	case PageCountryAnalysis:
		return "Country Analysis"
	}
	return string(p)
}

// Views returns the views rendered on the page, top to bottom.
func (p Page) Views() []View {
	switch p {
	case PageHome:
		return []View{ViewOverview}
	case PageGlobalTrends:
		return []View{
			ViewGlobalSummary, ViewYearlyTrend, ViewYearlyTrendBySex,
			ViewAgeGroups, ViewIncome, ViewRateVsHDI, ViewTopCountries,
		}
	case PageCountryAnalysis:
		return []View{
			ViewCountrySummary, ViewCountryYearlyTrend, ViewCountryGender,
			ViewCountryAge, ViewCountryGDP,
		}
	}
	return nil
}
