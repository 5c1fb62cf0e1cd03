package model

// GlobalSummary holds the headline metrics across every record.
type GlobalSummary struct {
	TotalCases   int64   `json:"total_cases"`
	AverageRate  float64 `json:"average_rate"` // unweighted mean of rows; 0 when Rows == 0
	CountryCount int     `json:"country_count"`
	Rows         int     `json:"rows"`
}

// HasData reports whether the summary was computed from at least one row.
// AverageRate is meaningless otherwise and must be shown as "no data".
func (s GlobalSummary) HasData() bool {
	return s.Rows > 0
}

// YearTotals holds one year of a time series.
type YearTotals struct {
	Year        int     `json:"year"`
	TotalCases  int64   `json:"total_cases"`
	AverageRate float64 `json:"average_rate"`
}

// YearSexTotal holds the case total for one (year, sex) pair.
type YearSexTotal struct {
	Year       int    `json:"year"`
	Sex        string `json:"sex"`
	TotalCases int64  `json:"total_cases"`
}

// CategoryRate holds the mean rate for one category (age group, income tier).
type CategoryRate struct {
	Category    string  `json:"category"`
	AverageRate float64 `json:"average_rate"`
}

// HDIPoint is one scatter point of rate against HDI.
type HDIPoint struct {
	HDI            float64 `json:"hdi_for_year"`
	Rate           float64 `json:"rate_per_100k"`
	IncomeCategory string  `json:"income_category"`
}

// CountryTotal holds the case total for one country.
type CountryTotal struct {
	Country    string `json:"country"`
	TotalCases int64  `json:"total_cases"`
}

// CountrySummary holds the headline metrics for one country.
type CountrySummary struct {
	Country      string  `json:"country"`
	TotalCases   int64   `json:"total_cases"`
	AverageRate  float64 `json:"average_rate"`
	YearsCovered int     `json:"years_covered"`
	Rows         int     `json:"rows"`
}

// HasData reports whether any record matched the country.
func (s CountrySummary) HasData() bool {
	return s.Rows > 0
}

// CategoryTotal is one slice of a proportion (pie) view.
type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCases int64  `json:"total_cases"`
}

// CategoryTotals is an ordered proportion breakdown.
type CategoryTotals []CategoryTotal

// Map returns the breakdown as a category -> total mapping.
func (c CategoryTotals) Map() map[string]int64 {
	m := make(map[string]int64, len(c))
	for _, ct := range c {
		m[ct.Category] = ct.TotalCases
	}
	return m
}

// Sum returns the total across every slice.
func (c CategoryTotals) Sum() int64 {
	var total int64
	for _, ct := range c {
		total += ct.TotalCases
	}
	return total
}

// YearGDPRate pairs a year's mean GDP per capita with its mean rate.
type YearGDPRate struct {
	Year                int     `json:"year"`
	AverageGDPPerCapita float64 `json:"average_gdp_per_capita"`
	AverageRate         float64 `json:"average_rate"`
}

// DatasetOverview describes the loaded dataset for the Home page.
type DatasetOverview struct {
	Rows        int      `json:"rows"`
	Countries   int      `json:"countries"`
	FirstYear   int      `json:"first_year"`
	LastYear    int      `json:"last_year"`
	AgeGroups   []string `json:"age_groups"`
	Generations []string `json:"generations"`
	MissingHDI  int      `json:"missing_hdi"`
}
