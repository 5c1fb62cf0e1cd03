package source

import (
	"errors"
	"fmt"
	"strings"
)

// Canonical column identifiers. Source headers are normalised and mapped onto these.
const (
	colCountry    = "country"
	colYear       = "year"
	colSex        = "sex"
	colAge        = "age"
	colCount      = "suicides_no"
	colPopulation = "population"
	colRate       = "suicides_per_100k_pop"
	colHDI        = "hdi_for_year"
	colGDPYear    = "gdp_for_year"
	colGDPCapita  = "gdp_per_capita"
	colGeneration = "generation"
	colIncome     = "income_category"
)

// requiredColumns must be present in every input file; the rest are optional
// or derived.
var requiredColumns = []string{colCountry, colYear, colSex, colAge, colCount, colPopulation}

// columnAliases maps normalised header names onto canonical columns.
var columnAliases = map[string]string{
	"country":               colCountry,
	"year":                  colYear,
	"sex":                   colSex,
	"gender":                colSex,
	"age":                   colAge,
	"age_group":             colAge,
	"suicides_no":           colCount,
	"suicide_count":         colCount,
	"population":            colPopulation,
	"suicides_100k_pop":     colRate,
	"suicides_per_100k_pop": colRate,
	"rate_per_100k":         colRate,
	"hdi_for_year":          colHDI,
	"gdp_for_year":          colGDPYear,
	"gdp_per_capita":        colGDPCapita,
	"generation":            colGeneration,
	"income_category":       colIncome,
}

var (
	// ErrMissingColumn is wrapped when a required column is absent from a header.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoFiles is returned when a directory holds no CSV files.
	ErrNoFiles = errors.New("no csv files found")
)

// LoadError reports a fatal problem reading an input file.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IncomeTiers holds the GDP-per-capita thresholds used to derive an income
// category when the input has none.
type IncomeTiers struct {
	LowerMiddle float64 `toml:"lower_middle"`
	UpperMiddle float64 `toml:"upper_middle"`
	High        float64 `toml:"high"`
}

// Income category labels produced by Classify.
const (
	IncomeLow         = "Low income"
	IncomeLowerMiddle = "Lower middle income"
	IncomeUpperMiddle = "Upper middle income"
	IncomeHigh        = "High income"
)

// DefaultIncomeTiers returns World Bank style per-capita thresholds in USD.
func DefaultIncomeTiers() IncomeTiers {
	return IncomeTiers{
		LowerMiddle: 1036,
		UpperMiddle: 4046,
		High:        12536,
	}
}

// Classify buckets a GDP-per-capita value into an income category.
func (t IncomeTiers) Classify(gdpPerCapita float64) string {
	switch {
	case gdpPerCapita >= t.High:
		return IncomeHigh
	case gdpPerCapita >= t.UpperMiddle:
		return IncomeUpperMiddle
	case gdpPerCapita >= t.LowerMiddle:
		return IncomeLowerMiddle
	default:
		return IncomeLow
	}
}

// Options controls row parsing.
type Options struct {
	Income IncomeTiers
}

// DefaultOptions returns parsing options with default income tiers.
func DefaultOptions() Options {
	return Options{Income: DefaultIncomeTiers()}
}

// Key fingerprints the options that affect derived columns. Cached records
// parsed under a different key are stale.
func (o Options) Key() string {
	return fmt.Sprintf("income=%g/%g/%g", o.Income.LowerMiddle, o.Income.UpperMiddle, o.Income.High)
}

// normalizeHeader lower-cases a header and collapses punctuation to single
// underscores: "gdp_for_year ($)" -> "gdp_for_year", "suicides/100k pop" -> "suicides_100k_pop".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, "($)", "")

	var b strings.Builder
	underscore := false
	for _, r := range h {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
