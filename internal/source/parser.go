// Package source discovers and parses the cleaned suicide statistics CSV files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/sdash/internal/model"
)

// maxWarnings caps how many row rejections are kept verbatim per file.
const maxWarnings = 5

// ParseResult holds the output of parsing a single CSV file.
type ParseResult struct {
	Path       string
	Records    []model.Record
	Rows       int // data rows read, accepted or not
	Rejected   int
	Duplicates int
	Warnings   []string
	Err        error
}

// ParseFile reads a CSV file into validated records.
//
// Rows with unparsable numbers, negative counts, or a non-positive population
// are rejected and counted; they never reach the aggregation layer. Duplicate
// (country, year, sex, age) rows keep the first occurrence. A rate column that
// is absent or empty is computed from count and population; an income category
// that is absent or empty is derived from GDP per capita.
func ParseFile(path string, opts Options) ParseResult {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the local operator
	if err != nil {
		return ParseResult{Path: path, Err: &LoadError{Path: path, Err: err}}
	}
	defer func() { _ = f.Close() }()

	res := parseReader(f, opts)
	res.Path = path
	if res.Err != nil {
		res.Err = &LoadError{Path: path, Err: res.Err}
	}
	return res
}

func parseReader(r io.Reader, opts Options) ParseResult {
	var res ParseResult

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{Err: errors.New("empty file")}
		}
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}

	cols, err := mapColumns(header)
	if err != nil {
		return ParseResult{Err: err}
	}

	seen := make(map[string]struct{})
	line := 1
	for {
		row, err := reader.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Rows++
				res.reject(fmt.Sprintf("line %d: %v", line, pe.Err))
				continue
			}
			return ParseResult{Err: fmt.Errorf("reading line %d: %w", line, err)}
		}
		if isBlank(row) {
			continue
		}
		res.Rows++

		rec, err := cols.record(row, opts)
		if err != nil {
			res.reject(fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		key := rec.Key()
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		res.Records = append(res.Records, rec)
	}

	return res
}

func (res *ParseResult) reject(msg string) {
	res.Rejected++
	if len(res.Warnings) < maxWarnings {
		res.Warnings = append(res.Warnings, msg)
	}
}

// columnIndex maps canonical columns to their position in a row.
type columnIndex map[string]int

func mapColumns(header []string) (columnIndex, error) {
	cols := columnIndex{}
	for i, h := range header {
		canon, ok := columnAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := cols[canon]; dup {
			continue
		}
		cols[canon] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columnIndex) cell(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c columnIndex) record(row []string, opts Options) (model.Record, error) {
	var rec model.Record

	rec.Country = c.cell(row, colCountry)
	if rec.Country == "" {
		return rec, errors.New("empty country")
	}
	rec.Sex = strings.ToLower(c.cell(row, colSex))
	if rec.Sex == "" {
		return rec, errors.New("empty sex")
	}
	rec.AgeGroup = c.cell(row, colAge)
	if rec.AgeGroup == "" {
		return rec, errors.New("empty age group")
	}

	year, err := parseInt(c.cell(row, colYear))
	if err != nil {
		return rec, fmt.Errorf("year: %w", err)
	}
	if year < 1 {
		return rec, fmt.Errorf("year: must be positive, got %d", year)
	}
	rec.Year = int(year)

	if rec.SuicideCount, err = parseInt(c.cell(row, colCount)); err != nil {
		return rec, fmt.Errorf("suicides_no: %w", err)
	}
	if rec.SuicideCount < 0 {
		return rec, fmt.Errorf("suicides_no: negative count %d", rec.SuicideCount)
	}
	if rec.Population, err = parseInt(c.cell(row, colPopulation)); err != nil {
		return rec, fmt.Errorf("population: %w", err)
	}
	if rec.Population <= 0 {
		return rec, fmt.Errorf("population: must be positive, got %d", rec.Population)
	}

	if v := c.cell(row, colRate); v != "" {
		if rec.RatePer100k, err = parseFloat(v); err != nil {
			return rec, fmt.Errorf("rate: %w", err)
		}
		if rec.RatePer100k < 0 {
			return rec, fmt.Errorf("rate: negative value %g", rec.RatePer100k)
		}
	} else {
		rec.RatePer100k = float64(rec.SuicideCount) / float64(rec.Population) * 100_000
	}

	if v := c.cell(row, colHDI); v != "" {
		hdi, err := parseFloat(v)
		if err != nil {
			return rec, fmt.Errorf("hdi_for_year: %w", err)
		}
		if hdi < 0 || hdi > 1 {
			return rec, fmt.Errorf("hdi_for_year: %g outside [0,1]", hdi)
		}
		rec.HDIForYear = &hdi
	}

	if v := c.cell(row, colGDPYear); v != "" {
		if rec.GDPForYear, err = parseFloat(v); err != nil {
			return rec, fmt.Errorf("gdp_for_year: %w", err)
		}
		if rec.GDPForYear < 0 {
			return rec, fmt.Errorf("gdp_for_year: negative value %g", rec.GDPForYear)
		}
	}
	if v := c.cell(row, colGDPCapita); v != "" {
		if rec.GDPPerCapita, err = parseFloat(v); err != nil {
			return rec, fmt.Errorf("gdp_per_capita: %w", err)
		}
		if rec.GDPPerCapita < 0 {
			return rec, fmt.Errorf("gdp_per_capita: negative value %g", rec.GDPPerCapita)
		}
	}

	rec.Generation = c.cell(row, colGeneration)
	rec.IncomeCategory = c.cell(row, colIncome)
	if rec.IncomeCategory == "" {
		rec.IncomeCategory = opts.Income.Classify(rec.GDPPerCapita)
	}

	return rec, nil
}

// parseInt accepts thousands separators and integral floats ("1,234", "12.0").
func parseInt(s string) (int64, error) {
	s = stripNumber(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int64(f), nil
}

func parseFloat(s string) (float64, error) {
	s = stripNumber(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

func stripNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
