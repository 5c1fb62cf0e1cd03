package source

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const kaggleHeader = `country,year,sex,age,suicides_no,population,suicides/100k pop,country-year,HDI for year, gdp_for_year ($) ,gdp_per_capita ($),generation`

// writeCSV creates a temp CSV file and returns its path.
func writeCSV(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "master.csv")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_KaggleHeader(t *testing.T) {
	path := writeCSV(t,
		kaggleHeader,
		`Albania,1987,male,15-24 years,21,312900,6.71,Albania1987,,"2,156,624,900",796,Generation X`,
		`Albania,1987,female,75+ years,1,35600,2.81,Albania1987,0.5,"2,156,624,900",796,G.I. Generation`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(result.Records))
	}

	r := result.Records[0]
	if r.Country != "Albania" || r.Year != 1987 || r.Sex != "male" || r.AgeGroup != "15-24 years" {
		t.Errorf("unexpected key fields: %+v", r)
	}
	if r.SuicideCount != 21 || r.Population != 312900 {
		t.Errorf("count/pop = %d/%d, want 21/312900", r.SuicideCount, r.Population)
	}
	if r.RatePer100k != 6.71 {
		t.Errorf("RatePer100k = %v, want 6.71", r.RatePer100k)
	}
	if r.HasHDI() {
		t.Errorf("expected missing HDI, got %v", *r.HDIForYear)
	}
	if r.GDPForYear != 2156624900 {
		t.Errorf("GDPForYear = %v, want 2156624900", r.GDPForYear)
	}
	if r.GDPPerCapita != 796 {
		t.Errorf("GDPPerCapita = %v, want 796", r.GDPPerCapita)
	}
	if r.Generation != "Generation X" {
		t.Errorf("Generation = %q", r.Generation)
	}
	if r.IncomeCategory != IncomeLow {
		t.Errorf("IncomeCategory = %q, want %q (derived)", r.IncomeCategory, IncomeLow)
	}

	if !result.Records[1].HasHDI() || *result.Records[1].HDIForYear != 0.5 {
		t.Errorf("expected HDI 0.5 on second row")
	}
}

func TestParseFile_DerivesRate(t *testing.T) {
	path := writeCSV(t,
		`country,year,sex,age,suicides_no,population`,
		`Chile,2000,male,25-34 years,50,1000000`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if got := result.Records[0].RatePer100k; math.Abs(got-5) > 1e-9 {
		t.Errorf("RatePer100k = %v, want 5", got)
	}
}

func TestParseFile_KeepsIncomeCategory(t *testing.T) {
	path := writeCSV(t,
		`country,year,sex,age,suicides_no,population,gdp_per_capita,income_category`,
		`Chile,2000,male,25-34 years,50,1000000,100,High income`,
		`Chile,2000,female,25-34 years,10,1000000,20000,`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := result.Records[0].IncomeCategory; got != "High income" {
		t.Errorf("explicit category = %q, want High income", got)
	}
	if got := result.Records[1].IncomeCategory; got != IncomeHigh {
		t.Errorf("derived category = %q, want %q", got, IncomeHigh)
	}
}

func TestParseFile_RejectsBadRows(t *testing.T) {
	path := writeCSV(t,
		`country,year,sex,age,suicides_no,population`,
		`Chile,2000,male,25-34 years,50,1000000`,
		`Chile,abc,male,35-54 years,50,1000000`,
		`Chile,2000,male,55-74 years,-3,1000000`,
		`Chile,2000,male,75+ years,3,0`,
		`,2000,female,75+ years,3,100`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Errorf("got %d records, want 1", len(result.Records))
	}
	if result.Rows != 5 {
		t.Errorf("Rows = %d, want 5", result.Rows)
	}
	if result.Rejected != 4 {
		t.Errorf("Rejected = %d, want 4", result.Rejected)
	}
	if len(result.Warnings) != 4 {
		t.Errorf("Warnings = %d, want 4", len(result.Warnings))
	}
}

func TestParseFile_RejectsNonFinite(t *testing.T) {
	path := writeCSV(t,
		kaggleHeader,
		`Chile,2000,male,15-24 years,10,100000,NaN,Chile2000,0.8,"1,000",5000,Millenials`,
		`Chile,2000,male,25-34 years,10,100000,10,Chile2000,NaN,"1,000",5000,Millenials`,
		`Chile,2000,male,35-54 years,10,100000,10,Chile2000,0.8,"1,000",Inf,Boomers`,
		`Chile,2000,male,55-74 years,10,100000,+Inf,Chile2000,0.8,"1,000",5000,Boomers`,
		`Chile,2000,male,75+ years,NaN,100000,10,Chile2000,0.8,"1,000",5000,Silent`,
		`Chile,2000,female,15-24 years,5,100000,5,Chile2000,0.8,"1,000",5000,Millenials`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 || result.Rejected != 5 {
		t.Fatalf("accepted=%d rejected=%d, want 1 and 5", len(result.Records), result.Rejected)
	}
	r := result.Records[0]
	if math.IsNaN(r.RatePer100k) || math.IsInf(r.GDPPerCapita, 0) {
		t.Errorf("non-finite value escaped: %+v", r)
	}
}

func TestParseFile_RejectsOutOfRange(t *testing.T) {
	path := writeCSV(t,
		kaggleHeader,
		`Chile,0,male,15-24 years,10,100000,10,Chile0,,"1,000",5000,Millenials`,
		`Chile,-5,male,25-34 years,10,100000,10,Chile-5,,"1,000",5000,Millenials`,
		`Chile,2000,male,35-54 years,10,100000,10,Chile2000,,"-1,000",5000,Boomers`,
		`Chile,2000,male,55-74 years,10,100000,10,Chile2000,,"1,000",-5000,Boomers`,
		`Chile,2000,female,15-24 years,5,100000,5,Chile2000,,0,0,Millenials`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 || result.Rejected != 4 {
		t.Fatalf("accepted=%d rejected=%d, want 1 and 4", len(result.Records), result.Rejected)
	}
	if result.Records[0].Year != 2000 || result.Records[0].GDPPerCapita != 0 {
		t.Errorf("kept record = %+v", result.Records[0])
	}
}

func TestParseFile_WarningsCapped(t *testing.T) {
	lines := []string{`country,year,sex,age,suicides_no,population`}
	for i := 0; i < 12; i++ {
		lines = append(lines, `Chile,x,male,25-34 years,50,1000000`)
	}
	result := ParseFile(writeCSV(t, lines...), DefaultOptions())

	if result.Rejected != 12 {
		t.Errorf("Rejected = %d, want 12", result.Rejected)
	}
	if len(result.Warnings) != maxWarnings {
		t.Errorf("Warnings = %d, want %d", len(result.Warnings), maxWarnings)
	}
}

func TestParseFile_DuplicateKeepsFirst(t *testing.T) {
	path := writeCSV(t,
		`country,year,sex,age,suicides_no,population`,
		`Chile,2000,male,25-34 years,50,1000000`,
		`Chile,2000,Male,25-34 years,99,1000000`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(result.Records))
	}
	if result.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", result.Duplicates)
	}
	if result.Records[0].SuicideCount != 50 {
		t.Errorf("SuicideCount = %d, want 50 (first wins)", result.Records[0].SuicideCount)
	}
}

func TestParseFile_MissingColumn(t *testing.T) {
	path := writeCSV(t,
		`country,year,sex,age,population`,
		`Chile,2000,male,25-34 years,1000000`,
	)

	result := ParseFile(path, DefaultOptions())
	if result.Err == nil {
		t.Fatal("expected error for missing suicides_no column")
	}
	if !errors.Is(result.Err, ErrMissingColumn) {
		t.Errorf("error = %v, want ErrMissingColumn", result.Err)
	}
	var le *LoadError
	if !errors.As(result.Err, &le) || le.Path != path {
		t.Errorf("expected *LoadError for %s, got %v", path, result.Err)
	}
}

func TestParseFile_HeaderOnly(t *testing.T) {
	result := ParseFile(writeCSV(t, `country,year,sex,age,suicides_no,population`), DefaultOptions())
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if len(result.Records) != 0 || result.Rows != 0 {
		t.Errorf("expected no rows, got %d records / %d rows", len(result.Records), result.Rows)
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	result := ParseFile(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	if result.Err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(result.Err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", result.Err)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"country", "country"},
		{"\ufeffcountry", "country"},
		{"suicides/100k pop", "suicides_100k_pop"},
		{" gdp_for_year ($) ", "gdp_for_year"},
		{"gdp_per_capita ($)", "gdp_per_capita"},
		{"HDI for year", "hdi_for_year"},
		{"country-year", "country_year"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIncomeTiers_Classify(t *testing.T) {
	tiers := DefaultIncomeTiers()
	tests := []struct {
		gdp  float64
		want string
	}{
		{0, IncomeLow},
		{1035.99, IncomeLow},
		{1036, IncomeLowerMiddle},
		{4046, IncomeUpperMiddle},
		{12535, IncomeUpperMiddle},
		{12536, IncomeHigh},
		{90000, IncomeHigh},
	}
	for _, tt := range tests {
		if got := tiers.Classify(tt.gdp); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.gdp, got, tt.want)
		}
	}
}

func TestScanPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o750); err != nil {
		t.Fatal(err)
	}

	files, err := ScanPath(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.CSV" || filepath.Base(files[1]) != "b.csv" {
		t.Errorf("unexpected order: %v", files)
	}

	single, err := ScanPath(files[1])
	if err != nil || len(single) != 1 {
		t.Errorf("ScanPath(file) = %v, %v", single, err)
	}
}

func TestScanPath_EmptyDir(t *testing.T) {
	_, err := ScanPath(t.TempDir())
	if !errors.Is(err, ErrNoFiles) {
		t.Errorf("error = %v, want ErrNoFiles", err)
	}
}
