package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

func TestRenderTable_HeadersAndRows(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Top",
		Headers: []string{"Country", "Cases"},
		Rows:    [][]string{{"Russian Federation", "1,209,742"}, {"---"}, {"US", "1,034,013"}},
	})

	for _, want := range []string{"Top", "Country", "Cases", "Russian Federation", "1,034,013", "╭", "╯"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_AlignsByContent(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"#", "Country", "Cases"},
		Rows:    [][]string{{"1", "Réunion", "9"}, {"10", "US", "1,034,013"}},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	for _, l := range lines[1:] {
		if lipgloss.Width(l) != lipgloss.Width(lines[0]) {
			t.Errorf("ragged table:\n%s", out)
			break
		}
	}
	if !strings.Contains(out, " US      ") {
		t.Errorf("text column should be left-aligned:\n%s", out)
	}
	if !strings.Contains(out, "         9 ") {
		t.Errorf("numeric column should be right-aligned:\n%s", out)
	}
}

func TestLooksNumeric(t *testing.T) {
	for in, want := range map[string]bool{
		"1,209,742": true, "$4,120": true, "12.5%": true, "-": true, "1990-2010": true,
		"US": false, "15-24 years": false, "": false,
	} {
		if got := looksNumeric(in); got != want {
			t.Errorf("looksNumeric(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline(nil); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
	got := []rune(RenderSparkline([]float64{0, 5, 10}))
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != '▁' || got[2] != '█' {
		t.Errorf("sparkline = %q", string(got))
	}
}

func TestRenderReport_Empty(t *testing.T) {
	rep, err := pipeline.Build(nil, pipeline.Request{View: pipeline.ViewCountrySummary, Country: "Atlantis"})
	if err != nil {
		t.Fatal(err)
	}
	out := RenderReport(rep)
	if !strings.Contains(out, "No data") || !strings.Contains(out, "Atlantis") {
		t.Errorf("unexpected empty render: %q", out)
	}
}

func TestRenderReport_EveryView(t *testing.T) {
	hdi := 0.8
	records := []model.Record{
		{Country: "US", Year: 2010, Sex: "male", AgeGroup: "15-24 years", SuicideCount: 10, Population: 1000, RatePer100k: 12, HDIForYear: &hdi, IncomeCategory: "High income", GDPPerCapita: 48000},
		{Country: "US", Year: 2011, Sex: "female", AgeGroup: "75+ years", SuicideCount: 5, Population: 1000, RatePer100k: 4, IncomeCategory: "High income", GDPPerCapita: 49000},
	}

	for _, v := range pipeline.AllViews {
		rep, err := pipeline.Build(records, pipeline.Request{View: v, Country: "US"})
		if err != nil {
			t.Fatalf("%s: %v", v, err)
		}
		out := RenderReport(rep)
		if out == "" {
			t.Errorf("%s rendered nothing", v)
		}
		if strings.Contains(out, "No data") {
			t.Errorf("%s rendered as empty:\n%s", v, out)
		}
	}
}

func TestRenderReport_CategoryShares(t *testing.T) {
	rep := pipeline.Report{
		View:  pipeline.ViewCountryGender,
		Title: "Cases by Sex",
		Data: model.CategoryTotals{
			{Category: "female", TotalCases: 5},
			{Category: "male", TotalCases: 15},
		},
	}
	out := RenderReport(rep)
	if !strings.Contains(out, "25.0%") || !strings.Contains(out, "75.0%") {
		t.Errorf("missing shares:\n%s", out)
	}
}
