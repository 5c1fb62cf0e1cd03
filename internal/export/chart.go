package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

// ErrNoChart is returned for reports that have no chart form (summaries) or
// no data.
var ErrNoChart = errors.New("view has no chart")

const (
	chartWidth  = 1024
	chartHeight = 576
)

// Flexoki accents, matching the terminal theme.
var (
	colorAccent = drawing.ColorFromHex("3AA99F")
	colorBlue   = drawing.ColorFromHex("4385BE")
	colorOrange = drawing.ColorFromHex("DA702C")
	colorPurple = drawing.ColorFromHex("8B7EC8")
	colorGreen  = drawing.ColorFromHex("879A39")
	colorRed    = drawing.ColorFromHex("D14D41")
	palette     = []drawing.Color{colorBlue, colorOrange, colorAccent, colorPurple, colorGreen, colorRed}
)

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    3,
	}
}

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// RenderChart renders a report as a PNG image.
func RenderChart(w io.Writer, rep pipeline.Report) error {
	if rep.Empty {
		return fmt.Errorf("%s: %w", rep.View, ErrNoChart)
	}
	title := rep.Title
	if rep.Country != "" {
		title += " - " + rep.Country
	}

	switch d := rep.Data.(type) {
	case []model.YearTotals:
		xs, ys := make([]float64, len(d)), make([]float64, len(d))
		for i, y := range d {
			xs[i], ys[i] = float64(y.Year), float64(y.TotalCases)
		}
		return renderLines(w, title, "Cases", []chart.Series{
			chart.ContinuousSeries{Name: "Cases", XValues: xs, YValues: ys, Style: lineStyle(colorAccent)},
		}, xs, ys)

	case []model.YearSexTotal:
		bySex := make(map[string]*chart.ContinuousSeries)
		var order []string
		var allX, allY []float64
		for _, t := range d {
			s, ok := bySex[t.Sex]
			if !ok {
				s = &chart.ContinuousSeries{Name: t.Sex, Style: lineStyle(palette[len(order)%len(palette)])}
				bySex[t.Sex] = s
				order = append(order, t.Sex)
			}
			s.XValues = append(s.XValues, float64(t.Year))
			s.YValues = append(s.YValues, float64(t.TotalCases))
			allX = append(allX, float64(t.Year))
			allY = append(allY, float64(t.TotalCases))
		}
		series := make([]chart.Series, 0, len(order))
		for _, sex := range order {
			series = append(series, *bySex[sex])
		}
		return renderLines(w, title, "Cases", series, allX, allY)

	case []model.YearGDPRate:
		xs := make([]float64, len(d))
		gdp, rate := make([]float64, len(d)), make([]float64, len(d))
		for i, y := range d {
			xs[i], gdp[i], rate[i] = float64(y.Year), y.AverageGDPPerCapita, y.AverageRate
		}
		ch := chart.Chart{
			Title:          title,
			Width:          chartWidth,
			Height:         chartHeight,
			Background:     chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			XAxis:          chart.XAxis{Name: "Year", ValueFormatter: yearFormatter, Range: paddedRange(xs)},
			YAxis:          chart.YAxis{Name: "Rate per 100k", Range: paddedRange(rate)},
			YAxisSecondary: chart.YAxis{Name: "GDP per capita ($)", Range: paddedRange(gdp)},
			Series: []chart.Series{
				chart.ContinuousSeries{Name: "Average rate", XValues: xs, YValues: rate, Style: lineStyle(colorOrange)},
				chart.ContinuousSeries{Name: "GDP per capita", XValues: xs, YValues: gdp, Style: lineStyle(colorGreen), YAxis: chart.YAxisSecondary},
			},
		}
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
		return ch.Render(chart.PNG, w)

	case []model.HDIPoint:
		xs, ys := make([]float64, len(d)), make([]float64, len(d))
		for i, p := range d {
			xs[i], ys[i] = p.HDI, p.Rate
		}
		ch := chart.Chart{
			Title:      title,
			Width:      chartWidth,
			Height:     chartHeight,
			Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
			XAxis:      chart.XAxis{Name: "HDI", Range: paddedRange(xs)},
			YAxis:      chart.YAxis{Name: "Rate per 100k", Range: paddedRange(ys)},
			Series: []chart.Series{
				chart.ContinuousSeries{Name: "Rows", XValues: xs, YValues: ys, Style: pointStyle(colorBlue)},
			},
		}
		return ch.Render(chart.PNG, w)

	case []model.CategoryRate:
		bars := make([]chart.Value, 0, len(d))
		for _, c := range d {
			bars = append(bars, chart.Value{Label: c.Category, Value: c.AverageRate})
		}
		return renderBars(w, title, bars)

	case []model.CountryTotal:
		bars := make([]chart.Value, 0, len(d))
		for _, c := range d {
			bars = append(bars, chart.Value{Label: c.Country, Value: float64(c.TotalCases)})
		}
		return renderBars(w, title, bars)

	case model.CategoryTotals:
		values := make([]chart.Value, 0, len(d))
		for i, c := range d {
			values = append(values, chart.Value{
				Label: c.Category,
				Value: float64(c.TotalCases),
				Style: chart.Style{FillColor: palette[i%len(palette)]},
			})
		}
		pie := chart.PieChart{
			Title:  title,
			Width:  chartHeight,
			Height: chartHeight,
			Values: values,
		}
		return pie.Render(chart.PNG, w)
	}

	return fmt.Errorf("%s: %w", rep.View, ErrNoChart)
}

func renderLines(w io.Writer, title, yName string, series []chart.Series, xs, ys []float64) error {
	ch := chart.Chart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Year", ValueFormatter: yearFormatter, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: yName, Range: paddedRange(ys)},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}
	return ch.Render(chart.PNG, w)
}

func renderBars(w io.Writer, title string, bars []chart.Value) error {
	for i := range bars {
		bars[i].Style = chart.Style{FillColor: colorAccent, StrokeColor: colorAccent}
	}
	hi := 0.0
	for _, b := range bars {
		if b.Value > hi {
			hi = b.Value
		}
	}
	if hi == 0 {
		hi = 1
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   40,
		Bars:       bars,
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: hi * 1.1}},
	}
	return bc.Render(chart.PNG, w)
}

// paddedRange returns an explicit axis range when every value is equal, which
// go-chart cannot auto-range. nil lets go-chart pick.
func paddedRange(vals []float64) chart.Range {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo != hi {
		return nil
	}
	pad := 1.0
	if lo != 0 {
		pad = lo * 0.1
		if pad < 0 {
			pad = -pad
		}
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// WriteCharts renders every chartable, non-empty report into dir and
// returns the written paths. Summaries and empty reports are skipped.
func WriteCharts(dir string, reports []pipeline.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	var written []string
	for _, rep := range reports {
		path := filepath.Join(dir, baseName(rep)+".png")
		if err := writeChart(path, rep); err != nil {
			if errors.Is(err, ErrNoChart) {
				continue
			}
			return written, fmt.Errorf("rendering %s: %w", rep.View, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func writeChart(path string, rep pipeline.Report) (err error) {
	if !hasChart(rep) {
		return fmt.Errorf("%s: %w", rep.View, ErrNoChart)
	}
	f, err := os.Create(path) //nolint:gosec // path is built from the export dir
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return RenderChart(f, rep)
}

func hasChart(rep pipeline.Report) bool {
	if rep.Empty {
		return false
	}
	switch rep.Data.(type) {
	case []model.YearTotals, []model.YearSexTotal, []model.YearGDPRate, []model.HDIPoint,
		[]model.CategoryRate, []model.CountryTotal, model.CategoryTotals:
		return true
	}
	return false
}
