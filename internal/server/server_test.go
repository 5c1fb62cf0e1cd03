package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
)

func testRecords() []model.Record {
	hdi := 0.9
	return []model.Record{
		{Country: "US", Year: 2010, Sex: "male", AgeGroup: "15-24 years", SuicideCount: 10, Population: 1000, RatePer100k: 12, HDIForYear: &hdi, IncomeCategory: "High income"},
		{Country: "US", Year: 2010, Sex: "female", AgeGroup: "15-24 years", SuicideCount: 5, Population: 1000, RatePer100k: 4, IncomeCategory: "High income"},
		{Country: "Japan", Year: 2011, Sex: "male", AgeGroup: "75+ years", SuicideCount: 30, Population: 1000, RatePer100k: 30, IncomeCategory: "High income"},
	}
}

func newTestServer(t *testing.T, records []model.Record) *httptest.Server {
	t.Helper()
	svc := New(Config{
		DataPath: "master.csv",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, records)
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test server URL
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, testRecords())
	resp := getJSON(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, testRecords())
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestStatus(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var st Status
	resp := getJSON(t, ts.URL+"/v1/status", &st)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, st.Rows)
	assert.Equal(t, 2, st.Countries)
	assert.Equal(t, 2010, st.FirstYear)
	assert.Equal(t, "master.csv", st.DataPath)
}

func TestCountries(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var countries []string
	getJSON(t, ts.URL+"/v1/countries", &countries)
	assert.Equal(t, []string{"Japan", "US"}, countries)
}

func TestPages(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var pages []PageInfo
	getJSON(t, ts.URL+"/v1/pages", &pages)

	require.Len(t, pages, 3)
	assert.Equal(t, "Home", pages[0].Title)
	assert.Equal(t, "Global Trends", pages[1].Title)
	assert.Equal(t, "Country Analysis", pages[2].Title)
	assert.True(t, pages[2].NeedsCountry)
	assert.False(t, pages[1].NeedsCountry)
}

func TestView_GlobalSummary(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var body struct {
		View  string              `json:"view"`
		Empty bool                `json:"empty"`
		Data  model.GlobalSummary `json:"data"`
	}
	resp := getJSON(t, ts.URL+"/v1/views/global-summary", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "global-summary", body.View)
	assert.False(t, body.Empty)
	assert.Equal(t, int64(45), body.Data.TotalCases)
	assert.Equal(t, 2, body.Data.CountryCount)
}

func TestView_CountryGender(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var body struct {
		Country string                `json:"country"`
		Data    []model.CategoryTotal `json:"data"`
	}
	getJSON(t, ts.URL+"/v1/views/country-gender?country=US", &body)

	assert.Equal(t, "US", body.Country)
	assert.Equal(t, map[string]int64{"female": 5, "male": 10}, model.CategoryTotals(body.Data).Map())
}

func TestView_TopN(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var body struct {
		Data []model.CountryTotal `json:"data"`
	}
	getJSON(t, ts.URL+"/v1/views/top-countries?n=1", &body)

	require.Len(t, body.Data, 1)
	assert.Equal(t, "Japan", body.Data[0].Country)

	resp := getJSON(t, ts.URL+"/v1/views/top-countries?n=zero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestView_Errors(t *testing.T) {
	ts := newTestServer(t, testRecords())

	var body ErrorBody
	resp := getJSON(t, ts.URL+"/v1/views/not-a-view", &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body.Error)
	assert.NotEmpty(t, body.RequestID)

	resp = getJSON(t, ts.URL+"/v1/views/country-summary", &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Message, "country")
}

func TestView_EmptyIsOK(t *testing.T) {
	ts := newTestServer(t, nil)
	var rep struct {
		Empty bool `json:"empty"`
	}
	resp := getJSON(t, ts.URL+"/v1/views/yearly-trend", &rep)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, rep.Empty)
}

func TestPage_CountryAnalysis(t *testing.T) {
	ts := newTestServer(t, testRecords())
	var page PageReport
	resp := getJSON(t, ts.URL+"/v1/pages/country-analysis?country=Japan", &page)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Japan", page.Country)
	require.Len(t, page.Reports, len(pipeline.PageCountryAnalysis.Views()))
	for _, rep := range page.Reports {
		assert.False(t, rep.Empty, rep.View)
	}

	resp = getJSON(t, ts.URL+"/v1/pages/country-analysis", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = getJSON(t, ts.URL+"/v1/pages/settings", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
