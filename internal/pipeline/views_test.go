package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/sdash/internal/model"
)

func TestParseView(t *testing.T) {
	for _, v := range AllViews {
		got, err := ParseView(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	got, err := ParseView(" Yearly-Trend ")
	require.NoError(t, err)
	assert.Equal(t, ViewYearlyTrend, got)

	_, err = ParseView("pie-of-everything")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestBuild_EveryView(t *testing.T) {
	records := fixture()
	for _, v := range AllViews {
		rep, err := Build(records, Request{View: v, Country: "US"})
		require.NoError(t, err, v)
		assert.Equal(t, v, rep.View)
		assert.NotEmpty(t, rep.Title)
		assert.False(t, rep.Empty, "view %s should have data", v)
		assert.NotNil(t, rep.Data)
	}
}

func TestBuild_CountryRequired(t *testing.T) {
	_, err := Build(fixture(), Request{View: ViewCountryGender})
	assert.ErrorIs(t, err, ErrCountryRequired)

	_, err = Build(fixture(), Request{View: ViewCountrySummary, Country: "  "})
	assert.ErrorIs(t, err, ErrCountryRequired)
}

func TestBuild_UnknownView(t *testing.T) {
	_, err := Build(fixture(), Request{View: View("nope")})
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestBuild_EmptyInput(t *testing.T) {
	for _, v := range AllViews {
		rep, err := Build(nil, Request{View: v, Country: "US"})
		require.NoError(t, err, v)
		assert.True(t, rep.Empty, "view %s should be empty", v)
	}
}

func TestBuild_TopN(t *testing.T) {
	rep, err := Build(fixture(), Request{View: ViewTopCountries, TopN: 1})
	require.NoError(t, err)
	top, ok := rep.Data.([]model.CountryTotal)
	require.True(t, ok)
	assert.Len(t, top, 1)

	rep, err = Build(fixture(), Request{View: ViewTopCountries})
	require.NoError(t, err)
	assert.Len(t, rep.Data.([]model.CountryTotal), 3)
}

func TestBuild_UnknownCountryIsEmpty(t *testing.T) {
	rep, err := Build(fixture(), Request{View: ViewCountrySummary, Country: "Atlantis"})
	require.NoError(t, err)
	assert.True(t, rep.Empty)
	assert.Equal(t, "Atlantis", rep.Country)
}

func TestPages(t *testing.T) {
	seen := make(map[View]bool)
	for _, p := range Pages {
		assert.NotEmpty(t, p.Title())
		for _, v := range p.Views() {
			assert.False(t, seen[v], "view %s on two pages", v)
			seen[v] = true
			assert.Equal(t, p == PageCountryAnalysis, v.NeedsCountry(), v)
		}
	}
	assert.Len(t, seen, len(AllViews))
}
