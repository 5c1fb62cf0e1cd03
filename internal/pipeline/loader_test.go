package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/sdash/internal/source"
	"github.com/theirongolddev/sdash/internal/store"
)

const header = "country,year,sex,age,suicides_no,population,suicides/100k pop,HDI for year,gdp_per_capita ($)"

func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))
	return path
}

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", header,
		"US,2010,male,15-24 years,60,500000,12,0.9,48000",
		"US,2010,female,15-24 years,40,1000000,4,,48000",
		"US,2010,female,25-34 years,x,1000000,4,,48000",
	)
	writeFile(t, dir, "b.csv", header,
		"US,2010,male,15-24 years,999,500000,12,0.9,48000",
		"Japan,2011,female,75+ years,50,250000,20,,44000",
	)
	return dir
}

func TestLoad_MergesAndDedups(t *testing.T) {
	var calls atomic.Int64
	result, err := Load(sampleDir(t), source.DefaultOptions(), func(current, total int) {
		calls.Add(1)
		assert.LessOrEqual(t, current, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalFiles)
	assert.Equal(t, 2, result.ParsedFiles)
	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, 1, result.Rejected)
	assert.Equal(t, 1, result.Duplicates)
	require.Len(t, result.Records, 3)
	assert.Equal(t, int64(60), result.Records[0].SuicideCount, "first file wins")
	assert.Equal(t, "Japan", result.Records[2].Country)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "a.csv")
	assert.Equal(t, int64(2), calls.Load())
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "only.csv", header, "Chile,2000,male,25-34 years,50,1000000,5,,5100")

	result, err := Load(path, source.DefaultOptions(), nil)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, source.IncomeUpperMiddle, result.Records[0].IncomeCategory)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), source.DefaultOptions(), nil)
	require.Error(t, err)

	var le *source.LoadError
	assert.True(t, errors.As(err, &le))
}

func TestLoad_MissingColumnIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.csv", "country,year,sex,age,population", "US,2010,male,15-24 years,1")

	_, err := Load(dir, source.DefaultOptions(), nil)
	assert.ErrorIs(t, err, source.ErrMissingColumn)
}

func TestLoadWithCache(t *testing.T) {
	dir := sampleDir(t)
	cache, err := store.Open(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer func() { _ = cache.Close() }()

	opts := source.DefaultOptions()
	plain, err := Load(dir, opts, nil)
	require.NoError(t, err)

	first, err := LoadWithCache(dir, opts, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)
	assert.Equal(t, 2, first.Reparsed)
	assert.Equal(t, plain.Records, first.Records)

	second, err := LoadWithCache(dir, opts, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.CacheHits)
	assert.Equal(t, 0, second.Reparsed)
	assert.Equal(t, plain.Records, second.Records)
	assert.Equal(t, plain.Rejected, second.Rejected)
	assert.Equal(t, plain.Duplicates, second.Duplicates)

	// Touch one file: only it is reparsed.
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "b.csv"), later, later))
	third, err := LoadWithCache(dir, opts, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.CacheHits)
	assert.Equal(t, 1, third.Reparsed)

	// Different income thresholds invalidate every entry.
	opts.Income.High = 50000
	fourth, err := LoadWithCache(dir, opts, cache, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, fourth.Reparsed)
	assert.Equal(t, source.IncomeUpperMiddle, fourth.Records[0].IncomeCategory)
}

func TestLoadCached_FallsBackWhenCacheUnusable(t *testing.T) {
	dir := sampleDir(t)

	// A regular file where the cache directory should be makes Open fail.
	blocker := writeFile(t, t.TempDir(), "not-a-dir", "x")
	cr, err := LoadCached(dir, source.DefaultOptions(), filepath.Join(blocker, "records.db"), nil)
	require.NoError(t, err)
	assert.Len(t, cr.Records, 3)
	assert.Equal(t, 0, cr.CacheHits)
	assert.Equal(t, 2, cr.Reparsed)
}

func TestLoadCached_UsesCache(t *testing.T) {
	dir := sampleDir(t)
	dbPath := filepath.Join(t.TempDir(), "cache", "records.db")

	_, err := LoadCached(dir, source.DefaultOptions(), dbPath, nil)
	require.NoError(t, err)
	cr, err := LoadCached(dir, source.DefaultOptions(), dbPath, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cr.CacheHits)
	assert.Equal(t, 0, cr.Reparsed)
	assert.Equal(t, 1, cr.Rejected)
	require.Len(t, cr.Warnings, 1, "rejected-row warnings must survive a cache hit")
	assert.Contains(t, cr.Warnings[0], "a.csv")
	assert.Contains(t, cr.Warnings[0], "suicides_no")
}
