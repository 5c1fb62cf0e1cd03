package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/sdash/internal/source"
	"github.com/theirongolddev/sdash/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers files, diffs them against the cache, parses only
// changed files, and returns the combined record set in file order.
func LoadWithCache(path string, opts source.Options, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanPath(path)
	if err != nil {
		return nil, err
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	optsKey := opts.Key()
	stats := make([]os.FileInfo, len(files))
	fresh := make([]bool, len(files))
	var toReparse []string
	for i, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return nil, &source.LoadError{Path: f, Err: err}
		}
		stats[i] = info

		tf, ok := tracked[cacheKey(f)]
		if ok && tf.Matches(info.ModTime().UnixNano(), info.Size(), optsKey) {
			fresh[i] = true
		} else {
			toReparse = append(toReparse, f)
		}
	}

	result.Reparsed = len(toReparse)
	result.CacheHits = len(files) - len(toReparse)

	parsed := parseFiles(toReparse, opts, func(n int) {
		if progressFn != nil {
			progressFn(n+result.CacheHits, result.TotalFiles)
		}
	})
	byPath := make(map[string]source.ParseResult, len(parsed))
	for _, pr := range parsed {
		if pr.Err != nil {
			return nil, pr.Err
		}
		byPath[pr.Path] = pr
	}

	// Merge in file order so cross-file dedup matches Load
	m := newMerger(&result.LoadResult)
	for i, f := range files {
		if fresh[i] {
			records, err := cache.LoadFile(cacheKey(f))
			if err != nil {
				return nil, fmt.Errorf("loading cached records for %s: %w", f, err)
			}
			tf := tracked[cacheKey(f)]
			m.add(f, records, tf.Rows, tf.Rejected, tf.Duplicates, tf.Warnings)
			continue
		}

		pr := byPath[f]
		m.add(f, pr.Records, pr.Rows, pr.Rejected, pr.Duplicates, pr.Warnings)

		_ = cache.SaveFile(store.TrackedFile{
			Path:       cacheKey(f),
			MtimeNs:    stats[i].ModTime().UnixNano(),
			SizeBytes:  stats[i].Size(),
			OptionsKey: optsKey,
			Rows:       pr.Rows,
			Rejected:   pr.Rejected,
			Duplicates: pr.Duplicates,
			Warnings:   pr.Warnings,
		}, pr.Records)
	}

	return result, nil
}

// LoadCached loads through the cache database at cachePath. An empty
// cachePath skips the cache. If the cache cannot be opened or read it falls
// back to a plain Load, so a broken cache costs time but never data.
func LoadCached(path string, opts source.Options, cachePath string, progressFn ProgressFunc) (*CachedLoadResult, error) {
	if cachePath != "" {
		if cache, err := store.Open(cachePath); err == nil {
			cr, loadErr := LoadWithCache(path, opts, cache, progressFn)
			_ = cache.Close()
			if loadErr == nil {
				return cr, nil
			}
		}
	}

	res, err := Load(path, opts, progressFn)
	if err != nil {
		return nil, err
	}
	return &CachedLoadResult{LoadResult: *res, Reparsed: res.ParsedFiles}, nil
}

// cacheKey tracks files by absolute path so relative invocations share entries.
func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "sdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "sdash")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "records.db")
}
