package pipeline

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Records     []model.Record
	TotalFiles  int
	ParsedFiles int
	Rows        int
	Rejected    int
	Duplicates  int      // within and across files; the first occurrence wins
	Warnings    []string // sample of rejected rows, prefixed with the file path
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses every CSV file under path.
// It uses a bounded worker pool for parallel parsing. Any unreadable file or
// missing required column aborts the load with a *source.LoadError.
func Load(path string, opts source.Options, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanPath(path)
	if err != nil {
		return nil, err
	}

	results := parseFiles(files, opts, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	result := &LoadResult{TotalFiles: len(files)}
	m := newMerger(result)
	for _, pr := range results {
		if pr.Err != nil {
			return nil, pr.Err
		}
		m.add(pr.Path, pr.Records, pr.Rows, pr.Rejected, pr.Duplicates, pr.Warnings)
	}
	return result, nil
}

// parseFiles runs source.ParseFile over files with a bounded worker pool.
// Results keep the order of files. done receives the running completion count.
func parseFiles(files []string, opts source.Options, done func(int)) []source.ParseResult {
	results := make([]source.ParseResult, len(files))
	if len(files) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	// Feed work
	for i := range files {
		work <- i
	}
	close(work)

	// Spawn workers
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx], opts)
				n := processed.Add(1)
				if done != nil {
					done(int(n))
				}
			}
		}()
	}

	wg.Wait()
	return results
}

// merger concatenates per-file records in file order and drops keys already
// contributed by an earlier file.
type merger struct {
	res  *LoadResult
	seen map[string]struct{}
}

func newMerger(res *LoadResult) *merger {
	return &merger{res: res, seen: make(map[string]struct{})}
}

func (m *merger) add(path string, records []model.Record, rows, rejected, duplicates int, warnings []string) {
	m.res.ParsedFiles++
	m.res.Rows += rows
	m.res.Rejected += rejected
	m.res.Duplicates += duplicates
	for _, w := range warnings {
		m.res.Warnings = append(m.res.Warnings, path+": "+w)
	}

	for _, r := range records {
		key := r.Key()
		if _, dup := m.seen[key]; dup {
			m.res.Duplicates++
			continue
		}
		m.seen[key] = struct{}{}
		m.res.Records = append(m.res.Records, r)
	}
}
