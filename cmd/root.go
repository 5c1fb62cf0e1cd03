// Package cmd implements the sdash CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/spf13/cobra"
)

var (
	flagData    string
	flagFrom    int
	flagTo      int
	flagNoCache bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "sdash",
	Short: "Suicide statistics reports and dashboard",
	Long:  "Explore suicide statistics by country, year, sex, age group, income and HDI.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "f", "", "CSV file or directory (default from config or $"+config.DataFileEnv+")")
	rootCmd.PersistentFlags().IntVar(&flagFrom, "from", 0, "First year to include")
	rootCmd.PersistentFlags().IntVar(&flagTo, "to", 0, "Last year to include")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig reads the config file and applies its theme. A broken file
// falls back to defaults with a warning.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Warning: %v (using defaults)\n", err)
	}
	theme.SetActive(cfg.Appearance.Theme)
	return cfg
}

// dataPath resolves the input path: --data, then $SDASH_DATA, then the config.
func dataPath(cfg config.Config) string {
	if flagData != "" {
		return flagData
	}
	return config.DataFile(cfg)
}

func cachePath() string {
	if flagNoCache {
		return ""
	}
	return pipeline.CachePath()
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData(cfg config.Config) (*pipeline.CachedLoadResult, error) {
	path := dataPath(cfg)
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Reading %s...\n", path)
	}

	progressFn := func(current, total int) {
		if flagQuiet || total < 2 {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}

	result, err := pipeline.LoadCached(path, config.ParseOptions(cfg), cachePath(), progressFn)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		switch {
		case result.Reparsed == 0 && result.CacheHits > 0:
			fmt.Fprintf(os.Stderr, "\r  Loaded %s rows from cache    \n", formatNumber(int64(len(result.Records))))
		case result.CacheHits > 0:
			fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed files, %s rows    \n",
				result.CacheHits, result.Reparsed, formatNumber(int64(len(result.Records))))
		default:
			fmt.Fprintf(os.Stderr, "\r  Parsed %s rows from %d files    \n",
				formatNumber(int64(len(result.Records))), result.ParsedFiles)
		}
		printLoadWarnings(&result.LoadResult)
	}

	return result, nil
}

func printLoadWarnings(res *pipeline.LoadResult) {
	if res.Rejected > 0 {
		fmt.Fprintf(os.Stderr, "  %s rows rejected\n", formatNumber(int64(res.Rejected)))
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "    %s\n", w)
		}
	}
	if res.Duplicates > 0 {
		fmt.Fprintf(os.Stderr, "  %s duplicate rows skipped\n", formatNumber(int64(res.Duplicates)))
	}
}

// validateWindow checks --from/--to. Zero leaves a bound open.
func validateWindow() error {
	if flagFrom < 0 || flagTo < 0 {
		return fmt.Errorf("--from and --to must be positive years, got %d and %d", flagFrom, flagTo)
	}
	if flagFrom != 0 && flagTo != 0 && flagFrom > flagTo {
		return fmt.Errorf("--from %d is after --to %d", flagFrom, flagTo)
	}
	return nil
}

// applyFilters returns the records inside the --from/--to window.
func applyFilters(records []model.Record) ([]model.Record, error) {
	if err := validateWindow(); err != nil {
		return nil, err
	}
	return pipeline.FilterByYears(records, flagFrom, flagTo), nil
}

// loadFiltered loads the dataset and applies the global filters.
func loadFiltered(cfg config.Config) ([]model.Record, error) {
	result, err := loadData(cfg)
	if err != nil {
		return nil, err
	}
	return applyFilters(result.Records)
}

// printReports builds each request and prints it. An unknown country is not
// an error: its views print as "No data".
func printReports(records []model.Record, reqs ...pipeline.Request) error {
	for _, req := range reqs {
		rep, err := pipeline.Build(records, req)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(cli.RenderReport(rep))
	}
	return nil
}

// windowLabel describes the --from/--to window for titles.
func windowLabel() string {
	switch {
	case flagFrom == 0 && flagTo == 0:
		return "All years"
	case flagTo == 0:
		return fmt.Sprintf("%d onwards", flagFrom)
	case flagFrom == 0:
		return fmt.Sprintf("up to %d", flagTo)
	}
	return cli.FormatYearRange(flagFrom, flagTo)
}

func topN(cfg config.Config, override int) int {
	if override > 0 {
		return override
	}
	if cfg.General.TopN > 0 {
		return cfg.General.TopN
	}
	return pipeline.DefaultTopN
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
