package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/sdash/internal/export"
	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagExportDir     string
	flagExportXLSX    string
	flagExportCountry string
	flagExportNoPNG   bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write PNG charts and an XLSX workbook for every dashboard view",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportDir, "dir", "sdash-export", "Output directory for charts")
	exportCmd.Flags().StringVar(&flagExportXLSX, "xlsx", "", "Workbook path (default <dir>/sdash.xlsx)")
	exportCmd.Flags().StringVar(&flagExportCountry, "country", "", "Country for the Country Analysis views (default from config)")
	exportCmd.Flags().BoolVar(&flagExportNoPNG, "no-charts", false, "Only write the workbook")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	country := flagExportCountry
	if country == "" {
		country = cfg.General.DefaultCountry
	}
	reports, err := exportReports(records, country, topN(cfg, 0))
	if err != nil {
		return err
	}

	if !flagExportNoPNG {
		written, err := export.WriteCharts(flagExportDir, reports)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Printf("  %s\n", p)
		}
	}

	xlsx := flagExportXLSX
	if xlsx == "" {
		xlsx = filepath.Join(flagExportDir, "sdash.xlsx")
	}
	if err := os.MkdirAll(filepath.Dir(xlsx), 0o750); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	if err := export.WriteWorkbook(xlsx, reports); err != nil {
		return err
	}
	fmt.Printf("  %s (%d sheets)\n", xlsx, len(reports))
	return nil
}

// exportReports builds every page's views in navigation order. Country views
// are included only when a country is given.
func exportReports(records []model.Record, country string, n int) ([]pipeline.Report, error) {
	if country != "" {
		if resolved, ok := resolveCountry(pipeline.Countries(records), country); ok {
			country = resolved
		} else if !flagQuiet {
			fmt.Fprintf(os.Stderr, "  No rows for %q; country sheets will be empty\n", country)
		}
	}

	var reports []pipeline.Report
	for _, p := range pipeline.Pages {
		for _, v := range p.Views() {
			if v.NeedsCountry() && country == "" {
				continue
			}
			rep, err := pipeline.Build(records, pipeline.Request{View: v, Country: country, TopN: n})
			if err != nil {
				return nil, err
			}
			reports = append(reports, rep)
		}
	}
	return reports, nil
}
