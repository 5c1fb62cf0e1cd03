package cmd

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagTopN int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Countries with the most cases",
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVarP(&flagTopN, "limit", "n", 0, "Number of countries (default from config)")
	rootCmd.AddCommand(topCmd)
}

func runTop(_ *cobra.Command, _ []string) error {
	if flagTopN < 0 {
		return fmt.Errorf("--limit must not be negative, got %d", flagTopN)
	}

	cfg := loadConfig()
	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	n := topN(cfg, flagTopN)
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TOP %d COUNTRIES  %s", n, windowLabel())))
	return printReports(records, pipeline.Request{View: pipeline.ViewTopCountries, TopN: n})
}
