package cmd

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Describe the loaded dataset: rows, countries, years and columns",
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DATASET  " + dataPath(cfg)))
	return printReports(records, pipeline.Request{View: pipeline.ViewOverview})
}
