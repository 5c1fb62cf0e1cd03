package cmd

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline totals, cases per year and the top countries",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println()
		fmt.Print(cli.RenderNoData(fmt.Sprintf("the selected years (%s)", windowLabel())))
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SUICIDE STATISTICS  " + windowLabel()))

	return printReports(records,
		pipeline.Request{View: pipeline.ViewGlobalSummary},
		pipeline.Request{View: pipeline.ViewYearlyTrend},
		pipeline.Request{View: pipeline.ViewTopCountries, TopN: topN(cfg, 0)},
	)
}
