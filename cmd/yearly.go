package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagSex string

var yearlyCmd = &cobra.Command{
	Use:   "yearly",
	Short: "Total cases and average rate per year",
	RunE:  runYearly,
}

var sexesCmd = &cobra.Command{
	Use:   "sexes",
	Short: "Total cases per year split by sex",
	RunE:  runSexes,
}

func init() {
	yearlyCmd.Flags().StringVar(&flagSex, "sex", "", "Only count one sex (male or female)")
	rootCmd.AddCommand(yearlyCmd)
	rootCmd.AddCommand(sexesCmd)
}

func runYearly(_ *cobra.Command, _ []string) error {
	records, err := loadFiltered(loadConfig())
	if err != nil {
		return err
	}

	title := "YEARLY TREND  " + windowLabel()
	if flagSex != "" {
		sex := strings.ToLower(strings.TrimSpace(flagSex))
		records = pipeline.FilterBySex(records, sex)
		title += "  " + sex
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	return printReports(records, pipeline.Request{View: pipeline.ViewYearlyTrend})
}

func runSexes(_ *cobra.Command, _ []string) error {
	records, err := loadFiltered(loadConfig())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CASES BY SEX  " + windowLabel()))
	return printReports(records, pipeline.Request{View: pipeline.ViewYearlyTrendBySex})
}
