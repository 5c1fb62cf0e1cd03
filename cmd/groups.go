package cmd

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var agesCmd = &cobra.Command{
	Use:   "ages",
	Short: "Average rate per 100k by age group",
	RunE:  viewRunner("RATE BY AGE GROUP", pipeline.ViewAgeGroups),
}

var incomeCmd = &cobra.Command{
	Use:   "income",
	Short: "Average rate per 100k by income category",
	RunE:  viewRunner("RATE BY INCOME", pipeline.ViewIncome),
}

var hdiCmd = &cobra.Command{
	Use:   "hdi",
	Short: "Rate per 100k against the Human Development Index",
	RunE:  viewRunner("RATE VS HDI", pipeline.ViewRateVsHDI),
}

func init() {
	rootCmd.AddCommand(agesCmd)
	rootCmd.AddCommand(incomeCmd)
	rootCmd.AddCommand(hdiCmd)
}

// viewRunner returns a RunE that prints one dataset-wide view.
func viewRunner(heading string, v pipeline.View) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, _ []string) error {
		records, err := loadFiltered(loadConfig())
		if err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(heading + "  " + windowLabel()))
		return printReports(records, pipeline.Request{View: v})
	}
}
