package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/pipeline"

	"github.com/spf13/cobra"
)

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List countries with their totals and years covered",
	RunE:  runCountries,
}

var countryCmd = &cobra.Command{
	Use:   "country <name>",
	Short: "Country analysis: totals, trend, sex and age split, GDP against rate",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCountry,
}

func init() {
	rootCmd.AddCommand(countriesCmd)
	rootCmd.AddCommand(countryCmd)
}

func runCountries(_ *cobra.Command, _ []string) error {
	records, err := loadFiltered(loadConfig())
	if err != nil {
		return err
	}

	countries := pipeline.Countries(records)
	if len(countries) == 0 {
		fmt.Println()
		fmt.Print(cli.RenderNoData("the selected years"))
		return nil
	}

	rows := make([][]string, 0, len(countries))
	for _, c := range countries {
		s := pipeline.CountrySummary(records, c)
		rows = append(rows, []string{
			c,
			cli.FormatNumber(s.TotalCases),
			cli.FormatRate(s.AverageRate),
			strconv.Itoa(s.YearsCovered),
		})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COUNTRIES  %d  %s", len(countries), windowLabel())))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Country", "Cases", "Avg rate", "Years"},
		Rows:    rows,
	}))
	return nil
}

func runCountry(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	name := cfg.General.DefaultCountry
	if len(args) == 1 {
		name = args[0]
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("country: %w (pass a name or set general.default_country)", pipeline.ErrCountryRequired)
	}

	records, err := loadFiltered(cfg)
	if err != nil {
		return err
	}

	country, ok := resolveCountry(pipeline.Countries(records), name)
	if !ok && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  No rows for %q; try `sdash countries`\n", name)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(country) + "  " + windowLabel()))

	views := pipeline.PageCountryAnalysis.Views()
	reqs := make([]pipeline.Request, len(views))
	for i, v := range views {
		reqs[i] = pipeline.Request{View: v, Country: country}
	}
	return printReports(records, reqs...)
}

// resolveCountry matches name against the loaded countries ignoring case.
// An unmatched name is returned unchanged so its views report no data.
func resolveCountry(countries []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range countries {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return name, false
}

