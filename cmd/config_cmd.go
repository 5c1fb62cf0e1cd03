package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/pipeline"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/spf13/cobra"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data file:       %s\n", cfg.General.DataFile)
	if env := os.Getenv(config.DataFileEnv); env != "" {
		fmt.Printf("    %s:      %s (overrides data file)\n", config.DataFileEnv, env)
	}
	fmt.Printf("    Top N:           %d\n", cfg.General.TopN)
	if cfg.General.DefaultCountry != "" {
		fmt.Printf("    Default country: %s\n", cfg.General.DefaultCountry)
	} else {
		fmt.Println("    Default country: first alphabetically")
	}
	fmt.Println()

	fmt.Println("  [Income]")
	fmt.Printf("    Lower middle from: %s\n", cli.FormatUSD(cfg.Income.LowerMiddle))
	fmt.Printf("    Upper middle from: %s\n", cli.FormatUSD(cfg.Income.UpperMiddle))
	fmt.Printf("    High from:         %s\n", cli.FormatUSD(cfg.Income.High))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	if theme.ByName(cfg.Appearance.Theme).Name != cfg.Appearance.Theme {
		fmt.Printf("    (unknown theme, using %s)\n", theme.ByName(cfg.Appearance.Theme).Name)
	}
	fmt.Println()

	fmt.Printf("  Cache: %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  Run `sdash config init` to write a config file, or `sdash tui` for guided setup.")
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if config.Exists() && !flagConfigForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.ConfigPath())
	}
	if err := config.Save(config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", config.ConfigPath())
	return nil
}

