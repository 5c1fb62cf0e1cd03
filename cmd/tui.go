package cmd

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/tui"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if err := validateWindow(); err != nil {
		return err
	}

	cfg := loadConfig()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	app := tui.NewApp(tui.Options{
		DataPath:  dataPath(cfg),
		Parse:     config.ParseOptions(cfg),
		CachePath: cachePath(),
		TopN:      topN(cfg, 0),
		Country:   cfg.General.DefaultCountry,
		From:      flagFrom,
		To:        flagTo,
		Config:    cfg,
		NeedSetup: !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
