package tui

import (
	"fmt"

	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues receives the first-run wizard's answers.
type setupValues struct {
	country string
	topN    int
	theme   string
	saveErr error
}

var topNChoices = []int{5, 10, 15, 20}

// newSetupForm builds the first-run wizard shown once data has loaded and no
// config file exists yet.
func newSetupForm(rows int, countries []string, cfg config.Config, vals *setupValues) *huh.Form {
	vals.country = cfg.General.DefaultCountry
	if vals.country == "" && len(countries) > 0 {
		vals.country = countries[0]
	}
	vals.topN = cfg.General.TopN
	vals.theme = cfg.Appearance.Theme

	topOpts := make([]huh.Option[int], len(topNChoices))
	for i, n := range topNChoices {
		topOpts[i] = huh.NewOption(fmt.Sprintf("Top %d", n), n)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, th := range theme.All {
		themeOpts[i] = huh.NewOption(th.Name, th.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to sdash").
				Description(fmt.Sprintf("Loaded %d rows covering %d countries.\nA few defaults and you're in.", rows, len(countries))),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default country").
				Description("Opened first on the Country Analysis page").
				Options(huh.NewOptions(countries...)...).
				Filtering(true).
				Height(12).
				Value(&vals.country),
			huh.NewSelect[int]().
				Title("Countries in the top list").
				Options(topOpts...).
				Value(&vals.topN),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeCharm())
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.setupVals.saveErr = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		a.recompute()
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig applies the wizard answers to the session and persists them.
func (a *App) saveSetupConfig() error {
	vals := a.setupVals
	cfg := a.opts.Config
	cfg.General.DefaultCountry = vals.country
	cfg.General.TopN = vals.topN
	cfg.Appearance.Theme = vals.theme

	theme.SetActive(vals.theme)
	a.opts.TopN = vals.topN
	if containsString(a.countries, vals.country) {
		a.country = vals.country
	}
	a.opts.Config = cfg

	return config.Save(cfg)
}
