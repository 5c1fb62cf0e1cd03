package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// pickValues receives the country picker's selection.
type pickValues struct {
	country string
}

func newCountryPicker(countries []string, current string, vals *pickValues) *huh.Form {
	vals.country = current
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Country").
				Description("Type / to filter, Enter to select, Esc to cancel").
				Options(huh.NewOptions(countries...)...).
				Filtering(true).
				Height(16).
				Value(&vals.country),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)
}

func (a App) openPicker() (tea.Model, tea.Cmd) {
	a.picker = newCountryPicker(a.countries, a.country, a.pick)
	if a.width > 0 {
		a.picker = a.picker.WithWidth(min(a.width, 60)).WithHeight(a.height - 4)
	}
	return a, a.picker.Init()
}

func (a App) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" && a.picker.State == huh.StateNormal {
		a.picker = nil
		return a, nil
	}

	form, cmd := a.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.picker = f
	}

	switch a.picker.State {
	case huh.StateCompleted:
		a.picker = nil
		a.selectCountry(a.pick.country)
		return a, nil
	case huh.StateAborted:
		a.picker = nil
		return a, nil
	}
	return a, cmd
}

// selectCountry switches the Country Analysis page to country. Names outside
// the loaded dataset are ignored.
func (a *App) selectCountry(country string) {
	if country == a.country || !containsString(a.countries, country) {
		return
	}
	a.country = country
	a.recompute()
}
