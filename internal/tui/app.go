// Package tui provides the interactive Bubble Tea dashboard for sdash.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/sdash/internal/cli"
	"github.com/theirongolddev/sdash/internal/config"
	"github.com/theirongolddev/sdash/internal/model"
	"github.com/theirongolddev/sdash/internal/pipeline"
	"github.com/theirongolddev/sdash/internal/source"
	"github.com/theirongolddev/sdash/internal/tui/components"
	"github.com/theirongolddev/sdash/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the dataset has finished loading.
type DataLoadedMsg struct {
	Result   *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// ProgressMsg reports file parsing progress during load.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg carries a background reload triggered with "r".
type RefreshDataMsg struct {
	Result   *pipeline.CachedLoadResult
	Err      error
	LoadTime time.Duration
}

// Options configures the dashboard.
type Options struct {
	DataPath  string
	Parse     source.Options
	CachePath string // empty disables the cache
	TopN      int
	Country   string // initial country for the Country Analysis page
	From, To  int    // year range; zero is open

	// Config is written back when the first-run setup completes.
	Config    config.Config
	NeedSetup bool
}

// Layout constants
const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// loadStats summarizes the last load for the Home page and status bar.
type loadStats struct {
	files      int
	rows       int
	rejected   int
	duplicates int
	cacheHits  int
	warnings   []string
}

// App is the root Bubble Tea model.
type App struct {
	opts Options

	all       []model.Record
	records   []model.Record // all, narrowed to the year range
	countries []string
	reports   map[pipeline.View]pipeline.Report
	stats     loadStats

	loaded      bool
	loadErr     error
	loadTime    time.Duration
	refreshing  bool
	progress    int
	progressMax int
	spinner     spinner.Model
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine

	width     int
	height    int
	activeTab int
	showHelp  bool
	scroll    int

	country string
	from    int
	to      int

	// Huh forms write through pointers because App is copied on every Update.
	picker    *huh.Form
	pick      *pickValues
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	years        textinput.Model
	editingYears bool
	yearsErr     string
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:      opts,
		country:   opts.Country,
		from:      opts.From,
		to:        opts.To,
		needSetup: opts.NeedSetup,
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
		pick:      &pickValues{},
		setupVals: &setupValues{},
		years:     newYearsInput(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

// setData installs a freshly loaded dataset.
func (a *App) setData(cr *pipeline.CachedLoadResult) {
	a.all = cr.Records
	a.countries = pipeline.Countries(a.all)
	a.stats = loadStats{
		files:      cr.TotalFiles,
		rows:       cr.Rows,
		rejected:   cr.Rejected,
		duplicates: cr.Duplicates,
		cacheHits:  cr.CacheHits,
		warnings:   cr.Warnings,
	}
	if !containsString(a.countries, a.country) {
		a.country = ""
		if len(a.countries) > 0 {
			a.country = a.countries[0]
		}
	}
	a.recompute()
}

// recompute rebuilds every page's views from the current filters.
func (a *App) recompute() {
	a.records = pipeline.FilterByYears(a.all, a.from, a.to)
	a.reports = make(map[pipeline.View]pipeline.Report)
	for _, p := range pipeline.Pages {
		for _, v := range p.Views() {
			if v.NeedsCountry() && a.country == "" {
				continue
			}
			rep, err := pipeline.Build(a.records, pipeline.Request{View: v, Country: a.country, TopN: a.opts.TopN})
			if err != nil {
				continue
			}
			a.reports[v] = rep
		}
	}
	a.scroll = 0
}

// report returns the built view and whether it has anything to show.
func (a App) report(v pipeline.View) (pipeline.Report, bool) {
	rep, ok := a.reports[v]
	return rep, ok && !rep.Empty
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(min(msg.Width, 70)).WithHeight(msg.Height)
		}
		if a.picker != nil {
			a.picker = a.picker.WithWidth(min(msg.Width, 60)).WithHeight(msg.Height - 4)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.picker != nil || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.scrollBy(-3)
		case tea.MouseButtonWheelDown:
			a.scrollBy(3)
		case tea.MouseButtonLeft:
			if msg.Action == tea.MouseActionPress && msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.setTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadTime = msg.LoadTime
		if msg.Err != nil {
			a.loadErr = msg.Err
			return a, nil
		}
		a.setData(msg.Result)

		if a.needSetup {
			a.setupForm = newSetupForm(a.stats.rows, a.countries, a.opts.Config, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(min(a.width, 70)).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case RefreshDataMsg:
		a.refreshing = false
		a.loadTime = msg.LoadTime
		if msg.Err == nil && msg.Result != nil {
			a.setData(msg.Result)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages (cursor blinks, etc.) to an active form.
	switch {
	case a.setupForm != nil:
		return a.updateSetupForm(msg)
	case a.picker != nil:
		return a.updatePicker(msg)
	case a.editingYears:
		var cmd tea.Cmd
		a.years, cmd = a.years.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}
	if a.loadErr != nil {
		if key == "q" || key == "esc" || key == "enter" {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.picker != nil {
		return a.updatePicker(msg)
	}
	if a.editingYears {
		return a.updateYearsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.setTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right", "tab":
		a.setTab((a.activeTab + 1) % len(components.Tabs))
	case "j", "down":
		a.scrollBy(1)
	case "k", "up":
		a.scrollBy(-1)
	case "ctrl+d", "pgdown":
		a.scrollBy(a.halfPage())
	case "ctrl+u", "pgup":
		a.scrollBy(-a.halfPage())
	case "home":
		a.scroll = 0
	case "/", "p":
		if len(a.countries) == 0 {
			return a, nil
		}
		a.setTab(tabCountry)
		return a.openPicker()
	case "y":
		a.editingYears = true
		a.yearsErr = ""
		a.years.SetValue(formatYearRange(a.from, a.to))
		a.years.CursorEnd()
		return a, a.years.Focus()
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
	default:
		if runes := []rune(key); len(runes) == 1 {
			if idx := components.TabIdxByKey(runes[0]); idx >= 0 {
				a.setTab(idx)
			}
		}
	}
	return a, nil
}

// Tab indexes, matching components.Tabs.
const (
	tabHome = iota
	tabGlobal
	tabCountry
)

func (a *App) setTab(idx int) {
	if idx != a.activeTab {
		a.activeTab = idx
		a.scroll = 0
	}
}

func (a App) halfPage() int {
	return max(3, (a.height-4)/2)
}

// scrollBy moves the content window. The upper bound is applied in View,
// where the content height is known.
func (a *App) scrollBy(n int) {
	a.scroll = max(0, a.scroll+n)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// ─── Year range ─────────────────────────────────────────────────

func newYearsInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "1990-2010 (empty for all years)"
	ti.Prompt = "Years: "
	ti.CharLimit = 16
	ti.Width = 32
	return ti
}

func (a App) updateYearsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		from, to, err := parseYearRange(a.years.Value())
		if err != nil {
			a.yearsErr = err.Error()
			return a, nil
		}
		a.from, a.to = from, to
		a.editingYears = false
		a.yearsErr = ""
		a.years.Blur()
		a.recompute()
		return a, nil
	case "esc":
		a.editingYears = false
		a.yearsErr = ""
		a.years.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.years, cmd = a.years.Update(msg)
	return a, cmd
}

// parseYearRange accepts "", "1995", "1990-2010", "1990-" and "-2010".
func parseYearRange(s string) (from, to int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}

	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		hi = lo
	}
	parse := func(part string) (int, error) {
		part = strings.TrimSpace(part)
		if part == "" {
			return 0, nil
		}
		y, err := strconv.Atoi(part)
		if err != nil || y < 1 {
			return 0, fmt.Errorf("invalid year %q", part)
		}
		return y, nil
	}

	if from, err = parse(lo); err != nil {
		return 0, 0, err
	}
	if to, err = parse(hi); err != nil {
		return 0, 0, err
	}
	if from != 0 && to != 0 && from > to {
		return 0, 0, fmt.Errorf("%d is after %d", from, to)
	}
	return from, to, nil
}

func formatYearRange(from, to int) string {
	switch {
	case from == 0 && to == 0:
		return ""
	case from == to:
		return strconv.Itoa(from)
	case to == 0:
		return strconv.Itoa(from) + "-"
	case from == 0:
		return "-" + strconv.Itoa(to)
	}
	return fmt.Sprintf("%d-%d", from, to)
}

// ─── Views ──────────────────────────────────────────────────────

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.setupForm != nil {
		return a.viewCentered(a.setupForm.View())
	}
	if a.picker != nil {
		return a.viewCentered(a.picker.View())
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  sdash needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) loadingCard(body string) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	content := logoStyle.Render("◈ sdash") +
		subtitleStyle.Render(" · Suicide Statistics Dashboard") +
		"\n\n" + body

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(content),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		barW := max(20, min(40, a.width-30))
		b.WriteString(subtitleStyle.Render(" Parsing files\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Reading " + a.opts.DataPath + "..."))
	}
	return a.loadingCard(b.String())
}

func (a App) viewLoadError() string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Width(min(70, a.width-12))
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := errStyle.Render("Could not load data") + "\n\n" +
		msgStyle.Render(a.loadErr.Error()) + "\n\n" +
		dimStyle.Render("Press q to quit")
	return a.loadingCard(body)
}

func (a App) viewCentered(content string) string {
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content,
		lipgloss.WithWhitespaceBackground(theme.Active.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"h g c", "Jump to page"},
			{"← → Tab", "Previous / Next page"},
			{"j k", "Scroll"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Filters", []struct{ key, desc string }{
			{"/ p", "Pick a country"},
			{"y", "Set year range"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"r", "Reload data"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.viewCentered(cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderFilterRow(w)

	statusBar := components.RenderStatusBar(w, "[?]help  [/]country  [y]ears  [q]uit",
		cli.FormatNumber(int64(len(a.records)))+" rows",
		a.refreshState(),
	)

	contentH := max(minContentHeight, h-lipgloss.Height(header)-lipgloss.Height(statusBar))

	var content string
	switch a.activeTab {
	case tabHome:
		content = a.renderHomeTab(cw)
	case tabGlobal:
		content = a.renderGlobalTab(cw)
	case tabCountry:
		content = a.renderCountryTab(cw)
	}

	content = scrollWindow(content, a.scroll, contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderFilterRow(w int) string {
	t := theme.Active
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(w)

	if a.editingYears {
		line := " " + a.years.View()
		if a.yearsErr != "" {
			line += errStyle.Render("  " + a.yearsErr)
		}
		return rowStyle.Render(line)
	}

	years := "all years"
	if a.from != 0 || a.to != 0 {
		years = formatYearRange(a.from, a.to)
	}
	line := pillStyle.Render(" ") + accentStyle.Render(years)
	if a.activeTab == tabCountry && a.country != "" {
		line += pillStyle.Render(" │ ") + accentStyle.Render(a.country)
	}
	return rowStyle.Render(line)
}

func (a App) refreshState() string {
	if a.setupVals != nil && a.setupVals.saveErr != nil {
		return "config not saved"
	}
	if a.refreshing {
		return "reloading..."
	}
	return fmt.Sprintf("loaded in %.1fs", a.loadTime.Seconds())
}

// ─── Loading ────────────────────────────────────────────────────

func loadRecords(opts Options, progressFn pipeline.ProgressFunc) (*pipeline.CachedLoadResult, error) {
	return pipeline.LoadCached(opts.DataPath, opts.Parse, opts.CachePath, progressFn)
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			cr, err := loadRecords(opts, progressFn)
			sub <- DataLoadedMsg{Result: cr, Err: err, LoadTime: time.Since(start)}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads the dataset in the background (no progress UI).
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		cr, err := loadRecords(opts, nil)
		return RefreshDataMsg{Result: cr, Err: err, LoadTime: time.Since(start)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}

// scrollWindow returns exactly h lines of s starting at offset, clamping the
// offset so the last page stays full.
func scrollWindow(s string, offset, h int) string {
	lines := strings.Split(s, "\n")
	offset = max(0, min(offset, len(lines)-h))
	lines = lines[offset:]
	return padHeight(truncateHeight(strings.Join(lines, "\n"), h), h)
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

func containsString(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
