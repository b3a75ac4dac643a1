package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/econdash/internal/model"
	"github.com/tinytelemetry/econdash/internal/orchestrator"
	"github.com/tinytelemetry/econdash/internal/projection"
)

const dashboardPageID = "dashboard"

type focusArea int

const (
	focusCountries focusArea = iota
	focusIndicators
	focusStart
	focusEnd
	focusCount
)

// Options configures the dashboard.
type Options struct {
	ExportDir  string
	ExportName string
	Logger     zerolog.Logger
}

// exportDoneMsg reports the outcome of a CSV export.
type exportDoneMsg struct {
	path string
	err  error
}

// DashboardPage renders the pickers, year inputs, charts and the message
// line. All fetch state lives in the orchestrator; the page only reads
// snapshots of it.
type DashboardPage struct {
	orch *orchestrator.Orchestrator
	keys KeyMap
	help help.Model
	log  zerolog.Logger

	countries  list.Model
	indicators list.Model
	start      textinput.Model
	end        textinput.Model
	focus      focusArea

	exportDir  string
	exportName string
	notice     string
	noticeErr  bool

	spinning bool
	width    int
	height   int
}

// NewDashboardPage creates the dashboard over orch.
func NewDashboardPage(orch *orchestrator.Orchestrator, opts Options) *DashboardPage {
	d := &DashboardPage{
		orch:       orch,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		log:        opts.Logger,
		countries:  newPicker("Countries"),
		indicators: newPicker("Indicators"),
		start:      newYearInput(),
		end:        newYearInput(),
		exportDir:  opts.ExportDir,
		exportName: opts.ExportName,
	}
	if d.exportName == "" {
		d.exportName = model.DefaultExportName
	}
	d.resetYearInputs()
	return d
}

func newYearInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "YYYY"
	ti.CharLimit = 4
	ti.Width = 5
	return ti
}

func (d *DashboardPage) ID() string { return dashboardPageID }

func (d *DashboardPage) Init() tea.Cmd {
	cmd := d.orch.Init()
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, d.startSpinnerIfNeeded())
}

func (d *DashboardPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.resize(msg.Width, msg.Height)
		return nil, nil
	case orchestrator.ReferenceLoadedMsg:
		if d.orch.Update(msg) {
			return d.syncPickers(), nil
		}
		return nil, nil
	case orchestrator.SeriesLoadedMsg, orchestrator.ForecastLoadedMsg:
		d.orch.Update(msg)
		return nil, nil
	case SpinnerTickMsg:
		return d.handleSpinnerTick(), nil
	case exportDoneMsg:
		d.applyExport(msg)
		return nil, nil
	case tea.KeyMsg:
		return d.handleKey(msg)
	}
	return d.forward(msg), nil
}

func (d *DashboardPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if key.Matches(msg, d.keys.ForceQuit) {
		return tea.Quit, nil
	}
	if d.filtering() {
		return d.forward(msg), nil
	}

	typing := d.focus == focusStart || d.focus == focusEnd
	switch {
	case key.Matches(msg, d.keys.NextFocus):
		return d.setFocus((d.focus + 1) % focusCount), nil
	case key.Matches(msg, d.keys.PrevFocus):
		return d.setFocus((d.focus + focusCount - 1) % focusCount), nil
	case key.Matches(msg, d.keys.Select):
		return d.selectFocused(), nil
	case typing && key.Matches(msg, d.keys.Escape):
		d.resetYearInputs()
		return d.setFocus(focusCountries), nil
	case typing:
		return d.forward(msg), nil
	case key.Matches(msg, d.keys.Quit):
		return tea.Quit, nil
	case key.Matches(msg, d.keys.Help):
		return nil, &PageNav{PageID: helpPageID}
	case key.Matches(msg, d.keys.Forecast):
		d.clearNotice()
		return d.withSpinner(d.orch.RequestForecast()), nil
	case key.Matches(msg, d.keys.Export):
		return d.export(), nil
	case key.Matches(msg, d.keys.Refresh):
		d.clearNotice()
		return d.withSpinner(d.orch.Refresh()), nil
	}
	return d.forward(msg), nil
}

// forward hands msg to the focused component.
func (d *DashboardPage) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.focus {
	case focusCountries:
		d.countries, cmd = d.countries.Update(msg)
	case focusIndicators:
		d.indicators, cmd = d.indicators.Update(msg)
	case focusStart:
		d.start, cmd = d.start.Update(msg)
	case focusEnd:
		d.end, cmd = d.end.Update(msg)
	}
	return cmd
}

func (d *DashboardPage) filtering() bool {
	switch d.focus {
	case focusCountries:
		return d.countries.FilterState() == list.Filtering
	case focusIndicators:
		return d.indicators.FilterState() == list.Filtering
	}
	return false
}

func (d *DashboardPage) setFocus(f focusArea) tea.Cmd {
	d.focus = f
	d.start.Blur()
	d.end.Blur()
	switch f {
	case focusStart:
		return d.start.Focus()
	case focusEnd:
		return d.end.Focus()
	}
	return nil
}

func (d *DashboardPage) selectFocused() tea.Cmd {
	d.clearNotice()
	sel := d.orch.Selection()

	switch d.focus {
	case focusCountries:
		item, ok := d.countries.SelectedItem().(countryItem)
		if !ok {
			return nil
		}
		sel = sel.WithCountry(&item.Country)
		d.log.Info().Str("country", item.ID).Msg("country selected")
		cmd := d.applySelection(sel)
		if sel.Indicator == nil {
			return tea.Batch(cmd, d.setFocus(focusIndicators))
		}
		return cmd
	case focusIndicators:
		item, ok := d.indicators.SelectedItem().(indicatorItem)
		if !ok {
			return nil
		}
		sel = sel.WithIndicator(&item.Indicator)
		d.log.Info().Str("indicator", item.ID).Msg("indicator selected")
		return d.applySelection(sel)
	case focusStart, focusEnd:
		input := d.start
		if d.focus == focusEnd {
			input = d.end
		}
		year, err := parseYear(input.Value())
		if err != nil {
			d.setNotice(err.Error(), true)
			return nil
		}
		if d.focus == focusStart {
			sel = sel.WithStart(year)
		} else {
			sel = sel.WithEnd(year)
		}
		return d.applySelection(sel)
	}
	return nil
}

func (d *DashboardPage) applySelection(sel model.Selection) tea.Cmd {
	cmd := d.orch.SetSelection(sel)
	d.resetYearInputs()
	return d.withSpinner(cmd)
}

func (d *DashboardPage) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, d.startSpinnerIfNeeded())
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	year, err := strconv.Atoi(s)
	if err != nil || year < 0 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func (d *DashboardPage) resetYearInputs() {
	r := d.orch.Selection().Range
	d.start.SetValue(yearText(r.Start))
	d.end.SetValue(yearText(r.End))
}

func yearText(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func (d *DashboardPage) syncPickers() tea.Cmd {
	ref := d.orch.Reference()
	d.countries.Title = pickerTitle("Countries", ref.CountriesLoaded, ref.CountriesErr)
	d.indicators.Title = pickerTitle("Indicators", ref.IndicatorsLoaded, ref.IndicatorsErr)
	return tea.Batch(
		d.countries.SetItems(countryItems(ref.Countries)),
		d.indicators.SetItems(indicatorItems(ref.Indicators)),
	)
}

func pickerTitle(name string, loaded bool, err error) string {
	switch {
	case !loaded:
		return name + " (loading)"
	case err != nil:
		return name + " (unavailable)"
	default:
		return name
	}
}

func (d *DashboardPage) export() tea.Cmd {
	v := d.orch.View()
	if d.orch.Phase() != model.PhaseReady || len(v.Historical) == 0 {
		d.setNotice("Nothing to export", true)
		return nil
	}
	dir, name, rows := d.exportDir, d.exportName, projection.SeriesRows(v.Historical)
	return func() tea.Msg {
		path, err := projection.SaveCSV(dir, name, rows)
		return exportDoneMsg{path: path, err: err}
	}
}

func (d *DashboardPage) applyExport(msg exportDoneMsg) {
	switch {
	case errors.Is(msg.err, projection.ErrNothingToExport):
		d.setNotice("Nothing to export", true)
	case msg.err != nil:
		d.log.Error().Err(msg.err).Msg("csv export failed")
		d.setNotice("Export failed: "+msg.err.Error(), true)
	default:
		d.log.Info().Str("path", msg.path).Msg("csv exported")
		d.setNotice("Saved "+msg.path, false)
	}
}

func (d *DashboardPage) setNotice(text string, isErr bool) {
	d.notice = text
	d.noticeErr = isErr
}

func (d *DashboardPage) clearNotice() {
	d.setNotice("", false)
}

func (d *DashboardPage) sidebarWidth() int {
	return min(36, max(d.width/3, 24))
}

func (d *DashboardPage) resize(width, height int) {
	d.width = width
	d.height = height
	inner := d.sidebarWidth() - 4
	pickerHeight := max((height-1)/2-2, 3)
	d.countries.SetSize(inner, pickerHeight)
	d.indicators.SetSize(inner, pickerHeight)
}

// View renders the page. The message line is always visible; charts are
// hidden while a fetch is in flight.
func (d *DashboardPage) View(width, height int) string {
	if width == 0 || height == 0 {
		return "Initializing..."
	}
	if width != d.width || height != d.height {
		d.resize(width, height)
	}

	side := d.sidebarWidth()
	pickerHeight := (height - 1) / 2
	left := lipgloss.JoinVertical(lipgloss.Left,
		d.renderPicker(d.countries, focusCountries, side, pickerHeight),
		d.renderPicker(d.indicators, focusIndicators, side, height-1-pickerHeight),
	)
	right := d.renderMain(width-side, height-1)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, body, d.renderStatusLine(width))
}

func (d *DashboardPage) renderPicker(l list.Model, area focusArea, width, height int) string {
	style := sectionStyle
	if d.focus == area {
		style = activeSectionStyle
	}
	return style.Width(width - 2).Height(height - 2).Render(l.View())
}

func (d *DashboardPage) renderMain(width, height int) string {
	inner := width - 4
	lines := []string{
		titleStyle.Render(d.selectionTitle()),
		d.renderYears(),
		"",
	}

	chartArea := max(height-len(lines)-6, 4)
	lines = append(lines, d.renderCharts(inner, chartArea))

	v := d.orch.View()
	if v.HasMessage() {
		style := infoStyle
		if v.MessageKind == model.MessageError {
			style = errorStyle
		}
		lines = append(lines, style.Render(v.Message))
	}
	if d.notice != "" {
		style := infoStyle
		if d.noticeErr {
			style = errorStyle
		}
		lines = append(lines, style.Render(d.notice))
	}

	return sectionStyle.Width(width - 2).Height(height - 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (d *DashboardPage) selectionTitle() string {
	sel := d.orch.Selection()
	if !sel.Complete() {
		parts := []string{"Select a country and an indicator"}
		if sel.Country != nil {
			parts = append(parts, sel.Country.Name)
		}
		if sel.Indicator != nil {
			parts = append(parts, sel.Indicator.Name)
		}
		return strings.Join(parts, "  •  ")
	}
	return sel.Country.Name + "  •  " + sel.Indicator.Name
}

func (d *DashboardPage) renderYears() string {
	label := func(name string, in textinput.Model, area focusArea) string {
		style := helpStyle
		if d.focus == area {
			style = activeSectionStyle.Padding(0).BorderStyle(lipgloss.HiddenBorder())
		}
		return style.Render(name + " " + in.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		label("From", d.start, focusStart),
		"   ",
		label("To", d.end, focusEnd),
	)
}

func (d *DashboardPage) renderCharts(width, height int) string {
	switch d.orch.Phase() {
	case model.PhaseIdle:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpStyle.Render("Pick a country and an indicator to load data"))
	case model.PhaseLoading:
		return renderLoadingPlaceholder(width, height, "Loading...")
	}

	v := d.orch.View()
	if len(v.Historical) == 0 {
		return ""
	}
	if len(v.Forecast) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			renderLineChart("Historical", projection.ChartSeries(v.Historical), width, height-1, historicalLineStyle),
			helpStyle.Render(seriesSummary(v.Historical)),
		)
	}

	top := height / 2
	return lipgloss.JoinVertical(lipgloss.Left,
		renderLineChart("Historical", projection.ChartSeries(v.Historical), width, top-1, historicalLineStyle),
		helpStyle.Render(seriesSummary(v.Historical)),
		renderLineChart("Forecast", projection.ForecastChartSeries(v.Forecast), width, height-top-1, forecastLineStyle),
		helpStyle.Render(forecastSummary(v.Forecast)),
	)
}

func (d *DashboardPage) renderStatusLine(width int) string {
	left := "econdash"
	if phase := d.orch.Phase(); phase != model.PhaseIdle {
		left += " [" + phase.String() + "]"
	}
	text := left + "  " + d.help.ShortHelpView(d.keys.ShortHelp())
	return statusBarStyle.Width(width).MaxWidth(width).Render(text)
}
