package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinytelemetry/econdash/internal/dataservice"
	"github.com/tinytelemetry/econdash/internal/fixture"
	"github.com/tinytelemetry/econdash/internal/model"
	"github.com/tinytelemetry/econdash/internal/orchestrator"
)

func newTestDashboard(t *testing.T, exportDir string) (*DashboardPage, *fixture.Server) {
	t.Helper()
	srv := fixture.New(fixture.Sample())
	url := srv.Start()
	t.Cleanup(srv.Close)

	client, err := dataservice.New(url)
	require.NoError(t, err)

	d := NewDashboardPage(orchestrator.New(client), Options{ExportDir: exportDir})
	d.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	drive(d, d.Init())
	return d, srv
}

// drive runs cmd and feeds the data messages it produces back into p.
// Timer-driven messages (spinner, cursor blink) are dropped.
func drive(p Page, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case orchestrator.ReferenceLoadedMsg, orchestrator.SeriesLoadedMsg, orchestrator.ForecastLoadedMsg, exportDoneMsg:
			c, _ := p.Update(msg)
			queue = append(queue, c)
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(d *DashboardPage, msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	return d.Update(msg)
}

// selectFirst picks the first country and the first indicator.
func selectFirst(d *DashboardPage) {
	cmd, _ := press(d, tea.KeyMsg{Type: tea.KeyEnter})
	drive(d, cmd)
	cmd, _ = press(d, tea.KeyMsg{Type: tea.KeyEnter})
	drive(d, cmd)
}

func TestDashboardLoadsPickers(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())

	assert.Len(t, d.countries.Items(), 3)
	assert.Len(t, d.indicators.Items(), 3)
	assert.Equal(t, "Countries", d.countries.Title)
	assert.Equal(t, model.PhaseIdle, d.orch.Phase())
	assert.Contains(t, d.View(120, 40), "Pick a country and an indicator")
}

func TestDashboardReferenceFailureKeepsRunning(t *testing.T) {
	srv := fixture.New(fixture.Sample())
	srv.Override("countries", fixture.Override{Status: 500})
	url := srv.Start()
	t.Cleanup(srv.Close)

	client, err := dataservice.New(url)
	require.NoError(t, err)
	d := NewDashboardPage(orchestrator.New(client), Options{})
	drive(d, d.Init())

	assert.Equal(t, "Countries (unavailable)", d.countries.Title)
	assert.Empty(t, d.countries.Items())
	assert.Len(t, d.indicators.Items(), 3)
}

func TestDashboardSelectionLoadsSeries(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())

	cmd, _ := press(d, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, focusIndicators, d.focus, "focus moves on to the indicator picker")
	assert.Equal(t, model.PhaseIdle, d.orch.Phase())
	drive(d, cmd)

	cmd, _ = press(d, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, model.PhaseLoading, d.orch.Phase())
	drive(d, cmd)

	assert.Equal(t, model.PhaseReady, d.orch.Phase())
	v := d.orch.View()
	require.Len(t, v.Historical, 3)
	assert.Equal(t, "ARG", v.Historical[0].Country)

	out := d.View(120, 40)
	assert.Contains(t, out, "Argentina")
	assert.Contains(t, out, "Historical")
}

func TestDashboardNoDataMessage(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())

	cmd, _ := press(d, tea.KeyMsg{Type: tea.KeyEnter})
	drive(d, cmd)
	d.indicators.Select(2) // inflation, which ARG has no data for
	cmd, _ = press(d, tea.KeyMsg{Type: tea.KeyEnter})
	drive(d, cmd)

	v := d.orch.View()
	assert.Equal(t, model.MsgNoData, v.Message)
	assert.Contains(t, d.View(120, 40), model.MsgNoData)
}

func TestDashboardForecastKey(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())
	selectFirst(d)

	d.setFocus(focusCountries)
	cmd, _ := press(d, keyRunes("f"))
	require.NotNil(t, cmd)
	drive(d, cmd)

	assert.Len(t, d.orch.View().Forecast, model.DefaultForecastYears)
	assert.Contains(t, d.View(120, 40), "Forecast")
}

func TestDashboardExport(t *testing.T) {
	dir := t.TempDir()
	d, _ := newTestDashboard(t, dir)

	cmd, _ := press(d, keyRunes("e"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to export", d.notice)
	assert.True(t, d.noticeErr)

	selectFirst(d)
	cmd, _ = press(d, keyRunes("e"))
	require.NotNil(t, cmd)
	drive(d, cmd)

	path := filepath.Join(dir, model.DefaultExportName+".csv")
	assert.Equal(t, "Saved "+path, d.notice)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "country,indicator,year,value", lines[0])
	assert.Equal(t, `"ARG","NY.GDP.MKTP.CD",2000,284200000000`, lines[1])
}

func TestDashboardYearInput(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())
	selectFirst(d)

	d.setFocus(focusStart)
	d.start.SetValue("abc")
	cmd, _ := press(d, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, d.notice, "invalid year")
	assert.Equal(t, model.DefaultStartYear, d.orch.Selection().Range.Start)

	d.start.SetValue("2001")
	cmd, _ = press(d, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	drive(d, cmd)
	assert.Equal(t, 2001, d.orch.Selection().Range.Start)
	assert.Len(t, d.orch.View().Historical, 2)
	assert.Empty(t, d.notice)
}

func TestDashboardTypingDoesNotTriggerActions(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())
	selectFirst(d)
	d.setFocus(focusEnd)
	d.end.SetValue("")

	cmd, _ := press(d, keyRunes("q"))
	if cmd != nil {
		_, quit := cmd().(tea.QuitMsg)
		assert.False(t, quit, "q while typing a year must not quit")
	}

	press(d, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusCountries, d.focus)
	assert.Equal(t, "2022", d.end.Value(), "escape restores the applied year")
}

func TestDashboardFocusCycle(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())

	for _, want := range []focusArea{focusIndicators, focusStart, focusEnd, focusCountries} {
		press(d, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, want, d.focus)
	}
	press(d, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusEnd, d.focus)
}

func TestDashboardQuit(t *testing.T) {
	d, _ := newTestDashboard(t, t.TempDir())

	cmd, _ := press(d, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppHelpNavigation(t *testing.T) {
	srv := fixture.New(fixture.Sample())
	url := srv.Start()
	t.Cleanup(srv.Close)
	client, err := dataservice.New(url)
	require.NoError(t, err)

	app := New(orchestrator.New(client), Options{})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, dashboardPageID, app.ActivePage())

	app.Update(keyRunes("?"))
	assert.Equal(t, helpPageID, app.ActivePage())
	assert.Contains(t, app.View(), "forecast")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, dashboardPageID, app.ActivePage())
}
