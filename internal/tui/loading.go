package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 120 * time.Millisecond

// renderLoadingPlaceholder renders an animated loading indicator.
// The frame is selected based on the current time so it animates on re-render.
func renderLoadingPlaceholder(width, height int, label string) string {
	frame := spinnerFrames[time.Now().UnixMilli()/spinnerInterval.Milliseconds()%int64(len(spinnerFrames))]
	text := loadingStyle.Render(frame + " " + label)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}

// SpinnerTickMsg triggers a re-render for the loading spinner.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// startSpinnerIfNeeded schedules a tick when a fetch is in flight and no
// tick is already pending.
func (d *DashboardPage) startSpinnerIfNeeded() tea.Cmd {
	if d.spinning || !d.loading() {
		return nil
	}
	d.spinning = true
	return spinnerTick()
}

// handleSpinnerTick re-schedules ticks while anything is loading.
func (d *DashboardPage) handleSpinnerTick() tea.Cmd {
	if d.loading() {
		return spinnerTick()
	}
	d.spinning = false
	return nil
}

func (d *DashboardPage) loading() bool {
	if d.orch.View().Loading {
		return true
	}
	ref := d.orch.Reference()
	return !ref.CountriesLoaded || !ref.IndicatorsLoaded
}
