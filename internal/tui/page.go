package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen. The dashboard is the only one today; the help
// screen is a second page reached with "?".
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
