package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/econdash/internal/orchestrator"
)

// New builds the dashboard application over orch.
func New(orch *orchestrator.Orchestrator, opts Options) *App {
	return NewApp(NewDashboardPage(orch, opts), NewHelpPage())
}

// Run starts the full-screen program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, orch *orchestrator.Orchestrator, opts Options) error {
	p := tea.NewProgram(New(orch, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}
