package tui

import tea "github.com/charmbracelet/bubbletea"

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{pages: pageMap, order: order}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

// ActivePage returns the id of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

func (a *App) Init() tea.Cmd {
	if p, ok := a.pages[a.activePage]; ok {
		return p.Init()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = wsm.Width
		a.height = wsm.Height
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	// Completion messages belong to whichever page dispatched them, so
	// non-key messages reach every page.
	var cmds []tea.Cmd
	if _, isKey := msg.(tea.KeyMsg); !isKey {
		for _, id := range a.order {
			if id == a.activePage {
				continue
			}
			if cmd, _ := a.pages[id].Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	cmd, nav := p.Update(msg)
	cmds = append(cmds, cmd)

	if nav != nil {
		if next, exists := a.pages[nav.PageID]; exists && nav.PageID != a.activePage {
			a.activePage = nav.PageID
			cmds = append(cmds, next.Init())
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
