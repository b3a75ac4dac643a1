package orchestrator

import tea "github.com/charmbracelet/bubbletea"

// Drive runs cmd outside a Bubble Tea program. Batches are expanded and every
// resulting message is applied with Update, in dispatch order, on the
// caller's goroutine. It returns once no commands remain.
func (o *Orchestrator) Drive(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			o.Update(msg)
		}
	}
}
