package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/tinytelemetry/econdash/internal/model"
)

type countryItem struct{ model.Country }

func (i countryItem) Title() string { return i.Name }

func (i countryItem) Description() string {
	if i.Region != "" {
		return i.ID + " · " + i.Region
	}
	return i.ID
}

func (i countryItem) FilterValue() string { return i.Name + " " + i.ID }

type indicatorItem struct{ model.Indicator }

func (i indicatorItem) Title() string       { return i.Name }
func (i indicatorItem) Description() string { return i.ID }
func (i indicatorItem) FilterValue() string { return i.Name + " " + i.ID }

func newPicker(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	return l
}

func countryItems(countries []model.Country) []list.Item {
	items := make([]list.Item, len(countries))
	for i, c := range countries {
		items[i] = countryItem{c}
	}
	return items
}

func indicatorItems(indicators []model.Indicator) []list.Item {
	items := make([]list.Item, len(indicators))
	for i, ind := range indicators {
		items[i] = indicatorItem{ind}
	}
	return items
}
