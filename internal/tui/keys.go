package tui

import (
	"charm.land/bubbles/v2/key"
	"github.com/charmbracelet/turbo/internal/tui/list"
)

type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Filter    key.Binding
	Clear     key.Binding
	Accept    key.Binding
	Reshuffle key.Binding

	// Step through earlier filter queries.
	Older key.Binding
	Newer key.Binding

	list list.KeyMap
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply filter"),
		),
		Reshuffle: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reshuffle"),
		),
		Older: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "older"),
		),
		Newer: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "newer"),
		),
		list: list.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return append(k.list.ShortHelp(), k.Filter, k.Help, k.Quit)
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return append(k.list.FullHelp(), []key.Binding{k.Filter, k.Clear, k.Reshuffle, k.Quit})
}

// filterKeyMap is shown while the filter has focus.
type filterKeyMap KeyMap

func (k filterKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Clear, k.Older, k.Newer}
}

func (k filterKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
