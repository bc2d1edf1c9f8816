package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the list view.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageDown key.Binding
	PageUp   key.Binding

	// Actions
	Open         key.Binding
	Search       key.Binding
	Refresh      key.Binding
	CycleState   key.Binding
	AuthorFilter key.Binding
	SwitchFork   key.Binding
	Help         key.Binding
	Quit         key.Binding
	ApplySearch  key.Binding
	CancelSearch key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "first item"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "last item"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "page up"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o", "open in browser"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search (#n for number)"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		CycleState: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle state"),
		),
		AuthorFilter: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "filter by author"),
		),
		SwitchFork: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "switch upstream/fork"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ApplySearch: key.NewBinding(
			key.WithKeys("enter"),
		),
		CancelSearch: key.NewBinding(
			key.WithKeys("esc"),
		),
	}
}

// ShortHelp returns key bindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PageUp, k.PageDown, k.Open, k.Search},
		{k.CycleState, k.AuthorFilter, k.SwitchFork, k.Refresh},
		{k.Help, k.Quit},
	}
}
