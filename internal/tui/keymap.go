package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the issues view.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding

	// Filters
	Search    key.Binding
	Labels    key.Binding
	States    key.Binding
	Cycles    key.Binding
	Milestone key.Binding

	// Actions
	Sort      key.Binding
	ClearSort key.Binding
	Open      key.Binding
	Detail    key.Binding
	Refresh   key.Binding
	Project   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous issue"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next issue"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search titles"),
		),
		Labels: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "filter labels"),
		),
		States: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "filter states"),
		),
		Cycles: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "filter cycles"),
		),
		Milestone: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "pick milestone"),
		),
		Sort: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"),
			key.WithHelp("1-0", "sort by column"),
		),
		ClearSort: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear sort"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "issue details"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Project: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "switch project"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
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
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Search, k.Labels, k.States, k.Cycles, k.Milestone},
		{k.Sort, k.ClearSort, k.Detail, k.Open},
		{k.Refresh, k.Project, k.Help, k.Quit},
	}
}
