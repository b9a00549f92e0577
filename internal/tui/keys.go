package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all console key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	Escape     key.Binding
	NextScreen key.Binding
	PrevScreen key.Binding

	// Rows and menus
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding

	// Paging
	PrevPage  key.Binding
	NextPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding

	// Table
	Search       key.Binding
	Filter       key.Binding
	NextFilter   key.Binding
	ClearFilters key.Binding
	Reload       key.Binding

	// Confirmation
	Yes key.Binding
	No  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close/back"),
		),
		NextScreen: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next screen"),
		),
		PrevScreen: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev screen"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "actions"),
		),

		PrevPage: key.NewBinding(
			key.WithKeys("left", "pgup"),
			key.WithHelp("←", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "pgdown"),
			key.WithHelp("→", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last page"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle filter"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),

		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc", "escape"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap for the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Search, k.Filter, k.PrevPage, k.NextPage, k.NextScreen, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap for the help modal.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.PrevPage, k.NextPage, k.FirstPage, k.LastPage},
		{k.Search, k.Filter, k.NextFilter, k.ClearFilters, k.Reload},
		{k.PrevScreen, k.NextScreen, k.Help, k.Quit, k.ForceQuit},
	}
}
