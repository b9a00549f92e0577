package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen in the console (overview, one table per
// back-office screen, access denied).
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
	Params any
}

// Guarded is implemented by pages that only some roles may open. The App
// checks the guard every time such a page is mounted.
type Guarded interface {
	Title() string
	Roles() []string
}

// Capturing is implemented by pages that can own raw key input, such as an
// active search field. Global bindings are skipped while it reports true.
type Capturing interface {
	Capturing() bool
}

// ParamReceiver is implemented by pages that accept PageNav.Params.
type ParamReceiver interface {
	Receive(params any)
}

// Unmounter is implemented by pages that release transient state, such as an
// open action menu, when another page replaces them.
type Unmounter interface {
	Unmount()
}
