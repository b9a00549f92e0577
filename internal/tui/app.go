package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/auth"
)

// Well-known page IDs.
const (
	OverviewPageID = "overview"
	DeniedPageID   = "denied"
)

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	guard      auth.Guard
	keys       KeyMap
	pages      map[string]Page
	order      []string
	activePage string
	// lastPage is the page [ and ] cycle from while the denied page is shown.
	lastPage string
	width    int
	height   int
}

// NewApp creates a new App with the given pages. The first page is the
// default; [ and ] cycle through pages in the order given. An access-denied
// page is added automatically.
func NewApp(guard auth.Guard, pages ...Page) *App {
	a := &App{
		guard: guard,
		keys:  DefaultKeyMap(),
		pages: make(map[string]Page, len(pages)+1),
	}
	for _, p := range pages {
		a.pages[p.ID()] = p
		a.order = append(a.order, p.ID())
	}
	if _, ok := a.pages[DeniedPageID]; !ok {
		a.pages[DeniedPageID] = NewDeniedPage()
	}
	if len(a.order) > 0 {
		a.activePage = a.order[0]
		a.lastPage = a.order[0]
	}
	return a
}

// ActivePage returns the ID of the page currently shown.
func (a *App) ActivePage() string { return a.activePage }

func (a *App) Init() tea.Cmd {
	return a.mount(a.activePage, nil)
}

// mount switches to a page after checking its guard. Pages the current
// session may not open are replaced by the access-denied page.
func (a *App) mount(id string, params any) tea.Cmd {
	p, ok := a.pages[id]
	if !ok {
		return nil
	}
	if id != a.activePage {
		if u, ok := a.pages[a.activePage].(Unmounter); ok {
			u.Unmount()
		}
	}
	if id != DeniedPageID {
		a.lastPage = id
	}
	if g, ok := p.(Guarded); ok {
		if err := auth.Authorize(a.guard, g.Roles()...); err != nil {
			log.Warn().Err(err).Str("screen", id).Msg("screen access denied")
			params = Denied{Screen: g.Title(), Roles: g.Roles(), Err: err}
			id, p = DeniedPageID, a.pages[DeniedPageID]
		}
	}
	if r, ok := p.(ParamReceiver); ok {
		r.Receive(params)
	}
	a.activePage = id
	return p.Init()
}

// Close releases every page that holds resources. Call it once the program
// has exited.
func (a *App) Close() {
	for _, id := range a.order {
		if c, ok := a.pages[id].(interface{ Close() }); ok {
			c.Close()
		}
	}
}

func (a *App) capturing() bool {
	c, ok := a.pages[a.activePage].(Capturing)
	return ok && c.Capturing()
}

func (a *App) cycle(step int) tea.Cmd {
	n := len(a.order)
	if n == 0 {
		return nil
	}
	idx := 0
	for i, id := range a.order {
		if id == a.lastPage {
			idx = i
			break
		}
	}
	return a.mount(a.order[(idx+step+n)%n], nil)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Every page tracks dimensions, not just the visible one.
		a.width = msg.Width
		a.height = msg.Height
		var cmds []tea.Cmd
		for _, p := range a.pages {
			cmd, _ := p.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if !a.capturing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, a.keys.NextScreen):
				return a, a.cycle(1)
			case key.Matches(msg, a.keys.PrevScreen):
				return a, a.cycle(-1)
			}
		}
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, nil
	}

	cmd, nav := p.Update(msg)
	if nav != nil {
		if _, exists := a.pages[nav.PageID]; exists {
			return a, tea.Batch(cmd, a.mount(nav.PageID, nav.Params))
		}
	}

	return a, cmd
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
