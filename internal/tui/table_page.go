package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

// Rows above the grid: title bar and filter bar.
const gridTop = 2

// triggerWidth is the width of the trailing "⋯" column that opens the menu.
const triggerWidth = 3

// TableOptions tune a TablePage.
type TableOptions struct {
	PageSize           int
	MenuWidth          int
	ReverseScrollWheel bool
}

// pagerHit is a clickable region of the pagination line.
type pagerHit struct {
	from, to int
	page     int
}

// TablePage renders one back-office screen: search, filters, a page of
// records, pagination controls and the per-row action menu.
type TablePage struct {
	table screens.Table
	hub   *browser.PointerHub
	keys  KeyMap
	ctx   ModalContext
	help  help.Model

	grid      table.Model
	search    textinput.Model
	searching bool
	input     searchInputHandler
	modals    modalStack

	view       screens.View
	filterIdx  int
	menuCursor int

	status    string
	statusErr bool

	width  int
	height int

	// Layout of the last render, used to map mouse clicks.
	pagerY    int
	pagerHits []pagerHit
}

// NewTablePage opens the screen id from catalog and binds it to a page.
func NewTablePage(catalog *screens.Catalog, id string, opts TableOptions) (*TablePage, error) {
	hub := browser.NewPointerHub()
	tbl, err := catalog.Open(id, screens.Options{
		PageSize: opts.PageSize,
		Geometry: terminalGeometry(opts.MenuWidth),
		Pointer:  hub,
	})
	if err != nil {
		return nil, err
	}
	return newTablePage(tbl, hub, opts), nil
}

func newTablePage(tbl screens.Table, hub *browser.PointerHub, opts TableOptions) *TablePage {
	keys := DefaultKeyMap()

	ti := textinput.New()
	ti.Placeholder = "name, email, id..."
	ti.Prompt = "/ "
	ti.CharLimit = 64

	p := &TablePage{
		table:  tbl,
		hub:    hub,
		keys:   keys,
		ctx:    ModalContext{ReverseScrollWheel: opts.ReverseScrollWheel, Keys: keys},
		help:   help.New(),
		search: ti,
		width:  120,
		height: 30,
	}
	p.grid = table.New(table.WithColumns(p.columns()), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(ColorBlue).Bold(true)
	styles.Selected = styles.Selected.Foreground(ColorNavy).Background(ColorBlue)
	p.grid.SetStyles(styles)
	p.refresh()
	return p
}

func (p *TablePage) ID() string      { return p.table.ID() }
func (p *TablePage) Title() string   { return p.table.Title() }
func (p *TablePage) Roles() []string { return p.table.Roles() }

// Capturing reports whether the page owns raw key input.
func (p *TablePage) Capturing() bool {
	return p.searching || p.modals.top() != nil
}

// Init reloads records every time the page is mounted.
func (p *TablePage) Init() tea.Cmd {
	p.reload()
	return nil
}

// Unmount closes the action menu so its pointer subscription does not
// outlive the page.
func (p *TablePage) Unmount() {
	if p.view.Menu.Open {
		p.table.CloseMenu()
		p.refresh()
	}
}

// Close releases the underlying table.
func (p *TablePage) Close() { p.table.Close() }

func (p *TablePage) reload() {
	if err := p.table.Reload(); err != nil {
		log.Error().Err(err).Str("screen", p.table.ID()).Msg("reload failed")
		p.setStatus(err.Error(), true)
	}
	p.refresh()
}

func (p *TablePage) columns() []table.Column {
	v := p.table.View()
	cols := make([]table.Column, 0, len(v.Columns)+1)
	for _, c := range v.Columns {
		cols = append(cols, table.Column{Title: c.Title, Width: c.Width})
	}
	return append(cols, table.Column{Title: "", Width: triggerWidth})
}

// refresh takes a new snapshot of the table and rebuilds the grid rows.
func (p *TablePage) refresh() {
	p.view = p.table.View()

	rows := make([]table.Row, len(p.view.Rows))
	for i, r := range p.view.Rows {
		row := make(table.Row, 0, len(r.Cells)+1)
		for j, cell := range r.Cells {
			row = append(row, runewidth.Truncate(cell, p.view.Columns[j].Width, "…"))
		}
		rows[i] = append(row, " ⋯")
	}
	p.grid.SetRows(rows)
	p.grid.SetWidth(p.gridWidth())
	p.grid.SetHeight(p.view.Pagination.RangeEnd - p.view.Pagination.RangeStart + 1 + p.headerHeight())
	if p.grid.Cursor() >= len(rows) {
		p.grid.SetCursor(max(len(rows)-1, 0))
	}
	if !p.view.Menu.Open {
		p.menuCursor = 0
	}
	if p.filterIdx >= len(p.view.Filters) {
		p.filterIdx = 0
	}
}

func (p *TablePage) headerHeight() int {
	return lipgloss.Height(p.grid.View()) - p.grid.Height()
}

// gridWidth is the rendered width of every column including cell padding.
func (p *TablePage) gridWidth() int {
	w := 0
	for _, c := range p.grid.Columns() {
		w += c.Width + 2
	}
	return w
}

// rowsTop is the screen line of the first record row.
func (p *TablePage) rowsTop() int {
	return gridTop + p.headerHeight()
}

// triggerRect is the cell area of the "⋯" trigger on visible row i.
func (p *TablePage) triggerRect(i int) browser.Rect {
	left := p.gridWidth() - triggerWidth - 1
	return browser.RectAt(left, p.rowsTop()+i, triggerWidth, 1)
}

func (p *TablePage) setStatus(msg string, isErr bool) {
	p.status = msg
	p.statusErr = isErr
}

func (p *TablePage) openMenu(row int) {
	if row < 0 || row >= len(p.view.Rows) {
		return
	}
	p.grid.SetCursor(row)
	p.table.OpenMenu(p.view.Rows[row].ID, p.triggerRect(row), p.width)
	p.menuCursor = 0
	p.refresh()
}

func (p *TablePage) goToPage(page int) {
	if p.table.GoToPage(page) {
		p.grid.SetCursor(0)
		p.refresh()
	}
}

// runAction starts action a on the record the menu targets. Destructive
// actions wait for the confirmation modal; "view" opens the detail modal.
func (p *TablePage) runAction(a screens.ActionView) tea.Cmd {
	id := p.view.Menu.TargetID
	switch {
	case a.Name == "view":
		p.table.CloseMenu()
		p.refresh()
		rec, ok := p.table.Record(id)
		if !ok {
			p.setStatus("record "+id+" no longer exists", true)
			return nil
		}
		modal, err := NewDetailModal(p.ctx, p.table.Title()+" "+id, rec)
		if err != nil {
			p.setStatus(err.Error(), true)
			return nil
		}
		p.modals.push(modal)
		return nil
	case a.Destructive:
		p.modals.push(NewConfirmModal(p.ctx, a, id))
		return nil
	default:
		p.invoke(a.Name, id, true)
		return nil
	}
}

func (p *TablePage) invoke(action, id string, confirmed bool) {
	err := p.table.Invoke(action, confirmed)
	p.refresh()
	switch {
	case err != nil:
		p.setStatus(err.Error(), true)
	case p.table.RequiresConfirmation(action) && !confirmed:
		p.setStatus(fmt.Sprintf("%s %s: cancelled", action, id), false)
	default:
		p.setStatus(fmt.Sprintf("%s %s: done", action, id), false)
	}
}

func (p *TablePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		return nil, nil

	case confirmResultMsg:
		p.invoke(msg.Action, msg.RecordID, msg.Confirmed)
		return nil, nil
	}

	if p.modals.top() != nil {
		return p.modals.update(msg), nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if p.searching {
			_, cmd := p.input.HandleKey(p, msg)
			return cmd, nil
		}
		return p.handleKey(msg)
	case tea.MouseMsg:
		if p.searching {
			_, cmd := p.input.HandleMouse(p, msg)
			return cmd, nil
		}
		return p.handleMouse(msg), nil
	}
	return nil, nil
}

func (p *TablePage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	if p.view.Menu.Open {
		actions := p.view.Actions
		switch {
		case key.Matches(msg, p.keys.Up):
			p.menuCursor = (p.menuCursor - 1 + len(actions)) % len(actions)
		case key.Matches(msg, p.keys.Down):
			p.menuCursor = (p.menuCursor + 1) % len(actions)
		case key.Matches(msg, p.keys.Enter):
			return p.runAction(actions[p.menuCursor]), nil
		case key.Matches(msg, p.keys.Escape):
			p.table.CloseMenu()
			p.refresh()
		}
		return nil, nil
	}

	switch {
	case key.Matches(msg, p.keys.Escape):
		return nil, &PageNav{PageID: OverviewPageID}
	case key.Matches(msg, p.keys.Help):
		p.modals.push(NewHelpModal(p.ctx))
	case key.Matches(msg, p.keys.Up):
		p.grid.MoveUp(1)
	case key.Matches(msg, p.keys.Down):
		p.grid.MoveDown(1)
	case key.Matches(msg, p.keys.Enter):
		p.openMenu(p.grid.Cursor())
	case key.Matches(msg, p.keys.PrevPage):
		p.goToPage(p.view.Pagination.CurrentPage - 1)
	case key.Matches(msg, p.keys.NextPage):
		p.goToPage(p.view.Pagination.CurrentPage + 1)
	case key.Matches(msg, p.keys.FirstPage):
		p.goToPage(1)
	case key.Matches(msg, p.keys.LastPage):
		p.goToPage(p.view.Pagination.TotalPages)
	case key.Matches(msg, p.keys.Search):
		p.searching = true
		p.search.SetValue(p.view.Query)
		p.search.CursorEnd()
		return p.search.Focus(), nil
	case key.Matches(msg, p.keys.NextFilter):
		if n := len(p.view.Filters); n > 0 {
			p.filterIdx = (p.filterIdx + 1) % n
		}
	case key.Matches(msg, p.keys.Filter):
		if p.filterIdx < len(p.view.Filters) {
			p.table.CycleFilter(p.view.Filters[p.filterIdx].Name)
			p.refresh()
		}
	case key.Matches(msg, p.keys.ClearFilters):
		for _, f := range p.view.Filters {
			p.table.SetFilter(f.Name, "")
		}
		p.refresh()
	case key.Matches(msg, p.keys.Reload):
		p.reload()
		p.setStatus("reloaded", false)
	}
	return nil, nil
}

func (p *TablePage) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		up := msg.Button == tea.MouseButtonWheelUp
		if p.ctx.ReverseScrollWheel {
			up = !up
		}
		if up {
			p.grid.MoveUp(1)
		} else {
			p.grid.MoveDown(1)
		}
		return nil
	case tea.MouseButtonLeft:
	default:
		return nil
	}

	wasOpen := p.view.Menu.Open
	bounds := p.table.MenuBounds()
	// The controller closes the menu when the press lands outside it.
	p.hub.Dispatch(browser.PointerEvent{X: msg.X, Y: msg.Y})
	p.refresh()

	if wasOpen {
		if bounds.Contains(msg.X, msg.Y) {
			item := msg.Y - bounds.Top - 1
			if item >= 0 && item < len(p.view.Actions) {
				p.menuCursor = item
				return p.runAction(p.view.Actions[item])
			}
		}
		return nil
	}

	if row := msg.Y - p.rowsTop(); msg.Y >= p.rowsTop() && row < len(p.view.Rows) && msg.X < p.gridWidth() {
		p.openMenu(row)
		return nil
	}
	if msg.Y == p.pagerY {
		for _, h := range p.pagerHits {
			if msg.X >= h.from && msg.X < h.to {
				p.goToPage(h.page)
				return nil
			}
		}
	}
	return nil
}

func (p *TablePage) View(width, height int) string {
	if m := p.modals.top(); m != nil {
		return m.View(width, height)
	}

	sections := []string{p.renderTitle(width), p.renderFilterBar(width)}
	grid := p.grid.View()
	if p.view.Empty {
		empty := helpStyle.Render("No records match the current search and filters.")
		grid = lipgloss.JoinVertical(lipgloss.Left, grid, "", "  "+empty)
	}
	sections = append(sections, grid)
	p.pagerY = gridTop + lipgloss.Height(grid)
	sections = append(sections, p.renderPager(), p.renderStatus(width))

	out := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if p.view.Menu.Open && p.view.Menu.Position != nil {
		pos := *p.view.Menu.Position
		out = overlayAt(out, p.renderMenu(), pos.Left, pos.Top, width)
	}
	return lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).Render(out)
}

func (p *TablePage) renderTitle(width int) string {
	left := barStyle.Bold(true).Render(" " + p.view.Title + " ")
	right := barStyle.Render(fmt.Sprintf(" %d records ", p.view.Pagination.TotalCount))
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + barStyle.Render(strings.Repeat(" ", gap)) + right
}

func (p *TablePage) renderFilterBar(width int) string {
	var parts []string
	if p.searching {
		parts = append(parts, p.search.View())
	} else if p.view.Query != "" {
		parts = append(parts, filterActiveStyle.Render("/ "+p.view.Query))
	} else {
		parts = append(parts, helpStyle.Render("/ search"))
	}
	for i, f := range p.view.Filters {
		value := "all"
		style := helpStyle
		if f.Value != "" {
			value = f.Value
			style = filterActiveStyle
		}
		label := f.Label + ": " + value
		if i == p.filterIdx {
			style = style.Inherit(filterFocusStyle)
		}
		parts = append(parts, style.Render(label))
	}
	line := strings.Join(parts, "   ")
	if lipgloss.Width(line) > width && width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

// renderPager draws the range summary and page controls, recording the
// clickable regions of each control.
func (p *TablePage) renderPager() string {
	info := p.view.Pagination
	p.pagerHits = p.pagerHits[:0]

	var b strings.Builder
	x := 0
	write := func(s string, style lipgloss.Style, page int) {
		w := runewidth.StringWidth(s)
		if page > 0 {
			p.pagerHits = append(p.pagerHits, pagerHit{from: x, to: x + w, page: page})
		}
		b.WriteString(style.Render(s))
		x += w
	}
	plain := lipgloss.NewStyle()

	write(fmt.Sprintf("Showing %d - %d of %d", info.RangeStart, info.RangeEnd, info.TotalCount), helpStyle, 0)
	write("   ", plain, 0)

	if info.HasPrev {
		write("‹ Prev", plain, info.CurrentPage-1)
	} else {
		write("‹ Prev", helpStyle, 0)
	}
	for _, c := range p.view.Controls {
		write(" ", plain, 0)
		switch {
		case c.Kind == browser.ControlEllipsis:
			write("…", helpStyle, 0)
		case c.Current:
			write(" "+strconv.Itoa(c.Page)+" ", pageCurrentStyle, c.Page)
		default:
			write(strconv.Itoa(c.Page), plain, c.Page)
		}
	}
	write(" ", plain, 0)
	if info.HasNext {
		write("Next ›", plain, info.CurrentPage+1)
	} else {
		write("Next ›", helpStyle, 0)
	}
	return b.String()
}

func (p *TablePage) renderStatus(width int) string {
	if p.status == "" {
		return p.help.View(p.keys)
	}
	style := okStyle
	if p.statusErr {
		style = errorStyle
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(style.Render(p.status))
}

func (p *TablePage) renderMenu() string {
	inner := terminalGeometry(0).Width
	if b := p.table.MenuBounds(); !b.Empty() {
		inner = b.Width()
	}
	inner -= 2 // border

	items := make([]string, len(p.view.Actions))
	for i, a := range p.view.Actions {
		label := " " + runewidth.Truncate(a.Label, inner-2, "…")
		style := lipgloss.NewStyle().Width(inner)
		if a.Destructive {
			style = style.Inherit(destructiveStyle)
		}
		if i == p.menuCursor {
			style = menuSelectedStyle.Width(inner)
		}
		items[i] = style.Render(label)
	}
	return menuStyle.Render(strings.Join(items, "\n"))
}
