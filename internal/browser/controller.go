package browser

import (
	"errors"
	"fmt"
)

// DefaultPageSize is used when a Config leaves PageSize unset.
const DefaultPageSize = 14

var (
	// ErrNoSelection is returned when an action is invoked with no menu open.
	ErrNoSelection = errors.New("no record selected")
	// ErrUnknownAction is returned for an action name the screen does not define.
	ErrUnknownAction = errors.New("unknown action")
)

// ActionFunc performs an action against one record.
type ActionFunc func(recordID string) error

// Action is a named operation offered in the contextual menu.
type Action struct {
	Name        string
	Label       string
	Destructive bool
	Handler     ActionFunc
}

// Confirmer asks whether a destructive action should proceed.
type Confirmer func(action Action, recordID string) bool

// Config wires a Controller to its records and callbacks.
type Config[T any] struct {
	PageSize int
	RecordID func(T) string
	Search   SearchPredicate[T]
	Filters  []Filter[T]
	Actions  []Action
	Confirm  Confirmer
	Geometry Geometry
	Pointer  PointerSource
}

// Controller owns the page and menu state of one table screen. It is not
// safe for concurrent use; every transition happens on the UI goroutine.
type Controller[T any] struct {
	cfg      Config[T]
	records  []T
	filtered []T
	query    string
	filters  FilterSet[T]
	page     int
	menu     MenuState

	unsubscribe func()
}

// NewController returns a controller on page 1 with no records.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Geometry == (Geometry{}) {
		cfg.Geometry = DefaultGeometry
	}
	return &Controller[T]{
		cfg:     cfg,
		filters: NewFilterSet(cfg.Filters...),
		page:    1,
	}
}

// SetRecords replaces the full record set. The current page is clamped and
// an open menu whose record disappeared is closed.
func (c *Controller[T]) SetRecords(records []T) {
	c.records = records
	c.refilter()
	c.page = ClampPage(c.page, TotalPages(len(c.filtered), c.cfg.PageSize))
	c.dropHiddenMenu()
}

// dropHiddenMenu closes the menu when its record is no longer on the
// visible page.
func (c *Controller[T]) dropHiddenMenu() {
	if c.menu.Open && !c.visible(c.menu.TargetID) {
		c.closeMenu()
	}
}

func (c *Controller[T]) refilter() {
	c.filtered = Apply(c.records, c.query, c.cfg.Search, c.filters)
}

func (c *Controller[T]) visible(id string) bool {
	if c.cfg.RecordID == nil {
		return true
	}
	for _, r := range c.Visible() {
		if c.cfg.RecordID(r) == id {
			return true
		}
	}
	return false
}

// OnSearch applies a new query and returns to page 1.
func (c *Controller[T]) OnSearch(query string) {
	c.query = query
	c.page = 1
	c.refilter()
	c.dropHiddenMenu()
}

// OnFilterChange sets a filter value and returns to page 1. Unknown filter
// names are ignored and reported as false.
func (c *Controller[T]) OnFilterChange(name, value string) bool {
	if !c.filters.Set(name, value) {
		return false
	}
	c.page = 1
	c.refilter()
	c.dropHiddenMenu()
	return true
}

// OnPageChange moves to page p. Requests outside [1, TotalPages] are ignored
// and reported as false.
func (c *Controller[T]) OnPageChange(p int) bool {
	if p < 1 || p > TotalPages(len(c.filtered), c.cfg.PageSize) {
		return false
	}
	if p != c.page {
		c.closeMenu()
	}
	c.page = p
	return true
}

// OnActionTrigger opens the action menu for recordID next to trigger,
// closing any menu that was already open.
func (c *Controller[T]) OnActionTrigger(recordID string, trigger Rect, viewportWidth int) {
	c.closeMenu()
	pos := PlaceMenu(trigger, viewportWidth, c.cfg.Geometry)
	c.menu = MenuState{Open: true, TargetID: recordID, Position: &pos}
	if c.cfg.Pointer != nil {
		c.unsubscribe = c.cfg.Pointer.Subscribe(c.handlePointer)
	}
}

// OnOutsideInteraction closes the menu and clears the selection.
func (c *Controller[T]) OnOutsideInteraction() {
	c.closeMenu()
}

func (c *Controller[T]) handlePointer(ev PointerEvent) {
	if !c.menu.Open || c.menu.Position == nil {
		return
	}
	if !c.MenuBounds().Contains(ev.X, ev.Y) {
		c.closeMenu()
	}
}

// MenuBounds returns the area covered by the open menu, or an empty Rect.
func (c *Controller[T]) MenuBounds() Rect {
	if !c.menu.Open || c.menu.Position == nil {
		return Rect{}
	}
	return c.cfg.Geometry.Bounds(*c.menu.Position, len(c.cfg.Actions))
}

// OnAction runs the named action for the selected record, asking the
// configured Confirmer first when the action is destructive. Without a
// Confirmer destructive actions are declined.
func (c *Controller[T]) OnAction(kind string) error {
	a, ok := c.Action(kind)
	confirmed := true
	if ok && a.Destructive && c.menu.Open {
		confirmed = c.cfg.Confirm != nil && c.cfg.Confirm(a, c.menu.TargetID)
	}
	return c.OnActionConfirmed(kind, confirmed)
}

// OnActionConfirmed runs the named action with an answer the caller already
// collected. The menu closes whether or not the handler runs; a declined
// destructive action does nothing else.
func (c *Controller[T]) OnActionConfirmed(kind string, confirmed bool) error {
	if !c.menu.Open {
		return ErrNoSelection
	}
	a, ok := c.Action(kind)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, kind)
	}
	id := c.menu.TargetID
	c.closeMenu()

	if a.Destructive && !confirmed {
		return nil
	}
	if a.Handler == nil {
		return nil
	}
	if err := a.Handler(id); err != nil {
		return fmt.Errorf("%s %s: %w", a.Name, id, err)
	}
	return nil
}

// Close releases the pointer subscription. The controller must not be used
// afterwards.
func (c *Controller[T]) Close() {
	c.closeMenu()
}

func (c *Controller[T]) closeMenu() {
	c.menu = MenuState{}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Action looks up an action by name.
func (c *Controller[T]) Action(name string) (Action, bool) {
	for _, a := range c.cfg.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Actions returns the actions offered in the menu, in order.
func (c *Controller[T]) Actions() []Action {
	return append([]Action(nil), c.cfg.Actions...)
}

// RequiresConfirmation reports whether the named action is destructive.
func (c *Controller[T]) RequiresConfirmation(name string) bool {
	a, ok := c.Action(name)
	return ok && a.Destructive
}

// Visible returns the records on the current page.
func (c *Controller[T]) Visible() []T {
	return Slice(c.filtered, c.page, c.cfg.PageSize)
}

// Filtered returns every record passing the current query and filters.
func (c *Controller[T]) Filtered() []T {
	return c.filtered
}

// Empty reports whether the current query and filters match nothing.
func (c *Controller[T]) Empty() bool {
	return len(c.filtered) == 0
}

// Pagination returns the metadata for the current page.
func (c *Controller[T]) Pagination() PageInfo {
	return Paginate(len(c.filtered), c.page, c.cfg.PageSize)
}

// Window returns the page-button layout for the current page.
func (c *Controller[T]) Window() []Control {
	return Window(c.page, TotalPages(len(c.filtered), c.cfg.PageSize))
}

// Menu returns the current menu state.
func (c *Controller[T]) Menu() MenuState {
	m := c.menu
	if m.Position != nil {
		pos := *m.Position
		m.Position = &pos
	}
	return m
}

// Selected returns the record the open menu targets, or "".
func (c *Controller[T]) Selected() string {
	return c.menu.TargetID
}

// Query returns the current search query.
func (c *Controller[T]) Query() string { return c.query }

// Filters returns the filters with their current values.
func (c *Controller[T]) Filters() []Filter[T] { return c.filters.Filters() }

// FilterValue returns the current value of the named filter.
func (c *Controller[T]) FilterValue(name string) string { return c.filters.Value(name) }

// CurrentPage returns the 1-based current page.
func (c *Controller[T]) CurrentPage() int { return c.page }

// PageSize returns the configured page size.
func (c *Controller[T]) PageSize() int { return c.cfg.PageSize }

// Geometry returns the menu geometry in use.
func (c *Controller[T]) Geometry() Geometry { return c.cfg.Geometry }

// Find returns the record with the given ID from the full record set.
func (c *Controller[T]) Find(id string) (T, bool) {
	var zero T
	if c.cfg.RecordID == nil {
		return zero, false
	}
	for _, r := range c.records {
		if c.cfg.RecordID(r) == id {
			return r, true
		}
	}
	return zero, false
}
