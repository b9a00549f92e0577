// Package screens defines the back-office tables and adapts each one to a
// uniform, type-erased Table that the terminal UI and the HTTP API drive.
package screens

import (
	"fmt"
	"slices"

	"github.com/tinytelemetry/backoffice/internal/browser"
	"github.com/tinytelemetry/backoffice/internal/model"
)

// Source supplies the full record set for one screen.
type Source[T any] interface {
	Records() ([]T, error)
}

// Column renders one table column.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Definition describes one screen over records of type T.
type Definition[T any] struct {
	ID       string
	Title    string
	Kind     model.Kind
	Roles    []string
	RecordID func(T) string
	Columns  []Column[T]
	Search   func(T) []string
	Filters  []browser.Filter[T]
	Actions  []browser.Action
}

// Options tune a Table for the surface it is rendered on.
type Options struct {
	PageSize int
	Geometry browser.Geometry
	Pointer  browser.PointerSource
}

// ColumnView is a column header.
type ColumnView struct {
	Title string `json:"title"`
	Width int    `json:"width"`
}

// Row is one rendered record.
type Row struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

// FilterView is a filter with its selectable options.
type FilterView struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Value   string   `json:"value"`
	Options []string `json:"options"`
}

// ActionView is a menu entry.
type ActionView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Destructive bool   `json:"destructive"`
}

// View is a render snapshot of a Table.
type View struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Columns    []ColumnView      `json:"columns"`
	Rows       []Row             `json:"rows"`
	Empty      bool              `json:"empty"`
	Query      string            `json:"query"`
	Filters    []FilterView      `json:"filters"`
	Actions    []ActionView      `json:"actions"`
	Pagination browser.PageInfo  `json:"pagination"`
	Controls   []browser.Control `json:"controls"`
	Menu       browser.MenuState `json:"menu"`
}

// Table is a screen bound to its data source and page state.
type Table interface {
	ID() string
	Title() string
	Kind() model.Kind
	Roles() []string

	Reload() error
	Search(query string)
	SetFilter(name, value string) bool
	CycleFilter(name string) bool
	GoToPage(page int) bool

	OpenMenu(recordID string, trigger browser.Rect, viewportWidth int)
	CloseMenu()
	MenuBounds() browser.Rect
	RequiresConfirmation(action string) bool
	Invoke(action string, confirmed bool) error

	Record(id string) (any, bool)
	View() View
	Close()
}

type table[T any] struct {
	def  Definition[T]
	src  Source[T]
	ctrl *browser.Controller[T]
}

// New binds a definition to its source. The table is empty until Reload.
func New[T any](def Definition[T], src Source[T], opts Options) Table {
	search := browser.SearchPredicate[T](nil)
	if def.Search != nil {
		search = browser.FieldSearch(def.Search)
	}
	return &table[T]{
		def: def,
		src: src,
		ctrl: browser.NewController(browser.Config[T]{
			PageSize: opts.PageSize,
			RecordID: def.RecordID,
			Search:   search,
			Filters:  def.Filters,
			Actions:  def.Actions,
			Geometry: opts.Geometry,
			Pointer:  opts.Pointer,
		}),
	}
}

func (t *table[T]) ID() string       { return t.def.ID }
func (t *table[T]) Title() string    { return t.def.Title }
func (t *table[T]) Kind() model.Kind { return t.def.Kind }
func (t *table[T]) Roles() []string  { return t.def.Roles }

func (t *table[T]) Reload() error {
	records, err := t.src.Records()
	if err != nil {
		return fmt.Errorf("loading %s: %w", t.def.ID, err)
	}
	t.ctrl.SetRecords(records)
	return nil
}

func (t *table[T]) Search(query string)               { t.ctrl.OnSearch(query) }
func (t *table[T]) SetFilter(name, value string) bool { return t.ctrl.OnFilterChange(name, value) }
func (t *table[T]) GoToPage(page int) bool            { return t.ctrl.OnPageChange(page) }

// CycleFilter advances the named filter to its next option, wrapping through
// the inactive state.
func (t *table[T]) CycleFilter(name string) bool {
	for _, f := range t.ctrl.Filters() {
		if f.Name == name {
			return t.ctrl.OnFilterChange(name, NextOption(f.Options, f.Value))
		}
	}
	return false
}

// NextOption returns the option after current, with "" before the first and
// after the last option.
func NextOption(options []string, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	i := slices.Index(options, current)
	if i < 0 || i == len(options)-1 {
		return ""
	}
	return options[i+1]
}

func (t *table[T]) OpenMenu(recordID string, trigger browser.Rect, viewportWidth int) {
	t.ctrl.OnActionTrigger(recordID, trigger, viewportWidth)
}

func (t *table[T]) CloseMenu()                { t.ctrl.OnOutsideInteraction() }
func (t *table[T]) MenuBounds() browser.Rect { return t.ctrl.MenuBounds() }

func (t *table[T]) RequiresConfirmation(action string) bool {
	return t.ctrl.RequiresConfirmation(action)
}

// Invoke runs an action on the record the menu targets and reloads the
// table so the result is visible.
func (t *table[T]) Invoke(action string, confirmed bool) error {
	err := t.ctrl.OnActionConfirmed(action, confirmed)
	if rerr := t.Reload(); rerr != nil && err == nil {
		err = rerr
	}
	return err
}

func (t *table[T]) Record(id string) (any, bool) {
	r, ok := t.ctrl.Find(id)
	if !ok {
		return nil, false
	}
	return r, true
}

func (t *table[T]) Close() { t.ctrl.Close() }

func (t *table[T]) View() View {
	v := View{
		ID:         t.def.ID,
		Title:      t.def.Title,
		Empty:      t.ctrl.Empty(),
		Query:      t.ctrl.Query(),
		Pagination: t.ctrl.Pagination(),
		Controls:   t.ctrl.Window(),
		Menu:       t.ctrl.Menu(),
		Rows:       []Row{},
	}
	for _, c := range t.def.Columns {
		v.Columns = append(v.Columns, ColumnView{Title: c.Title, Width: c.Width})
	}
	for _, r := range t.ctrl.Visible() {
		row := Row{ID: t.def.RecordID(r), Cells: make([]string, len(t.def.Columns))}
		for i, c := range t.def.Columns {
			row.Cells[i] = c.Value(r)
		}
		v.Rows = append(v.Rows, row)
	}
	for _, f := range t.ctrl.Filters() {
		v.Filters = append(v.Filters, FilterView{Name: f.Name, Label: f.Label, Value: f.Value, Options: f.Options})
	}
	for _, a := range t.ctrl.Actions() {
		v.Actions = append(v.Actions, ActionView{Name: a.Name, Label: a.Label, Destructive: a.Destructive})
	}
	return v
}
