package screens

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tinytelemetry/backoffice/internal/duckdb"
	"github.com/tinytelemetry/backoffice/internal/model"
)

// ErrUnknownScreen is returned when a screen ID is not in the catalog.
var ErrUnknownScreen = errors.New("unknown screen")

// Info describes a screen without binding it to data.
type Info struct {
	ID    string     `json:"id"`
	Title string     `json:"title"`
	Kind  model.Kind `json:"kind"`
	Roles []string   `json:"roles"`
}

type entry struct {
	info Info
	open func(Options) Table
}

// Catalog is the ordered set of back-office screens over one store.
type Catalog struct {
	deps    Deps
	entries []entry
}

func register[T any](c *Catalog, def Definition[T]) {
	c.entries = append(c.entries, entry{
		info: Info{ID: def.ID, Title: def.Title, Kind: def.Kind, Roles: def.Roles},
		open: func(opts Options) Table {
			return New(def, duckdb.NewSource[T](c.deps.Store, def.Kind), opts)
		},
	})
}

// NewCatalog registers every screen against deps.Store.
func NewCatalog(deps Deps) *Catalog {
	c := &Catalog{deps: deps}
	register(c, Users(deps))
	register(c, Trades(deps))
	register(c, CardTransactions(deps))
	register(c, KYC(deps))
	register(c, Signals(deps))
	register(c, WithdrawalSettings(deps))
	register(c, WalletAdjustments(deps))
	return c
}

// Deps returns the collaborators the catalog was built with.
func (c *Catalog) Deps() Deps { return c.deps }

// Screens lists every screen in display order.
func (c *Catalog) Screens() []Info {
	out := make([]Info, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.info
	}
	return out
}

// Visible lists the screens a role may open.
func (c *Catalog) Visible(role string) []Info {
	var out []Info
	for _, e := range c.entries {
		if len(e.info.Roles) == 0 || slices.Contains(e.info.Roles, role) {
			out = append(out, e.info)
		}
	}
	return out
}

// Lookup returns the screen with the given ID.
func (c *Catalog) Lookup(id string) (Info, bool) {
	for _, e := range c.entries {
		if e.info.ID == id {
			return e.info, true
		}
	}
	return Info{}, false
}

// Open binds the screen to the store and loads its records.
func (c *Catalog) Open(id string, opts Options) (Table, error) {
	for _, e := range c.entries {
		if e.info.ID != id {
			continue
		}
		t := e.open(opts)
		if err := t.Reload(); err != nil {
			t.Close()
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, id)
}
