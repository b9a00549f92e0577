package tui

import (
	"fmt"

	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

// NewConsole builds the App: the overview page followed by one table page
// per screen in the catalog. Every screen is registered regardless of role so
// that refused pages surface the access-denied page.
func NewConsole(catalog *screens.Catalog, guard auth.Guard, opts TableOptions) (*App, error) {
	pages := []Page{NewOverviewPage(catalog, guard)}
	for _, info := range catalog.Screens() {
		p, err := NewTablePage(catalog, info.ID, opts)
		if err != nil {
			return nil, fmt.Errorf("opening screen %s: %w", info.ID, err)
		}
		pages = append(pages, p)
	}
	return NewApp(guard, pages...), nil
}
