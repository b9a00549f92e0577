package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/backoffice/internal/auth"
)

// Denied describes why a page could not be mounted.
type Denied struct {
	Screen string
	Roles  []string
	Err    error
}

// DeniedPage replaces any page the current session may not open.
type DeniedPage struct {
	keys   KeyMap
	denied Denied
}

func NewDeniedPage() *DeniedPage {
	return &DeniedPage{keys: DefaultKeyMap()}
}

func (d *DeniedPage) ID() string    { return DeniedPageID }
func (d *DeniedPage) Init() tea.Cmd { return nil }

// Receive records the refused page.
func (d *DeniedPage) Receive(params any) {
	if v, ok := params.(Denied); ok {
		d.denied = v
	}
}

func (d *DeniedPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, d.keys.Escape) || key.Matches(msg, d.keys.Enter) {
			return nil, &PageNav{PageID: OverviewPageID}
		}
	}
	return nil, nil
}

// Reason is the explanation shown to the operator.
func (d *DeniedPage) Reason() string {
	if errors.Is(d.denied.Err, auth.ErrUnauthenticated) {
		return "Your session is missing or has expired. Restart the console with a valid token."
	}
	screen := d.denied.Screen
	if screen == "" {
		screen = "this screen"
	}
	return fmt.Sprintf("Opening %s requires one of the roles: %s.", screen, strings.Join(d.denied.Roles, ", "))
}

func (d *DeniedPage) View(width, height int) string {
	block := lipgloss.JoinVertical(lipgloss.Center,
		errorStyle.Render("Access denied"),
		"",
		d.Reason(),
		"",
		helpStyle.Render("esc: overview | [ ]: switch screen | q: quit"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
