package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinytelemetry/backoffice/internal/screens"
	"gopkg.in/yaml.v3"
)

// Modal is a self-contained modal that owns its own Update/View lifecycle.
// Modals are managed via a stack on the table page; the topmost modal
// receives all input and renders full-screen.
type Modal interface {
	// ID returns a unique identifier used to deduplicate pushes.
	ID() string
	// Update processes a message. Return pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	// View renders the modal content for the given terminal dimensions.
	View(width, height int) string
}

// ModalContext provides read-only settings to modals.
type ModalContext struct {
	ReverseScrollWheel bool
	Keys               KeyMap
}

type modalStack []Modal

func (s *modalStack) push(m Modal) {
	for _, existing := range *s {
		if existing.ID() == m.ID() {
			return
		}
	}
	*s = append(*s, m)
}

func (s *modalStack) pop() {
	if n := len(*s); n > 0 {
		*s = (*s)[:n-1]
	}
}

func (s modalStack) top() Modal {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// update routes msg to the topmost modal and pops it when asked.
func (s *modalStack) update(msg tea.Msg) tea.Cmd {
	m := s.top()
	if m == nil {
		return nil
	}
	pop, cmd := m.Update(msg)
	if pop {
		s.pop()
	}
	return cmd
}

// confirmResultMsg carries the answer of a ConfirmModal back to its page.
type confirmResultMsg struct {
	Action    string
	RecordID  string
	Confirmed bool
}

// ConfirmModal asks whether a destructive action should run.
type ConfirmModal struct {
	keys     KeyMap
	action   screens.ActionView
	recordID string
}

// NewConfirmModal creates a confirmation prompt for action on recordID.
func NewConfirmModal(ctx ModalContext, action screens.ActionView, recordID string) *ConfirmModal {
	return &ConfirmModal{keys: ctx.Keys, action: action, recordID: recordID}
}

func (c *ConfirmModal) ID() string { return "confirm" }

func (c *ConfirmModal) answer(confirmed bool) tea.Cmd {
	res := confirmResultMsg{Action: c.action.Name, RecordID: c.recordID, Confirmed: confirmed}
	return func() tea.Msg { return res }
}

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, c.keys.Yes):
			return true, c.answer(true)
		case key.Matches(msg, c.keys.No):
			return true, c.answer(false)
		}
	}
	// Everything else, mouse included, is swallowed until answered.
	return false, nil
}

func (c *ConfirmModal) View(width, height int) string {
	label := c.action.Label
	if label == "" {
		label = c.action.Name
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		destructiveStyle.Bold(true).Render(fmt.Sprintf("%s %s?", label, c.recordID)),
		"",
		"This action cannot be undone.",
		"",
		helpStyle.Render("y: confirm | n/ESC: cancel"),
	)
	box := lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorRed).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// scrollModal is a full-screen scrollable modal used for record details and
// help.
type scrollModal struct {
	id       string
	title    string
	content  string
	ctx      ModalContext
	viewport viewport.Model
}

// NewDetailModal renders record as YAML in a scrollable modal.
func NewDetailModal(ctx ModalContext, title string, record any) (Modal, error) {
	out, err := yaml.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", title, err)
	}
	return &scrollModal{
		id:       "detail",
		title:    title,
		content:  colorizeStatus(string(out)),
		ctx:      ctx,
		viewport: viewport.New(80, 20),
	}, nil
}

// NewHelpModal lists every key binding.
func NewHelpModal(ctx ModalContext) Modal {
	h := help.New()
	h.ShowAll = true
	return &scrollModal{
		id:       "help",
		title:    "Help & Key Bindings",
		content:  h.View(ctx.Keys),
		ctx:      ctx,
		viewport: viewport.New(80, 20),
	}
}

// colorizeStatus highlights the status line of a YAML document.
func colorizeStatus(doc string) string {
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	for i, line := range lines {
		if v, ok := strings.CutPrefix(line, "status: "); ok {
			lines[i] = "status: " + lipgloss.NewStyle().Foreground(statusColor(v)).Bold(true).Render(v)
		}
	}
	return strings.Join(lines, "\n")
}

func (s *scrollModal) ID() string { return s.id }

func (s *scrollModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			s.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			s.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			s.viewport.HalfPageDown()
			return false, nil
		case "?", "q", "enter", "escape", "esc":
			return true, nil
		}
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return false, nil
		}
		up := msg.Button == tea.MouseButtonWheelUp
		down := msg.Button == tea.MouseButtonWheelDown
		if s.ctx.ReverseScrollWheel {
			up, down = down, up
		}
		switch {
		case up:
			s.viewport.ScrollUp(1)
		case down:
			s.viewport.ScrollDown(1)
		}
		return false, nil
	}
	return false, nil
}

func (s *scrollModal) View(width, height int) string {
	modalWidth := max(width-8, 20)   // 4 chars margin on each side
	modalHeight := max(height-6, 8)  // 3 lines margin top and bottom
	contentWidth := modalWidth - 4   // borders
	contentHeight := modalHeight - 4 // header + status

	s.viewport.Width = contentWidth
	s.viewport.Height = contentHeight
	s.viewport.SetContent(s.content)

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(s.viewport.View())

	header := headingStyle.Width(contentWidth).Render(s.title)
	status := helpStyle.Render("up/down/Wheel: Scroll | PgUp/PgDn: Page | ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, status)
	framed := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, framed)
}
