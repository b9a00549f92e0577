package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/tinytelemetry/backoffice/internal/auth"
	"github.com/tinytelemetry/backoffice/internal/model"
	"github.com/tinytelemetry/backoffice/internal/screens"
)

// listTop is the screen line of the first screen entry.
const listTop = 3

var barColors = []lipgloss.Color{"39", "42", "220", "208", "201", "45", "141"}

type countsMsg struct {
	counts map[model.Kind]int64
	err    error
}

// OverviewPage lists the screens the session may open with their record
// counts.
type OverviewPage struct {
	catalog *screens.Catalog
	guard   auth.Guard
	keys    KeyMap

	role   string
	items  []screens.Info
	counts map[model.Kind]int64
	err    error
	cursor int

	width  int
	height int
}

func NewOverviewPage(catalog *screens.Catalog, guard auth.Guard) *OverviewPage {
	return &OverviewPage{catalog: catalog, guard: guard, keys: DefaultKeyMap()}
}

func (o *OverviewPage) ID() string { return OverviewPageID }

// Init refreshes the visible screens for the current role and loads counts
// in the background.
func (o *OverviewPage) Init() tea.Cmd {
	o.role = ""
	if o.guard != nil {
		o.role, _ = o.guard.CurrentRole()
	}
	o.items = o.catalog.Visible(o.role)
	o.cursor = min(o.cursor, max(len(o.items)-1, 0))
	return o.loadCounts()
}

func (o *OverviewPage) loadCounts() tea.Cmd {
	store := o.catalog.Deps().Store
	return func() tea.Msg {
		counts, err := store.Counts()
		return countsMsg{counts: counts, err: err}
	}
}

// Selected returns the screen under the cursor.
func (o *OverviewPage) Selected() (screens.Info, bool) {
	if o.cursor < 0 || o.cursor >= len(o.items) {
		return screens.Info{}, false
	}
	return o.items[o.cursor], true
}

func (o *OverviewPage) open() *PageNav {
	info, ok := o.Selected()
	if !ok {
		return nil
	}
	return &PageNav{PageID: info.ID}
}

func (o *OverviewPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height

	case countsMsg:
		o.counts, o.err = msg.counts, msg.err
		if msg.err != nil {
			log.Error().Err(msg.err).Msg("loading record counts failed")
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, o.keys.Up):
			o.cursor = max(o.cursor-1, 0)
		case key.Matches(msg, o.keys.Down):
			o.cursor = min(o.cursor+1, max(len(o.items)-1, 0))
		case key.Matches(msg, o.keys.Enter):
			return nil, o.open()
		case key.Matches(msg, o.keys.Reload):
			return o.loadCounts(), nil
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i := msg.Y - listTop; i >= 0 && i < len(o.items) {
				o.cursor = i
				return nil, o.open()
			}
		}
	}
	return nil, nil
}

// renderBranding renders the console name with a green to blue gradient.
func renderBranding() string {
	colors := []string{"#49E209", "#35DD2F", "#21D955", "#0DD47B", "#00D0A1", "#00CAC7", "#00B4D8", "#0096C7", "#0077B6", "#1E90FF"}
	var b strings.Builder
	for i, ch := range "Backoffice" {
		b.WriteString(lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i%len(colors)])).
			Bold(true).
			Render(string(ch)))
	}
	return b.String()
}

func (o *OverviewPage) View(width, height int) string {
	left := barStyle.Render(" ") + renderBranding() + barStyle.Render(" ")
	role := o.role
	if role == "" {
		role = "no session"
	}
	right := barStyle.Render(" role: " + role + " ")
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	title := left + barStyle.Render(strings.Repeat(" ", gap)) + right

	lines := []string{title, "", headingStyle.Render("Screens")}
	if len(o.items) == 0 {
		lines = append(lines, helpStyle.Render("  No screens are available to this session."))
	}
	for i, info := range o.items {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == o.cursor {
			marker = "▸ "
			style = style.Foreground(ColorBlue).Bold(true)
		}
		count := "…"
		if n, ok := o.counts[info.Kind]; ok {
			count = fmt.Sprintf("%d", n)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%-22s %6s", marker, info.Title, count)))
	}
	if o.err != nil {
		lines = append(lines, "", errorStyle.Render("counts unavailable: "+o.err.Error()))
	}

	lines = append(lines, "", headingStyle.Render("Records per screen"), o.renderChart(width))
	lines = append(lines, "", helpStyle.Render("↑/↓: select | enter: open | [ ]: switch screen | r: reload | q: quit"))

	return lipgloss.NewStyle().MaxWidth(width).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

func (o *OverviewPage) renderChart(width int) string {
	if len(o.items) == 0 || o.counts == nil {
		return helpStyle.Render("No data available")
	}

	chartWidth := min(max(width-4, 20), 8*len(o.items))
	barWidth := max(chartWidth/len(o.items)-1, 1)
	bc := barchart.New(chartWidth, 8,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(barWidth),
		barchart.WithNoAxis(),
	)

	var legend []string
	for i, info := range o.items {
		color := barColors[i%len(barColors)]
		style := lipgloss.NewStyle().Foreground(color).Background(color)
		bc.Push(barchart.BarData{
			Label: info.ID,
			Values: []barchart.BarValue{
				{Name: info.Title, Value: float64(o.counts[info.Kind]), Style: style},
			},
		})
		legend = append(legend, lipgloss.NewStyle().Foreground(color).Render("■ "+info.Title))
	}
	bc.Draw()

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), strings.Join(legend, "  "))
}
