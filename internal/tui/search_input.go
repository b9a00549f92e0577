package tui

import tea "github.com/charmbracelet/bubbletea"

// searchInputHandler owns key input while the table page's search field is
// focused. The table is re-filtered on every keystroke.
type searchInputHandler struct{}

func (h searchInputHandler) HandleKey(p *TablePage, msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, tea.Quit
	case "escape", "esc":
		p.searching = false
		p.search.Blur()
		p.search.SetValue("")
		p.table.Search("")
		p.refresh()
		return true, nil
	case "enter":
		p.searching = false
		p.search.Blur()
		return true, nil
	default:
		var cmd tea.Cmd
		p.search, cmd = p.search.Update(msg)
		if p.search.Value() != p.view.Query {
			p.table.Search(p.search.Value())
			p.refresh()
		}
		return true, cmd
	}
}

func (h searchInputHandler) HandleMouse(_ *TablePage, _ tea.MouseMsg) (bool, tea.Cmd) {
	return true, nil // swallow mouse events during search input
}
