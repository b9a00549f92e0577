package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/tinytelemetry/backoffice/internal/browser"
)

// defaultMenuWidth is the action menu width in terminal cells.
const defaultMenuWidth = 22

// terminalGeometry expresses menu geometry in terminal cells: one line per
// action and a border line above and below.
func terminalGeometry(width int) browser.Geometry {
	if width <= 0 {
		width = defaultMenuWidth
	}
	return browser.Geometry{Width: width, Gap: 1, Margin: 1, ItemHeight: 1, Padding: 1}
}

// overlayAt composites overlay on top of base with its top-left corner at
// cell (x, y). Lines falling outside base are dropped.
func overlayAt(base, overlay string, x, y, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}
	x = max(x, 0)

	for i, line := range overlayLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		line = padRight(line, overlayWidth)
		right := ansi.TruncateLeft(target, x+overlayWidth, "")
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// padRight pads s with spaces so its visual width equals width.
func padRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if width <= 0 || w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
