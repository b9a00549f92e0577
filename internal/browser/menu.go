package browser

// Rect is a rectangle in viewport coordinates. Right and Bottom are exclusive
// edges (Left+Width, Top+Height).
type Rect struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// RectAt builds a Rect from its origin and size.
func RectAt(left, top, width, height int) Rect {
	return Rect{Top: top, Left: left, Right: left + width, Bottom: top + height}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

// Position is the top-left corner of a placed menu.
type Position struct {
	Top  int `json:"top"`
	Left int `json:"left"`
}

// Geometry describes the menu being placed. Gap separates the menu from its
// trigger; Margin is the minimum distance from the viewport's left edge.
// ItemHeight and Padding size the menu vertically for hit-testing.
type Geometry struct {
	Width      int `json:"width"`
	Gap        int `json:"gap"`
	Margin     int `json:"margin"`
	ItemHeight int `json:"itemHeight"`
	Padding    int `json:"padding"`
}

// DefaultGeometry is the pixel geometry used by the web front-end.
var DefaultGeometry = Geometry{Width: 160, Gap: 10, Margin: 10, ItemHeight: 32, Padding: 8}

// Bounds returns the rectangle covered by a menu with n items at pos.
func (g Geometry) Bounds(pos Position, n int) Rect {
	return RectAt(pos.Left, pos.Top, g.Width, n*g.ItemHeight+2*g.Padding)
}

// PlaceMenu positions a menu next to its trigger. The menu opens to the left
// of the trigger, flips to the right when that would leave the viewport, and
// flips back when the right side overflows too. The result is never closer
// than Margin to the left edge. A zero trigger or non-positive viewport width
// yields the default left placement without clamping.
func PlaceMenu(trigger Rect, viewportWidth int, g Geometry) Position {
	pos := Position{
		Top:  trigger.Bottom + g.Gap,
		Left: trigger.Left - g.Width - g.Gap,
	}
	if trigger == (Rect{}) || viewportWidth <= 0 {
		return pos
	}

	if pos.Left < 0 {
		pos.Left = trigger.Right + g.Gap
		if pos.Left+g.Width > viewportWidth {
			pos.Left = trigger.Left - g.Width - g.Gap
		}
	}
	if pos.Left < g.Margin {
		pos.Left = g.Margin
	}
	return pos
}

// MenuState is the render state of the contextual action menu. Position is
// nil while the menu is closed.
type MenuState struct {
	Open     bool      `json:"isOpen"`
	TargetID string    `json:"targetRecordId,omitempty"`
	Position *Position `json:"position"`
}
