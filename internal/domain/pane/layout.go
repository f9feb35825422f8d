package pane

import "github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"

// Geometry is everything relayout depends on
type Geometry struct {
	Window       types.Size   `json:"window"`
	Chrome       types.Chrome `json:"chrome"`
	HeaderHeight int          `json:"headerHeight"`
}

// Slot is the computed placement of one pane
type Slot struct {
	Bounds types.Rect
	Header types.Rect
}

// Available returns the content area shared by all panes. Width or height
// may be zero or negative when chrome eats the whole window.
func (g Geometry) Available() types.Rect {
	return types.Rect{
		X:      g.Chrome.SidebarWidth,
		Y:      g.HeaderHeight,
		Width:  g.Window.Width - g.Chrome.SidebarWidth - g.Chrome.RightDockWidth,
		Height: g.Window.Height - g.HeaderHeight - g.Chrome.PromptBarHeight,
	}
}

// Compute returns n slots, left to right. Widths sum exactly to the
// available width; no space yields zero-sized rects.
func Compute(g Geometry, n int) []Slot {
	if n <= 0 {
		return nil
	}
	slots := make([]Slot, n)

	area := g.Available()
	if area.Width <= 0 || area.Height <= 0 {
		return slots
	}

	column := area.Width / n
	for i := range slots {
		width := column
		if i == n-1 {
			width = area.Width - column*(n-1)
		}
		x := area.X + column*i
		slots[i] = Slot{
			Bounds: types.Rect{X: x, Y: area.Y, Width: width, Height: area.Height},
			Header: types.Rect{X: x, Y: 0, Width: width, Height: g.HeaderHeight},
		}
	}
	return slots
}
