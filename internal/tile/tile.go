package tile

import "github.com/ItsNotGoodName/x-wmshell/internal/geom"

// Rect returns the canonical rectangle for mode inside area. The odd pixel
// of a split goes to the right and bottom halves. Maximize and None return
// the whole area.
func Rect(mode Mode, area geom.Rect) geom.Rect {
	r := area
	mode = mode.Sanitize()
	if mode == Maximize || mode == None {
		return r
	}

	hw, hh := area.Width/2, area.Height/2

	switch {
	case mode&Left != 0:
		r.Width = hw
	case mode&Right != 0:
		r.X = area.Right() - (area.Width - hw)
		r.Width = area.Width - hw
	}

	switch {
	case mode&Top != 0:
		r.Height = hh
	case mode&Bottom != 0:
		r.Y = area.Bottom() - (area.Height - hh)
		r.Height = area.Height - hh
	}

	return r
}

// Canonical lists the nine canonical modes.
func Canonical() []Mode {
	return []Mode{
		Left, Right, Top, Bottom,
		Left | Top, Right | Top, Left | Bottom, Right | Bottom,
		Maximize,
	}
}
