package shell

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

type PlacementPolicy string

const (
	PlacementZeroCornered PlacementPolicy = "zero-cornered"
	PlacementCentered     PlacementPolicy = "centered"
	PlacementCascade      PlacementPolicy = "cascade"
	PlacementMaximizing   PlacementPolicy = "maximizing"
)

const cascadeStep = 24

func (p PlacementPolicy) IsValid() bool {
	switch p {
	case PlacementZeroCornered, PlacementCentered, PlacementCascade, PlacementMaximizing:
		return true
	default:
		return false
	}
}

// place returns the initial frame of a window. Transients go on their
// parent, everything else follows the placement policy on the current
// output. The result stays inside the placement area.
func (ws *Workspace) place(w *Window, size geom.Size) geom.Rect {
	if parent := w.transientFor; parent != nil {
		area := ws.ClientArea(AreaPlacement, parent.Output())
		if w.transientOffset != nil {
			return LegacyPositioner(*w.transientOffset, size).Place(parent.clientOrigin(), area)
		}
		return keepInArea(centerIn(size, parent.geom), area)
	}

	out := ws.outputs.Current()
	area := ws.ClientArea(AreaPlacement, out)

	var r geom.Rect
	switch ws.options.Placement {
	case PlacementZeroCornered:
		r = geom.NewRect(area.Pos(), size)
	case PlacementCascade:
		r = ws.placeCascaded(out, area, size)
	default:
		r = centerIn(size, area)
	}

	r = r.MoveTo(w.rules().CheckPosition(r.Pos(), true))
	return keepInArea(r, area)
}

func (ws *Workspace) placeCascaded(out int, area geom.Rect, size geom.Size) geom.Rect {
	pos, ok := ws.cascade[out]
	if !ok || !area.ContainsPoint(pos) {
		pos = area.Pos()
	}
	r := geom.NewRect(pos, size)
	if r.Right() > area.Right() || r.Bottom() > area.Bottom() {
		r = r.MoveTo(area.Pos())
	}
	ws.cascade[out] = r.Pos().Add(geom.Point{X: cascadeStep, Y: cascadeStep})
	return r
}

// placeMapped runs the part of placement that needs a mapped window.
func (ws *Workspace) placeMapped(w *Window) {
	if ws.options.Placement != PlacementMaximizing || w.transientFor != nil || w.role.Kind() == RolePopup {
		return
	}
	if w.requestedMaximizeMode == MaximizeRestore && !w.requestedFullScreen && w.requestedQuickTile == tile.None && w.panel == PanelNone {
		w.Maximize(MaximizeFull)
	}
}

func centerIn(size geom.Size, r geom.Rect) geom.Rect {
	return geom.NewRect(geom.Point{
		X: r.X + (r.Width-size.Width)/2,
		Y: r.Y + (r.Height-size.Height)/2,
	}, size)
}
