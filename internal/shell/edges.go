package shell

import (
	"fmt"
	"slices"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
)

// PanelBehavior is how a panel shares its screen edge with other windows.
type PanelBehavior uint8

const (
	PanelNone PanelBehavior = iota
	PanelAlwaysVisible
	PanelAutoHide
	PanelWindowsCanCover
	PanelWindowsGoBelow
)

var panelBehaviorNames = []string{"none", "always-visible", "auto-hide", "windows-can-cover", "windows-go-below"}

func (b PanelBehavior) String() string {
	if int(b) < len(panelBehaviorNames) {
		return panelBehaviorNames[b]
	}
	return fmt.Sprintf("PanelBehavior(%d)", b)
}

func ParsePanelBehavior(s string) (PanelBehavior, bool) {
	for i, name := range panelBehaviorNames {
		if name == s {
			return PanelBehavior(i), true
		}
	}
	return PanelNone, false
}

// SetPanelBehavior turns the window into a panel, or back into a normal
// window with PanelNone.
func (w *Window) SetPanelBehavior(b PanelBehavior) {
	if w.destroyed || w.panel == b {
		return
	}
	w.panel = b
	w.ws.updateShowOnScreenEdge(w)
	w.ws.updateStruts()
}

// Strut returns the space an always visible panel reserves on the output
// edge it touches.
func (w *Window) Strut() geom.Insets {
	if w.panel != PanelAlwaysVisible || !w.mapped || w.hidden || !w.geom.IsValid() {
		return geom.Insets{}
	}

	out := w.ws.outputs.Geometry(w.Output())
	g := w.geom
	var s geom.Insets
	if g.Width >= g.Height {
		switch {
		case g.Y == out.Y:
			s.Top = g.Bottom() - out.Y
		case g.Bottom() == out.Bottom():
			s.Bottom = out.Bottom() - g.Y
		}
	} else {
		switch {
		case g.X == out.X:
			s.Left = g.Right() - out.X
		case g.Right() == out.Right():
			s.Right = out.Right() - g.X
		}
	}
	return s
}

// ShowOnScreenEdge shows a panel whose reserved edge was triggered.
func (w *Window) ShowOnScreenEdge() {
	if w.destroyed || !w.mapped || w.panel == PanelNone {
		return
	}
	w.Show()
	if w.panel == PanelAutoHide {
		if s, ok := w.role.surface().(PanelSurface); ok {
			s.ShowAutoHidingPanel()
		}
	}
}

type edgeKey struct {
	output int
	edge   Edges
}

// updateShowOnScreenEdge reserves the screen edge of hidden auto-hide
// panels and of panels windows can cover.
func (ws *Workspace) updateShowOnScreenEdge(w *Window) {
	for k, v := range ws.edges {
		if v == w {
			delete(ws.edges, k)
		}
	}
	if w.destroyed || !w.mapped {
		return
	}
	if !(w.panel == PanelAutoHide && w.hidden) && w.panel != PanelWindowsCanCover {
		return
	}

	edge := panelEdge(w.geom, ws.outputs)
	if edge == EdgeNone {
		return
	}
	ws.edges[edgeKey{output: w.Output(), edge: edge}] = w
}

// panelEdge picks the single screen edge a panel borders. Panels spanning
// an output border two edges of it; the edge sharing more of the panel's
// length wins.
func panelEdge(g geom.Rect, outputs output.Service) Edges {
	var e Edges
	for i := 0; i < outputs.Count(); i++ {
		o := outputs.Geometry(i)
		if o.X == g.X {
			e |= EdgeLeft
		}
		if o.Right() == g.Right() {
			e |= EdgeRight
		}
		if o.Y == g.Y {
			e |= EdgeTop
		}
		if o.Bottom() == g.Bottom() {
			e |= EdgeBottom
		}
	}

	if e&edgesHorizontal == edgesHorizontal {
		e &^= edgesHorizontal
	}
	if e&edgesVertical == edgesVertical {
		e &^= edgesVertical
	}

	check := func(e, horizontal, vertical Edges) Edges {
		if e&horizontal != 0 && e&vertical != 0 {
			if g.Width >= g.Height {
				return e &^ horizontal
			}
			return e &^ vertical
		}
		return e
	}
	e = check(e, EdgeLeft, EdgeTop)
	e = check(e, EdgeLeft, EdgeBottom)
	e = check(e, EdgeRight, EdgeTop)
	e = check(e, EdgeRight, EdgeBottom)

	for _, edge := range []Edges{EdgeBottom, EdgeRight, EdgeTop, EdgeLeft} {
		if e&edge != 0 {
			return edge
		}
	}
	return EdgeNone
}

// EdgeReservation returns the panel reserving edge of output, or nil.
func (ws *Workspace) EdgeReservation(output int, edge Edges) *Window {
	return ws.edges[edgeKey{output: output, edge: edge}]
}

// TriggerScreenEdge shows the panel reserving edge of output. It reports
// whether a panel was reserving it.
func (ws *Workspace) TriggerScreenEdge(output int, edge Edges) bool {
	w := ws.EdgeReservation(output, edge)
	if w == nil {
		return false
	}
	w.ShowOnScreenEdge()
	return true
}

func (ws *Workspace) computeStruts() []geom.Insets {
	struts := make([]geom.Insets, ws.outputs.Count())
	for _, w := range ws.windows {
		s := w.Strut()
		if s.IsZero() {
			continue
		}
		if i := w.Output(); i >= 0 && i < len(struts) {
			struts[i] = struts[i].Max(s)
		}
	}
	return struts
}

// updateStruts refits the other windows when the panels changed the client
// area.
func (ws *Workspace) updateStruts() {
	struts := ws.computeStruts()
	if slices.Equal(struts, ws.struts) {
		return
	}
	ws.struts = struts
	ws.clientAreaChanged()
}
