package shell

import (
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-wmshell/internal/decoration"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
	"github.com/google/uuid"
)

// Area selects which part of an output ClientArea returns.
type Area uint8

const (
	// AreaPlacement is the output minus the struts of panels.
	AreaPlacement Area = iota
	// AreaMaximize is where maximized windows go, same as AreaPlacement.
	AreaMaximize
	// AreaFullScreen is the whole output.
	AreaFullScreen
	AreaScreen
)

type Options struct {
	// BorderlessMaximizedWindows drops the decoration of fully maximized
	// windows.
	BorderlessMaximizedWindows bool `json:"borderless_maximized_windows" yaml:"borderless_maximized_windows"`
	// ElectricBorderMaximize marks fully maximized windows with the
	// maximize quick-tile flag.
	ElectricBorderMaximize bool            `json:"electric_border_maximize" yaml:"electric_border_maximize"`
	Placement              PlacementPolicy `json:"placement" yaml:"placement"`
}

// Rules are the window rules of one window. Each check returns the value to
// use instead of the requested one; init is set while the window is first
// placed.
type Rules interface {
	CheckMaximize(horizontal, vertical, init bool) (bool, bool)
	CheckFullScreen(fullScreen, init bool) bool
	CheckNoBorder(noBorder, init bool) bool
	CheckPosition(pos geom.Point, init bool) geom.Point
	CheckSize(size geom.Size, init bool) geom.Size
}

// RulesFunc looks up the rules of an application id.
type RulesFunc func(appID string) Rules

type WorkspaceSignals struct {
	WindowAdded       signal.Signal[*Window]
	WindowRemoved     signal.Signal[Deleted]
	ClientAreaChanged signal.Signal[struct{}]
}

// Workspace owns the windows and the state shared between them: the
// interactive move/resize, screen edge reservations and struts.
type Workspace struct {
	Signals WorkspaceSignals

	outputs     output.Service
	decorations decoration.Bridge
	rules       RulesFunc
	options     Options

	windows    []*Window
	active     *Window
	moveResize *moveResize
	pointer    geom.Point
	struts     []geom.Insets
	edges      map[edgeKey]*Window
	cascade    map[int]geom.Point
}

// NewWorkspace creates a workspace on outputs. decorations and rules may be
// nil for undecorated windows without rules.
func NewWorkspace(outputs output.Service, decorations decoration.Bridge, rules RulesFunc, options Options) *Workspace {
	if !options.Placement.IsValid() {
		options.Placement = PlacementCentered
	}
	ws := &Workspace{
		outputs:     outputs,
		decorations: decorations,
		rules:       rules,
		options:     options,
		edges:       make(map[edgeKey]*Window),
		cascade:     make(map[int]geom.Point),
	}
	ws.struts = ws.computeStruts()
	outputs.Changed().Connect(func(struct{}) { ws.outputsChanged() })
	return ws
}

func (ws *Workspace) Options() Options {
	return ws.options
}

func (ws *Workspace) Outputs() output.Service {
	return ws.outputs
}

// NewToplevel creates a decorated xdg toplevel window.
func (ws *Workspace) NewToplevel(surface ToplevelSurface, appID string) *Window {
	return ws.newWindow(&XdgToplevel{s: surface}, appID, true)
}

// NewLegacy creates a decorated wl_shell window.
func (ws *Workspace) NewLegacy(surface LegacySurface, appID string) *Window {
	return ws.newWindow(&LegacyShell{s: surface}, appID, true)
}

// NewPopup creates a popup of parent placed by positioner.
func (ws *Workspace) NewPopup(surface PopupSurface, parent *Window, positioner Positioner) *Window {
	appID := ""
	if parent != nil {
		appID = parent.appID
	}
	w := ws.newWindow(&XdgPopup{s: surface, positioner: positioner}, appID, false)
	if parent != nil {
		w.transientFor = parent
		parent.popups = append(parent.popups, w)
	}
	return w
}

func (ws *Workspace) newWindow(role Role, appID string, decorated bool) *Window {
	w := &Window{
		ID:    uuid.New(),
		ws:    ws,
		role:  role,
		appID: appID,
	}
	w.log = slog.With("package", "shell", "window", w.ID.String(), "role", role.Kind().String(), "app_id", appID)

	if decorated && ws.decorations != nil {
		w.deco = ws.decorations.CreateDecoration(w)
		w.decoCleanup = w.deco.BordersChanged().Connect(func(struct{}) { w.handleBordersChanged() })
		w.lastBorders = w.borders()
	}

	ws.windows = append(ws.windows, w)
	w.log.Debug("Window created")
	ws.Signals.WindowAdded.Emit(w)
	return w
}

// Windows returns the live windows in creation order.
func (ws *Workspace) Windows() []*Window {
	return slices.Clone(ws.windows)
}

func (ws *Workspace) Window(id uuid.UUID) *Window {
	for _, w := range ws.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (ws *Workspace) ActiveWindow() *Window {
	return ws.active
}

// Activate makes w the active window, nil deactivates all.
func (ws *Workspace) Activate(w *Window) {
	if ws.active == w || w != nil && w.destroyed {
		return
	}
	if ws.active != nil {
		ws.active.SetActive(false)
	}
	ws.active = w
	if w != nil {
		w.SetActive(true)
	}
}

// ClientArea returns area of output index.
func (ws *Workspace) ClientArea(area Area, index int) geom.Rect {
	g := ws.outputs.Geometry(index)
	switch area {
	case AreaPlacement, AreaMaximize:
		if index >= 0 && index < len(ws.struts) {
			return g.Shrink(ws.struts[index])
		}
	}
	return g
}

func (ws *Workspace) outputAt(p geom.Point) int {
	return output.IndexAt(ws.outputs, p)
}

// neighbourOutput returns the closest output beside cur in the horizontal
// direction of mode, or cur.
func (ws *Workspace) neighbourOutput(cur int, mode tile.Mode) int {
	side := mode & tile.Horizontal
	if side != tile.Left && side != tile.Right {
		return cur
	}

	c := ws.outputs.Geometry(cur)
	next := cur
	for i := 0; i < ws.outputs.Count(); i++ {
		if i == cur {
			continue
		}
		g := ws.outputs.Geometry(i)
		if g.Bottom() <= c.Y || g.Y >= c.Bottom() {
			continue
		}
		x := g.Center().X
		if side == tile.Left {
			if x >= c.Center().X || next != cur && x <= ws.outputs.Geometry(next).Center().X {
				continue
			}
		} else {
			if x <= c.Center().X || next != cur && x >= ws.outputs.Geometry(next).Center().X {
				continue
			}
		}
		next = i
	}
	return next
}

// moveToOutput keeps r at the same position relative to the center of the
// maximize area, scaled to the new output. A rect inside the old area stays
// inside the new one.
func (ws *Workspace) moveToOutput(r geom.Rect, from, to int) geom.Rect {
	oldArea := ws.ClientArea(AreaMaximize, from)
	newArea := ws.ClientArea(AreaMaximize, to)
	if !oldArea.IsValid() || !newArea.IsValid() {
		return r
	}

	c := r.Center().Sub(oldArea.Center())
	c.X = c.X * newArea.Width / oldArea.Width
	c.Y = c.Y * newArea.Height / oldArea.Height
	c = c.Add(newArea.Center())

	moved := r.MoveTo(geom.Point{X: c.X - r.Width/2, Y: c.Y - r.Height/2})
	if oldArea.Contains(r) {
		moved = keepInArea(moved, newArea)
	}
	return moved
}

func (ws *Workspace) windowMapped(w *Window) {
	ws.updateShowOnScreenEdge(w)
	if w.panel != PanelNone {
		ws.updateStruts()
	}
	ws.placeMapped(w)
}

func (ws *Workspace) geometryChanged(w *Window) {
	if w.panel == PanelNone {
		return
	}
	ws.updateShowOnScreenEdge(w)
	ws.updateStruts()
}

func (ws *Workspace) removeWindow(w *Window) {
	i := slices.Index(ws.windows, w)
	if i < 0 {
		return
	}
	ws.windows = slices.Delete(ws.windows, i, i+1)
	if ws.active == w {
		ws.active = nil
	}
	ws.updateShowOnScreenEdge(w)
	if w.panel != PanelNone {
		ws.updateStruts()
	}
	for _, o := range ws.windows {
		if o.transientFor == w {
			o.transientFor = nil
			o.transientOffset = nil
		}
	}
	ws.Signals.WindowRemoved.Emit(Deleted{ID: w.ID, AppID: w.appID, Role: w.role.Kind(), Geometry: w.geom})
}

func (ws *Workspace) outputsChanged() {
	ws.struts = ws.computeStruts()
	for _, w := range ws.windows {
		if w.panel != PanelNone {
			ws.updateShowOnScreenEdge(w)
		}
	}
	ws.clientAreaChanged()
}

func (ws *Workspace) clientAreaChanged() {
	for _, w := range ws.Windows() {
		w.CheckWorkspacePosition()
	}
	ws.Signals.ClientAreaChanged.Emit(struct{}{})
}
