package shell

import (
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-wmshell/internal/decoration"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
	"github.com/google/uuid"
)

// WindowSignals are emitted synchronously on the compositor loop.
type WindowSignals struct {
	// GeometryChanged carries the previous geometry.
	GeometryChanged        signal.Signal[geom.Rect]
	FullScreenChanged      signal.Signal[bool]
	MaximizedStateChanged  signal.Signal[MaximizeMode]
	QuickTileModeChanged   signal.Signal[tile.Mode]
	ActiveChanged          signal.Signal[bool]
	StartUserMovedResized  signal.Signal[struct{}]
	StepUserMovedResized   signal.Signal[geom.Rect]
	FinishUserMovedResized signal.Signal[struct{}]
	Shown                  signal.Signal[struct{}]
	Hidden                 signal.Signal[struct{}]
	Closed                 signal.Signal[Deleted]
}

// Deleted is what remains of a destroyed window.
type Deleted struct {
	ID       uuid.UUID
	AppID    string
	Role     RoleKind
	Geometry geom.Rect
}

type Window struct {
	ID      uuid.UUID
	Signals WindowSignals

	ws    *Workspace
	role  Role
	appID string
	log   *slog.Logger

	deco        decoration.Decoration
	decoCleanup func()
	noBorder    bool
	lastBorders geom.Insets

	geom                geom.Rect
	bufferSize          geom.Size
	requestedClientSize geom.Size
	windowGeometry      geom.Rect
	margins             geom.Insets

	maximizeMode          MaximizeMode
	requestedMaximizeMode MaximizeMode
	fullScreen            bool
	requestedFullScreen   bool
	quickTile             tile.Mode
	requestedQuickTile    tile.Mode
	geometryRestore       geom.Rect
	geomFsRestore         geom.Rect

	queue        requestQueue
	pendingState *configureRequest
	lastSent     uint32
	lastAcked    uint32

	blockRequests  int
	blockedRequest *geom.Rect

	// maximizeRecursion is set while changeMaximize notifies the decoration
	// or toggles the border, both of which call back into the window.
	maximizeRecursion   bool
	changeMaximizeCalls int

	configured bool
	mapped     bool
	placed     bool
	hidden     bool
	active     bool
	destroyed  bool

	panel        PanelBehavior
	transientFor *Window
	// transientOffset places legacy transients, nil for dialogs.
	transientOffset *geom.Point
	popups          []*Window
}

func (w *Window) AppID() string { return w.appID }

func (w *Window) Role() Role { return w.role }

// Geometry is the authoritative frame rectangle, borders included.
func (w *Window) Geometry() geom.Rect { return w.geom }

func (w *Window) BufferSize() geom.Size { return w.bufferSize }

func (w *Window) RequestedClientSize() geom.Size { return w.requestedClientSize }

// ClientSize is the frame without borders.
func (w *Window) ClientSize() geom.Size { return w.geom.Size().Shrink(w.borders()) }

func (w *Window) Margins() geom.Insets { return w.margins }

func (w *Window) MaximizeMode() MaximizeMode { return w.maximizeMode }

func (w *Window) RequestedMaximizeMode() MaximizeMode { return w.requestedMaximizeMode }

func (w *Window) IsFullScreen() bool { return w.fullScreen }

func (w *Window) IsRequestedFullScreen() bool { return w.requestedFullScreen }

func (w *Window) QuickTileMode() tile.Mode { return w.quickTile }

func (w *Window) RequestedQuickTileMode() tile.Mode { return w.requestedQuickTile }

func (w *Window) GeometryRestore() geom.Rect { return w.geometryRestore }

func (w *Window) FullScreenRestore() geom.Rect { return w.geomFsRestore }

// PendingConfigures returns the number of configures waiting for a commit.
func (w *Window) PendingConfigures() int { return w.queue.len() }

func (w *Window) IsMapped() bool { return w.mapped }

func (w *Window) IsHidden() bool { return w.hidden }

func (w *Window) IsActive() bool { return w.active }

func (w *Window) IsDestroyed() bool { return w.destroyed }

func (w *Window) NoBorder() bool { return w.noBorder }

func (w *Window) IsResizable() bool { return w.role.resizable() }

func (w *Window) IsMovable() bool { return w.role.movable() }

func (w *Window) TransientFor() *Window { return w.transientFor }

func (w *Window) PanelBehavior() PanelBehavior { return w.panel }

// Output returns the index of the output the window is on.
func (w *Window) Output() int {
	if !w.geom.IsValid() {
		return w.ws.outputs.Current()
	}
	return w.ws.outputAt(w.geom.Center())
}

// SetAppID changes the application id used to match window rules.
func (w *Window) SetAppID(appID string) {
	w.appID = appID
	w.log = w.log.With("app_id", appID)
}

func (w *Window) rules() Rules {
	if w.ws.rules == nil {
		return noRules{}
	}
	if r := w.ws.rules(w.appID); r != nil {
		return r
	}
	return noRules{}
}

// borders returns the decoration insets currently in effect.
func (w *Window) borders() geom.Insets {
	if w.deco == nil || w.noBorder || w.requestedFullScreen {
		return geom.Insets{}
	}
	return w.deco.Borders()
}

// clientOrigin is the screen position of the window's content.
func (w *Window) clientOrigin() geom.Point {
	b := w.borders()
	return w.geom.Pos().Add(geom.Point{X: b.Left, Y: b.Top})
}

func (w *Window) states() States {
	var s States
	if w.active {
		s |= StateActivated
	}
	if w.requestedFullScreen {
		s |= StateFullscreen
	}
	if w.requestedMaximizeMode == MaximizeFull {
		s |= StateMaximized
	}
	if mr := w.ws.moveResize; mr != nil && mr.window == w && mr.resize {
		s |= StateResizing
	}
	return s
}

// Snapshot is a copy of the window state for reporting.
type Snapshot struct {
	ID                    uuid.UUID   `json:"id"`
	AppID                 string      `json:"app_id"`
	Role                  string      `json:"role"`
	Output                int         `json:"output"`
	Geometry              geom.Rect   `json:"geometry"`
	BufferSize            geom.Size   `json:"buffer_size"`
	RequestedClientSize   geom.Size   `json:"requested_client_size"`
	Margins               geom.Insets `json:"margins"`
	Borders               geom.Insets `json:"borders"`
	MaximizeMode          string      `json:"maximize_mode"`
	RequestedMaximizeMode string      `json:"requested_maximize_mode"`
	FullScreen            bool        `json:"fullscreen"`
	RequestedFullScreen   bool        `json:"requested_fullscreen"`
	QuickTileMode         string      `json:"quick_tile_mode"`
	RequestedQuickTile    string      `json:"requested_quick_tile_mode"`
	GeometryRestore       geom.Rect   `json:"geometry_restore"`
	PendingConfigures     int         `json:"pending_configures"`
	Mapped                bool        `json:"mapped"`
	Hidden                bool        `json:"hidden"`
	Active                bool        `json:"active"`
	NoBorder              bool        `json:"no_border"`
	Panel                 string      `json:"panel,omitempty"`
	TransientFor          *uuid.UUID  `json:"transient_for,omitempty"`
}

func (w *Window) Snapshot() Snapshot {
	s := Snapshot{
		ID:                    w.ID,
		AppID:                 w.appID,
		Role:                  w.role.Kind().String(),
		Output:                w.Output(),
		Geometry:              w.geom,
		BufferSize:            w.bufferSize,
		RequestedClientSize:   w.requestedClientSize,
		Margins:               w.margins,
		Borders:               w.borders(),
		MaximizeMode:          w.maximizeMode.String(),
		RequestedMaximizeMode: w.requestedMaximizeMode.String(),
		FullScreen:            w.fullScreen,
		RequestedFullScreen:   w.requestedFullScreen,
		QuickTileMode:         w.quickTile.String(),
		RequestedQuickTile:    w.requestedQuickTile.String(),
		GeometryRestore:       w.geometryRestore,
		PendingConfigures:     w.queue.len(),
		Mapped:                w.mapped,
		Hidden:                w.hidden,
		Active:                w.active,
		NoBorder:              w.noBorder,
	}
	if w.panel != PanelNone {
		s.Panel = w.panel.String()
	}
	if w.transientFor != nil {
		id := w.transientFor.ID
		s.TransientFor = &id
	}
	return s
}

// Destroy turns the window into a Deleted placeholder. Pending configures
// are dropped and an interactive move/resize owned by the window ends
// without touching the geometry.
func (w *Window) Destroy() {
	if w.destroyed {
		return
	}

	w.destroyed = true
	w.finishMoveResize(false)
	w.queue.clear()
	w.pendingState = nil
	w.blockedRequest = nil

	for _, p := range slices.Clone(w.popups) {
		if p.role.Kind() == RolePopup {
			p.Destroy()
		}
	}
	if w.transientFor != nil {
		w.transientFor.removePopup(w)
	}

	if w.decoCleanup != nil {
		w.decoCleanup()
	}
	if w.deco != nil {
		w.deco.Destroy()
	}

	w.ws.removeWindow(w)

	w.log.Debug("Window destroyed", "geometry", w.geom.String())
	w.Signals.Closed.Emit(Deleted{
		ID:       w.ID,
		AppID:    w.appID,
		Role:     w.role.Kind(),
		Geometry: w.geom,
	})
}

func (w *Window) removePopup(p *Window) {
	for i := range w.popups {
		if w.popups[i] == p {
			w.popups = append(w.popups[:i], w.popups[i+1:]...)
			return
		}
	}
}

// Hide hides the window without unmapping it.
func (w *Window) Hide() {
	if w.hidden || w.destroyed {
		return
	}
	w.hidden = true
	w.ws.updateShowOnScreenEdge(w)
	w.Signals.Hidden.Emit(struct{}{})
}

func (w *Window) Show() {
	if !w.hidden || w.destroyed {
		return
	}
	w.hidden = false
	w.ws.updateShowOnScreenEdge(w)
	w.Signals.Shown.Emit(struct{}{})
}

type noRules struct{}

func (noRules) CheckMaximize(h, v, init bool) (bool, bool)       { return h, v }
func (noRules) CheckFullScreen(fs, init bool) bool               { return fs }
func (noRules) CheckNoBorder(nb, init bool) bool                 { return nb }
func (noRules) CheckPosition(p geom.Point, init bool) geom.Point { return p }
func (noRules) CheckSize(s geom.Size, init bool) geom.Size       { return s }
