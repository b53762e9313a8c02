// Package compositor runs the workspace on a single goroutine. Transport
// events, trace replay and the API reach the workspace only through the
// loop.
package compositor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-wmshell/internal/bus"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/rules"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
	"github.com/ItsNotGoodName/x-wmshell/internal/transport"
	"github.com/ItsNotGoodName/x-wmshell/internal/xcursor"
)

var (
	ErrLoopClosed     = errors.New("compositor loop closed")
	ErrUnknownSurface = errors.New("unknown surface")
	ErrSurfaceExists  = errors.New("surface already exists")
)

// maxChained bounds the client answers handled after a single event.
const maxChained = 10000

// Cursor shows a cursor glyph, see package xcursor.
type Cursor interface {
	SetCursor(glyph uint16) error
}

type command struct {
	events []transport.Event
	fn     func(ws *shell.Workspace) error
	errC   chan error
}

type surface struct {
	id     string
	window *shell.Window
	client interface{ LastSerial() uint32 }
}

type Loop struct {
	ws     *shell.Workspace
	cursor Cursor

	commandC  chan command
	doneC     chan struct{}
	closeOnce sync.Once

	// Owned by the loop goroutine.
	surfaces map[string]*surface
	windows  map[*shell.Window]*surface
	pending  []transport.Event
}

// New creates a loop for ws. cursor may be nil.
func New(ws *shell.Workspace, cursor Cursor) *Loop {
	l := &Loop{
		ws:       ws,
		cursor:   cursor,
		commandC: make(chan command),
		doneC:    make(chan struct{}),
		surfaces: make(map[string]*surface),
		windows:  make(map[*shell.Window]*surface),
	}
	ws.Signals.WindowAdded.Connect(l.watch)
	ws.Signals.WindowRemoved.Connect(func(d shell.Deleted) {
		publish(WindowRemoved{ID: d.ID, AppID: d.AppID, Geometry: d.Geometry})
	})
	ws.Signals.ClientAreaChanged.Connect(func(struct{}) {
		publish(ClientAreaChanged{})
	})
	return l
}

// RulesFor looks up window rules in book.
func RulesFor(book *rules.Book) shell.RulesFunc {
	if book == nil {
		return nil
	}
	return func(appID string) shell.Rules {
		return book.Find(appID)
	}
}

func (l *Loop) String() string {
	return "compositor.Loop"
}

func (l *Loop) Serve(ctx context.Context) error {
	defer func() {
		if ctx.Err() != nil {
			l.closeOnce.Do(func() { close(l.doneC) })
		}
	}()

	slog.Debug("Compositor loop started", "package", "compositor")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.commandC:
			l.run(cmd)
		}
	}
}

// Send queues events for the loop. It returns once the loop took them.
func (l *Loop) Send(ctx context.Context, events ...transport.Event) error {
	if len(events) == 0 {
		return nil
	}
	return l.send(ctx, command{events: events})
}

// Do runs fn on the loop and returns its error.
func (l *Loop) Do(ctx context.Context, fn func(ws *shell.Workspace) error) error {
	errC := make(chan error, 1)
	if err := l.send(ctx, command{fn: fn, errC: errC}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.doneC:
		return ErrLoopClosed
	case err := <-errC:
		return err
	}
}

func (l *Loop) send(ctx context.Context, cmd command) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.doneC:
		return ErrLoopClosed
	case l.commandC <- cmd:
		return nil
	}
}

func (l *Loop) run(cmd command) {
	if cmd.fn != nil {
		err := cmd.fn(l.ws)
		l.drain()
		cmd.errC <- err
		return
	}

	for _, ev := range cmd.events {
		l.dispatch(ev)
		l.drain()
	}
}

// post queues an event raised while handling another one. Simulated
// clients answer configures through it.
func (l *Loop) post(ev transport.Event) {
	l.pending = append(l.pending, ev)
}

func (l *Loop) drain() {
	for i := 0; len(l.pending) > 0; i++ {
		if i == maxChained {
			slog.Warn("Dropping chained events", "package", "compositor", "count", len(l.pending))
			l.pending = nil
			return
		}
		ev := l.pending[0]
		l.pending = l.pending[1:]
		l.dispatch(ev)
	}
}

func (l *Loop) dispatch(ev transport.Event) {
	if err := l.handle(ev); err != nil {
		slog.Warn("Failed to handle event", "package", "compositor", "event", fmt.Sprintf("%T", ev), "error", err)
	}
}

func (l *Loop) lookup(id string) (*surface, error) {
	s, ok := l.surfaces[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	return s, nil
}

func (l *Loop) add(id string, client interface{ LastSerial() uint32 }, create func() *shell.Window) error {
	if _, ok := l.surfaces[id]; ok {
		return fmt.Errorf("%w: %q", ErrSurfaceExists, id)
	}
	s := &surface{id: id, client: client}
	l.surfaces[id] = s
	s.window = create()
	l.windows[s.window] = s
	return nil
}

func (l *Loop) handle(ev transport.Event) error {
	switch ev := ev.(type) {
	case transport.ToplevelCreated:
		c := transport.NewToplevel(ev.Surface, ev.Client, l.post)
		if err := l.add(ev.Surface, c, func() *shell.Window { return l.ws.NewToplevel(c, ev.AppID) }); err != nil {
			return err
		}
		c.Start()
		return nil
	case transport.LegacyCreated:
		c := transport.NewLegacy(ev.Surface, ev.Client, l.post)
		if err := l.add(ev.Surface, c, func() *shell.Window { return l.ws.NewLegacy(c, ev.AppID) }); err != nil {
			return err
		}
		c.Start()
		return nil
	case transport.PopupCreated:
		parent, err := l.lookup(ev.Parent)
		if err != nil {
			return err
		}
		c := transport.NewPopup(ev.Surface, ev.Client, l.post)
		if err := l.add(ev.Surface, c, func() *shell.Window { return l.ws.NewPopup(c, parent.window, ev.Positioner) }); err != nil {
			return err
		}
		c.Start()
		return nil
	case transport.PointerMoved:
		l.ws.PointerMoved(ev.Position)
		return nil
	case transport.PointerReleased:
		l.ws.PointerReleased()
		return nil
	case transport.ScreenEdgeTriggered:
		if !l.ws.TriggerScreenEdge(ev.Output, ev.Edge) {
			slog.Debug("No panel on screen edge", "package", "compositor", "output", ev.Output, "edge", ev.Edge.String())
		}
		return nil
	}

	return l.handleSurface(ev)
}

func (l *Loop) handleSurface(ev transport.Event) error {
	var id string
	switch ev := ev.(type) {
	case transport.SurfaceDestroyed:
		id = ev.Surface
	case transport.AppIDSet:
		id = ev.Surface
	case transport.TransientSet:
		id = ev.Surface
	case transport.PanelBehaviorSet:
		id = ev.Surface
	case transport.PanelHidden:
		id = ev.Surface
	case transport.ConfigureAcked:
		id = ev.Surface
	case transport.Committed:
		id = ev.Surface
	case transport.MaximizeRequested:
		id = ev.Surface
	case transport.FullScreenRequested:
		id = ev.Surface
	case transport.MoveRequested:
		id = ev.Surface
	case transport.ResizeRequested:
		id = ev.Surface
	case transport.TileRequested:
		id = ev.Surface
	case transport.OutputRequested:
		id = ev.Surface
	default:
		return fmt.Errorf("unknown event %T", ev)
	}

	s, err := l.lookup(id)
	if err != nil {
		return err
	}
	w := s.window

	switch ev := ev.(type) {
	case transport.SurfaceDestroyed:
		w.Destroy()
		delete(l.surfaces, id)
		delete(l.windows, w)
	case transport.AppIDSet:
		w.SetAppID(ev.AppID)
	case transport.TransientSet:
		var parent *shell.Window
		if ev.Parent != "" {
			p, err := l.lookup(ev.Parent)
			if err != nil {
				return err
			}
			parent = p.window
		}
		w.SetTransientFor(parent, ev.Offset)
	case transport.PanelBehaviorSet:
		w.SetPanelBehavior(ev.Behavior)
	case transport.PanelHidden:
		w.Hide()
	case transport.ConfigureAcked:
		serial := ev.Serial
		if serial == 0 {
			serial = s.client.LastSerial()
		}
		w.HandleConfigureAcknowledged(serial)
	case transport.Committed:
		w.HandleCommit(shell.Commit{BufferSize: ev.BufferSize, WindowGeometry: ev.WindowGeometry})
	case transport.MaximizeRequested:
		w.Maximize(ev.Mode)
	case transport.FullScreenRequested:
		w.SetFullScreen(ev.Set, true)
	case transport.MoveRequested:
		return w.StartMove()
	case transport.ResizeRequested:
		return w.StartResize(ev.Edges)
	case transport.TileRequested:
		w.SetQuickTileMode(ev.Mode, true)
	case transport.OutputRequested:
		w.SendToOutput(ev.Output)
	}
	return nil
}

// Surface returns the window of surface id. It must be called on the loop.
func (l *Loop) Surface(id string) (*shell.Window, bool) {
	s, ok := l.surfaces[id]
	if !ok {
		return nil, false
	}
	return s.window, true
}

// SurfaceID returns the surface id of w. It must be called on the loop.
func (l *Loop) SurfaceID(w *shell.Window) string {
	if s, ok := l.windows[w]; ok {
		return s.id
	}
	return ""
}

// watch publishes the signals of a new window and activates it once shown.
func (l *Loop) watch(w *shell.Window) {
	publish(WindowAdded{ID: w.ID, AppID: w.AppID(), Role: w.Role().Kind().String()})

	w.Signals.Shown.Connect(func(struct{}) {
		if w.Role().Kind() != shell.RolePopup && w.PanelBehavior() == shell.PanelNone {
			l.ws.Activate(w)
		}
		publish(WindowMapped{Window: w.Snapshot()})
	})
	w.Signals.GeometryChanged.Connect(func(old geom.Rect) {
		publish(GeometryChanged{ID: w.ID, Old: old, New: w.Geometry()})
	})
	w.Signals.MaximizedStateChanged.Connect(func(mode shell.MaximizeMode) {
		publish(MaximizeChanged{ID: w.ID, Mode: mode.String()})
	})
	w.Signals.FullScreenChanged.Connect(func(fullScreen bool) {
		publish(FullScreenChanged{ID: w.ID, FullScreen: fullScreen})
	})
	w.Signals.QuickTileModeChanged.Connect(func(mode tile.Mode) {
		publish(QuickTileChanged{ID: w.ID, Mode: mode.String()})
	})
	w.Signals.ActiveChanged.Connect(func(active bool) {
		publish(ActiveChanged{ID: w.ID, Active: active})
	})
	w.Signals.StartUserMovedResized.Connect(func(struct{}) {
		edges, _ := w.MoveResizeEdges()
		l.setCursor(xcursor.ForEdges(edges))
		publish(MoveResize{ID: w.ID, Phase: "start", Geometry: w.Geometry()})
	})
	w.Signals.StepUserMovedResized.Connect(func(r geom.Rect) {
		publish(MoveResize{ID: w.ID, Phase: "step", Geometry: r})
	})
	w.Signals.FinishUserMovedResized.Connect(func(struct{}) {
		l.setCursor(xcursor.LeftPtr)
		publish(MoveResize{ID: w.ID, Phase: "finish", Geometry: w.Geometry()})
	})
}

func (l *Loop) setCursor(glyph uint16) {
	if l.cursor == nil {
		return
	}
	if err := l.cursor.SetCursor(glyph); err != nil {
		slog.Error("Failed to set cursor", "package", "compositor", "error", err)
	}
}

func publish(ev Event) {
	bus.Publish(ev)
}
