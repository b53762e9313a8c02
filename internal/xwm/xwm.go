// Package xwm mirrors the workspace on an X server. Every mapped shell
// window gets a child window that follows its frame geometry.
package xwm

import (
	"context"
	"log/slog"

	"github.com/ItsNotGoodName/x-wmshell/internal/compositor"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
	"github.com/google/uuid"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	activePixel   = 0x3465a4
	inactivePixel = 0x888a85
)

// Mirror draws the workspace. Handle must be subscribed on the bus.
type Mirror struct {
	conn    *xgb.Conn
	window  Window
	windows map[uuid.UUID]xproto.Window
	active  *signal.Value[uuid.UUID]
}

func NewMirror(conn *xgb.Conn) (*Mirror, error) {
	window, err := CreateWindow(conn)
	if err != nil {
		return nil, err
	}

	m := &Mirror{
		conn:    conn,
		window:  window,
		windows: make(map[uuid.UUID]xproto.Window),
		active:  signal.NewValue(uuid.Nil),
	}
	m.active.AddEffect(func(old uuid.UUID) {
		m.paint(old)
		m.paint(m.active.V)
	})

	return m, nil
}

// WID returns the window the workspace is drawn on.
func (m *Mirror) WID() xproto.Window {
	return m.window.WID
}

func (m *Mirror) Handle(ctx context.Context, event compositor.Event) error {
	switch ev := event.(type) {
	case compositor.WindowMapped:
		if _, ok := m.windows[ev.Window.ID]; ok || ev.Window.Hidden {
			return nil
		}
		w, err := CreateSubWindow(m.conn, m.window.WID, ev.Window.Geometry, pixel(ev.Window.ID == m.active.V))
		if err != nil {
			return err
		}
		m.windows[ev.Window.ID] = w.WID
	case compositor.GeometryChanged:
		return m.configure(ev.ID, ev.New)
	case compositor.MoveResize:
		if ev.Phase == "step" {
			return m.configure(ev.ID, ev.Geometry)
		}
	case compositor.ActiveChanged:
		if ev.Active {
			m.active.Set(ev.ID)
		} else if ev.ID == m.active.V {
			m.active.Set(uuid.Nil)
		}
	case compositor.WindowRemoved:
		wid, ok := m.windows[ev.ID]
		if !ok {
			return nil
		}
		delete(m.windows, ev.ID)
		xproto.DestroyWindow(m.conn, wid)
		if ev.ID == m.active.V {
			m.active.Set(uuid.Nil)
		}
		slog.Debug("Destroyed mirror window", "package", "xwm", "id", ev.ID)
	}
	return nil
}

func (m *Mirror) configure(id uuid.UUID, r geom.Rect) error {
	wid, ok := m.windows[id]
	if !ok || !r.IsValid() {
		return nil
	}
	mask, values := configureValues(r)
	xproto.ConfigureWindow(m.conn, wid, mask, values)
	return nil
}

// paint redraws window id with the color of its activation state.
func (m *Mirror) paint(id uuid.UUID) {
	wid, ok := m.windows[id]
	if !ok {
		return
	}
	xproto.ChangeWindowAttributes(m.conn, wid, xproto.CwBackPixel, []uint32{pixel(id == m.active.V)})
	xproto.ClearArea(m.conn, false, wid, 0, 0, 0, 0)
}

func pixel(active bool) uint32 {
	if active {
		return activePixel
	}
	return inactivePixel
}
