package xwm

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type Window struct {
	WID    xproto.Window
	Width  uint16
	Height uint16
}

// CreateWindow creates the screen sized window the workspace is drawn on.
func CreateWindow(conn *xgb.Conn) (Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	cursor, err := xcursor.CreateCursor(conn, xcursor.LeftPtr)
	if err != nil {
		return Window{}, err
	}

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return Window{}, err
	}

	if err := xproto.CreateWindowChecked(conn, screen.RootDepth,
		wid, screen.Root,
		0, 0, screen.WidthInPixels, screen.HeightInPixels, 0,
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask|xproto.CwCursor, // 1, 2, 3
		[]uint32{
			screen.BlackPixel,               // 1
			xproto.EventMaskStructureNotify, // 2
			uint32(cursor),                  // 3
		}).Check(); err != nil {
		return Window{}, err
	}

	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		return Window{}, err
	}

	return Window{
		WID:    wid,
		Width:  screen.WidthInPixels,
		Height: screen.HeightInPixels,
	}, nil
}

// CreateSubWindow creates a child of parent covering r.
func CreateSubWindow(conn *xgb.Conn, parent xproto.Window, r geom.Rect, pixel uint32) (Window, error) {
	r = clampRect(r)

	// Generate X window id
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return Window{}, err
	}

	// Create X window in parent
	if err := xproto.CreateWindowChecked(conn, xproto.WindowClassCopyFromParent,
		wid, parent,
		int16(r.X), int16(r.Y), uint16(r.Width), uint16(r.Height), 1,
		xproto.WindowClassInputOutput, xproto.WindowClassCopyFromParent,
		xproto.CwBackPixel, []uint32{pixel}).Check(); err != nil {
		return Window{}, err
	}

	// Show X window
	if err = xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		return Window{}, err
	}

	return Window{
		WID:    wid,
		Width:  uint16(r.Width),
		Height: uint16(r.Height),
	}, nil
}

// configureValues returns the ConfigureWindow mask and values that move
// and resize a window to r.
func configureValues(r geom.Rect) (uint16, []uint32) {
	r = clampRect(r)
	return xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.Width), uint32(r.Height)}
}

// clampRect fits r into the X11 coordinate ranges. Windows are at least one
// pixel wide.
func clampRect(r geom.Rect) geom.Rect {
	r.X = min(max(r.X, -1<<15), 1<<15-1)
	r.Y = min(max(r.Y, -1<<15), 1<<15-1)
	r.Width = min(max(r.Width, 1), 1<<16-1)
	r.Height = min(max(r.Height, 1), 1<<16-1)
	return r
}
