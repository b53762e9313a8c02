package shell

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

// moveResize is the interactive move or resize in progress. A workspace has
// at most one.
type moveResize struct {
	window    *Window
	resize    bool
	edges     Edges
	pointer   geom.Point
	startGeom geom.Rect
}

// StartMove starts an interactive move following the pointer. Maximized and
// tiled windows are restored first, keeping the pointer over the same part
// of the frame.
func (w *Window) StartMove() error {
	return w.startMoveResize(false, EdgeNone)
}

// StartResize starts an interactive resize dragging edges.
func (w *Window) StartResize(edges Edges) error {
	return w.startMoveResize(true, edges)
}

func (w *Window) startMoveResize(resize bool, edges Edges) error {
	if w.destroyed || !w.mapped {
		return nil
	}
	if resize && (!w.role.resizable() || edges == EdgeNone) || !resize && !w.role.movable() {
		return nil
	}
	if w.ws.moveResize != nil {
		return ErrMoveResizeActive
	}

	pointer := w.ws.pointer
	start := w.pendingFrame()
	if !resize && (w.requestedMaximizeMode != MaximizeRestore || w.requestedQuickTile != tile.None) && w.geometryRestore.IsValid() {
		restore := w.geometryRestore
		if w.geom.Width > 0 {
			restore.X = pointer.X - (pointer.X-w.geom.X)*restore.Width/w.geom.Width
		}
		restore.Y = w.geom.Y
		w.geometryRestore = restore

		unblock := w.BlockGeometryRequests()
		if w.requestedMaximizeMode != MaximizeRestore {
			w.Maximize(MaximizeRestore)
		}
		if w.requestedQuickTile != tile.None {
			w.SetQuickTileMode(tile.None, true)
		}
		unblock()
		start = w.pendingFrame()
	}

	w.ws.moveResize = &moveResize{
		window:    w,
		resize:    resize,
		edges:     edges,
		pointer:   pointer,
		startGeom: start,
	}
	if resize {
		w.sendStateConfigure()
	}

	w.log.Debug("Started interactive move/resize", "resize", resize, "edges", edges.String())
	w.Signals.StartUserMovedResized.Emit(struct{}{})
	return nil
}

// MoveResizeEdges returns the edges of the interactive resize owned by the
// window. ok is false when the window is not moving or resizing.
func (w *Window) MoveResizeEdges() (edges Edges, ok bool) {
	mr := w.ws.moveResize
	if mr == nil || mr.window != w {
		return EdgeNone, false
	}
	return mr.edges, true
}

// FinishMoveResize ends the interactive move/resize owned by the window.
func (w *Window) FinishMoveResize() {
	w.finishMoveResize(false)
}

// CancelMoveResize ends the interactive move/resize and returns the window
// to where it started.
func (w *Window) CancelMoveResize() {
	w.finishMoveResize(true)
}

func (w *Window) finishMoveResize(cancel bool) {
	mr := w.ws.moveResize
	if mr == nil || mr.window != w {
		return
	}
	w.ws.moveResize = nil

	if !w.destroyed {
		if cancel {
			w.SetFrameGeometry(mr.startGeom)
		}
		if mr.resize {
			w.sendStateConfigure()
		}
	}

	w.log.Debug("Finished interactive move/resize", "cancel", cancel)
	w.Signals.FinishUserMovedResized.Emit(struct{}{})
}

// step follows the pointer.
func (mr *moveResize) step(p geom.Point) {
	w := mr.window
	d := p.Sub(mr.pointer)

	var r geom.Rect
	if mr.resize {
		minSize := geom.Size{Width: 1, Height: 1}.Grow(w.borders())
		r = resizeRect(mr.startGeom, mr.edges, d, minSize)
		w.SetFrameGeometry(r)
	} else {
		r = mr.startGeom.Translate(d)
		w.Move(r.Pos())
	}

	w.Signals.StepUserMovedResized.Emit(r)
}

// resizeRect drags edges of r by d without going below minSize.
func resizeRect(r geom.Rect, edges Edges, d geom.Point, minSize geom.Size) geom.Rect {
	left, top, right, bottom := r.X, r.Y, r.Right(), r.Bottom()
	if edges&EdgeLeft != 0 {
		left = min(left+d.X, right-minSize.Width)
	}
	if edges&EdgeRight != 0 {
		right = max(right+d.X, left+minSize.Width)
	}
	if edges&EdgeTop != 0 {
		top = min(top+d.Y, bottom-minSize.Height)
	}
	if edges&EdgeBottom != 0 {
		bottom = max(bottom+d.Y, top+minSize.Height)
	}
	return geom.Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// MoveResizeWindow returns the window owning the interactive move/resize,
// or nil.
func (ws *Workspace) MoveResizeWindow() *Window {
	if ws.moveResize == nil {
		return nil
	}
	return ws.moveResize.window
}

// PointerMoved records the pointer position and steps the interactive
// move/resize.
func (ws *Workspace) PointerMoved(p geom.Point) {
	ws.pointer = p
	if ws.moveResize != nil {
		ws.moveResize.step(p)
	}
}

// PointerReleased finishes the interactive move/resize.
func (ws *Workspace) PointerReleased() {
	if ws.moveResize != nil {
		ws.moveResize.window.FinishMoveResize()
	}
}

func (ws *Workspace) Pointer() geom.Point {
	return ws.pointer
}
