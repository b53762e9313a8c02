package shell

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

// Commit is the surface state a client committed.
type Commit struct {
	BufferSize geom.Size
	// WindowGeometry is the content rectangle declared by the client within
	// its buffer, nil when it did not change.
	WindowGeometry *geom.Rect
}

// HandleConfigureAcknowledged records an acknowledged serial. Nothing
// changes until the next commit. Serials that were never sent count as the
// last sent one and stale serials never lower the cutoff.
func (w *Window) HandleConfigureAcknowledged(serial uint32) {
	if w.destroyed || !w.role.acknowledges() {
		w.log.Debug("Ignoring configure acknowledgement", "serial", serial)
		return
	}
	if serial > w.lastSent {
		w.log.Debug("Client acknowledged unknown serial", "serial", serial, "last_sent", w.lastSent)
		serial = w.lastSent
	}
	w.lastAcked = max(w.lastAcked, serial)
}

// HandleCommit applies a client commit. Everything acknowledged so far
// resolves as one unit: the geometry is set once from the last
// acknowledged request, then the maximize, fullscreen and tile states follow.
// Commits without an acknowledged request resize the window in place.
func (w *Window) HandleCommit(c Commit) {
	if w.destroyed {
		w.log.Debug("Ignoring commit of destroyed window")
		return
	}

	if c.WindowGeometry != nil {
		w.windowGeometry = *c.WindowGeometry
	}
	w.bufferSize = c.BufferSize
	w.margins = windowMargins(w.windowGeometry, w.bufferSize)

	if !w.configured && w.role.acknowledges() {
		w.sendInitialConfigure()
	}
	if w.bufferSize.IsEmpty() {
		return
	}

	if !w.mapped && !w.role.acknowledges() {
		w.applyInitialRules()
	}

	var (
		req, state           configureRequest
		resolved, stateValid bool
	)
	if w.role.acknowledges() {
		req, resolved = w.queue.resolve(w.lastAcked)
		state, stateValid = req, resolved
		if st := w.pendingState; st != nil && st.serial <= w.lastAcked {
			w.pendingState = nil
			if !resolved || st.serial > req.serial {
				state, stateValid = *st, true
			}
		}
	}

	size := w.bufferSize.Shrink(w.margins).Grow(w.borders())
	switch {
	case !w.mapped:
		w.doSetGeometry(w.initialGeometry(req, resolved, state, size))
	case resolved:
		w.doSetGeometry(geom.NewRect(req.frame.Pos(), size))
	default:
		w.doSetGeometry(w.anchoredGeometry(size))
	}

	if stateValid {
		w.updateMaximizeMode(state.maximizeMode)
		w.updateFullScreen(state.fullScreen)
		w.updateQuickTile(state.quickTile)
	}

	if !w.mapped {
		w.setMapped()
	}
}

// windowMargins returns the insets between the buffer and the declared
// window geometry. Declarations that don't fit the buffer mean no margins.
func windowMargins(wg geom.Rect, buffer geom.Size) geom.Insets {
	if !wg.IsValid() || !buffer.IsValid() {
		return geom.Insets{}
	}
	if wg.X < 0 || wg.Y < 0 || wg.Right() > buffer.Width || wg.Bottom() > buffer.Height {
		return geom.Insets{}
	}
	return geom.Insets{
		Left:   wg.X,
		Top:    wg.Y,
		Right:  buffer.Width - wg.Right(),
		Bottom: buffer.Height - wg.Bottom(),
	}
}

// anchoredGeometry keeps the edge opposite to the one being dragged in
// place during an interactive resize.
func (w *Window) anchoredGeometry(size geom.Size) geom.Rect {
	r := geom.NewRect(w.geom.Pos(), size)
	if mr := w.ws.moveResize; mr != nil && mr.window == w && mr.resize {
		if mr.edges&EdgeLeft != 0 {
			r.X = w.geom.Right() - size.Width
		}
		if mr.edges&EdgeTop != 0 {
			r.Y = w.geom.Bottom() - size.Height
		}
	}
	return r
}

// initialGeometry places a window on its first buffer.
func (w *Window) initialGeometry(req configureRequest, resolved bool, state configureRequest, size geom.Size) geom.Rect {
	switch {
	case w.role.Kind() == RolePopup:
		if resolved {
			return geom.NewRect(req.frame.Pos(), size)
		}
		return geom.NewRect(w.popupGeometry().Pos(), size)
	case resolved && (state.maximizeMode != MaximizeRestore || state.fullScreen || state.quickTile != tile.None):
		return geom.NewRect(req.frame.Pos(), size)
	case w.placed:
		return geom.NewRect(w.geom.Pos(), size)
	default:
		return w.ws.place(w, size)
	}
}

// sendInitialConfigure answers the first commit of a surface with
// serials. Rules that apply on creation are folded into a single configure;
// without them the client picks its own size.
func (w *Window) sendInitialConfigure() {
	if w.role.Kind() == RolePopup {
		w.requestGeometry(w.popupGeometry())
		return
	}

	unblock := w.BlockGeometryRequests()
	w.applyInitialRules()
	if w.blockedRequest == nil {
		w.blockedRequest = &geom.Rect{}
	}
	unblock()
}

func (w *Window) applyInitialRules() {
	r := w.rules()
	if nb := r.CheckNoBorder(w.noBorder, true); nb != w.noBorder {
		w.setNoBorder(nb)
	}
	if size := r.CheckSize(geom.Size{}, true); size.IsValid() {
		w.requestGeometry(geom.NewRect(w.geom.Pos(), size))
	}
	if h, v := r.CheckMaximize(false, false, true); h || v {
		w.changeMaximize(maximizeModeOf(h, v), false)
	}
	if r.CheckFullScreen(false, true) {
		w.SetFullScreen(true, false)
	}
}

func (w *Window) popupGeometry() geom.Rect {
	popup, ok := w.role.(*XdgPopup)
	if !ok {
		return w.geom
	}
	parent := w.transientFor
	if parent == nil {
		return popup.positioner.Place(geom.Point{}, w.ws.ClientArea(AreaPlacement, w.ws.outputs.Current()))
	}
	return popup.positioner.Place(parent.clientOrigin(), w.ws.ClientArea(AreaPlacement, parent.Output()))
}

func (w *Window) setMapped() {
	w.mapped = true
	if (w.requestedMaximizeMode != MaximizeRestore || w.requestedFullScreen || w.requestedQuickTile != tile.None) && !w.geometryRestore.IsValid() {
		w.geometryRestore = w.ws.ClientArea(AreaPlacement, w.Output())
	}
	w.log.Debug("Window mapped", "geometry", w.geom.String())
	w.ws.windowMapped(w)
	w.Signals.Shown.Emit(struct{}{})
}
