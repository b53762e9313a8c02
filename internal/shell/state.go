package shell

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

// BlockGeometryRequests holds back geometry requests until the returned
// function is called, then sends the last one. Blocks nest.
func (w *Window) BlockGeometryRequests() func() {
	w.blockRequests++
	done := false
	return func() {
		if done {
			return
		}
		done = true
		w.blockRequests--
		if w.blockRequests == 0 && w.blockedRequest != nil {
			r := *w.blockedRequest
			w.blockedRequest = nil
			w.requestGeometry(r)
		}
	}
}

// requestGeometry sends frame to the client together with the requested
// states and tile mode. An invalid frame lets the client choose its size. Roles with
// serials queue the request until a commit resolves it, legacy surfaces
// take it at once.
func (w *Window) requestGeometry(frame geom.Rect) {
	if w.destroyed {
		return
	}
	if w.blockRequests > 0 {
		w.blockedRequest = &frame
		return
	}

	var client geom.Size
	if frame.IsValid() {
		client = frame.Size().Shrink(w.borders())
	}
	w.requestedClientSize = client
	w.configured = true

	serial := w.role.configure(w, frame, client)
	if !w.role.acknowledges() {
		if frame.IsValid() {
			w.doSetGeometry(frame)
		}
		w.updateMaximizeMode(w.requestedMaximizeMode)
		w.updateFullScreen(w.requestedFullScreen)
		w.updateQuickTile(w.requestedQuickTile)
		return
	}

	w.lastSent = max(w.lastSent, serial)
	req := configureRequest{
		serial:       serial,
		frame:        frame,
		maximizeMode: w.requestedMaximizeMode,
		fullScreen:   w.requestedFullScreen,
		quickTile:    w.requestedQuickTile,
	}
	if frame.IsValid() {
		w.queue.push(req)
	} else {
		w.pendingState = &req
	}

	w.log.Debug("Sent configure", "serial", serial, "frame", frame.String(), "states", w.states().String())
}

// sendStateConfigure resends the current size with updated states. Such
// configures only carry activation and resizing, which need no resolution.
func (w *Window) sendStateConfigure() {
	if w.destroyed || !w.configured || w.role.Kind() != RoleToplevel {
		return
	}
	serial := w.role.configure(w, w.pendingFrame(), w.requestedClientSize)
	w.lastSent = max(w.lastSent, serial)
}

// pendingFrame is the frame the window is heading to.
func (w *Window) pendingFrame() geom.Rect {
	if req, ok := w.queue.back(); ok {
		return req.frame
	}
	return w.geom
}

func (w *Window) doSetGeometry(r geom.Rect) {
	if w.destroyed || w.geom == r {
		return
	}
	old := w.geom
	w.geom = r
	if r.IsValid() {
		w.placed = true
	}

	if d := r.Pos().Sub(old.Pos()); d != (geom.Point{}) && old.IsValid() {
		for _, p := range w.popups {
			p.followParent(d)
		}
	}

	w.Signals.GeometryChanged.Emit(old)
	w.ws.geometryChanged(w)
}

func (w *Window) followParent(d geom.Point) {
	w.queue.translate(d)
	if w.geom.IsValid() {
		w.doSetGeometry(w.geom.Translate(d))
	}
}

func (w *Window) updateMaximizeMode(mode MaximizeMode) {
	if w.maximizeMode == mode {
		return
	}
	w.maximizeMode = mode
	w.Signals.MaximizedStateChanged.Emit(mode)
}

func (w *Window) updateFullScreen(fullScreen bool) {
	if w.fullScreen == fullScreen {
		return
	}
	w.fullScreen = fullScreen
	w.Signals.FullScreenChanged.Emit(fullScreen)
}

func (w *Window) updateQuickTile(mode tile.Mode) {
	if w.quickTile == mode {
		return
	}
	w.quickTile = mode
	w.Signals.QuickTileModeChanged.Emit(mode)
}

func maximizeModeOf(horizontal, vertical bool) MaximizeMode {
	var mode MaximizeMode
	if horizontal {
		mode |= MaximizeHorizontal
	}
	if vertical {
		mode |= MaximizeVertical
	}
	return mode
}

// maximizeTarget maximizes the axes of mode into area and takes the other
// axes from restore.
func maximizeTarget(mode MaximizeMode, area, restore geom.Rect) geom.Rect {
	if !restore.IsValid() {
		restore = area
	}
	r := restore
	if mode&MaximizeHorizontal != 0 {
		r.X, r.Width = area.X, area.Width
	}
	if mode&MaximizeVertical != 0 {
		r.Y, r.Height = area.Y, area.Height
	}
	return r
}

// Maximize requests mode. The window keeps its geometry until the client
// acknowledges and commits.
func (w *Window) Maximize(mode MaximizeMode) {
	w.changeMaximize(mode, false)
}

func (w *Window) SetMaximize(vertically, horizontally bool) {
	w.Maximize(maximizeModeOf(horizontally, vertically))
}

// changeMaximize moves the window to mode. With adjust the current mode is
// recomputed against a changed client area.
func (w *Window) changeMaximize(mode MaximizeMode, adjust bool) {
	if w.destroyed || !w.role.resizable() || w.maximizeRecursion {
		return
	}

	oldMode := w.requestedMaximizeMode
	if adjust {
		if oldMode == MaximizeRestore {
			return
		}
		mode = oldMode
	} else {
		mode = maximizeModeOf(w.rules().CheckMaximize(mode&MaximizeHorizontal != 0, mode&MaximizeVertical != 0, false))
		if mode == oldMode {
			return
		}
		if !w.role.acknowledges() && w.requestedFullScreen && mode != MaximizeRestore {
			// Legacy surfaces can't be maximized and fullscreen at once.
			w.log.Debug("Ignoring maximize of fullscreen legacy window")
			return
		}
	}
	w.changeMaximizeCalls++

	current := w.geom
	if w.requestedFullScreen {
		current = w.geomFsRestore
	}
	if !adjust && oldMode == MaximizeRestore && w.requestedQuickTile == tile.None && current.IsValid() {
		w.geometryRestore = current
	}
	w.requestedMaximizeMode = mode

	borderless := w.ws.options.BorderlessMaximizedWindows
	if w.deco != nil && !(borderless && mode == MaximizeFull) {
		w.maximizeRecursion = true
		w.deco.SetMaximized(mode&MaximizeHorizontal != 0, mode&MaximizeVertical != 0)
		w.maximizeRecursion = false
	}
	if borderless {
		w.maximizeRecursion = true
		w.setNoBorder(w.rules().CheckNoBorder(mode == MaximizeFull, false))
		w.maximizeRecursion = false
	}
	w.lastBorders = w.borders()

	if w.requestedQuickTile != tile.None &&
		((oldMode == MaximizeVertical && mode == MaximizeRestore) || (oldMode == MaximizeFull && mode == MaximizeHorizontal)) {
		// Resizing a tiled window leaves the tile without restoring.
		w.requestedQuickTile = tile.None
	}
	switch mode {
	case MaximizeFull:
		if w.ws.options.ElectricBorderMaximize {
			w.requestedQuickTile = tile.Maximize
		} else {
			w.requestedQuickTile = tile.None
		}
	case MaximizeRestore:
		w.requestedQuickTile = tile.None
	}

	area := w.ws.ClientArea(AreaMaximize, w.Output())
	target := maximizeTarget(mode, area, w.geometryRestore)
	if mode == MaximizeRestore && !w.geometryRestore.IsValid() {
		target = w.ws.ClientArea(AreaPlacement, w.Output())
	}

	if w.requestedFullScreen {
		// Fullscreen wins; the maximized geometry is where it returns to.
		w.geomFsRestore = target
		w.requestGeometry(w.ws.ClientArea(AreaFullScreen, w.Output()))
		return
	}
	w.requestGeometry(target)
}

// SetFullScreen enters or leaves fullscreen. User requests are refused for
// roles that can't go fullscreen on their own.
func (w *Window) SetFullScreen(set, user bool) {
	if w.destroyed {
		return
	}
	if user && !w.role.userCanSetFullScreen() {
		return
	}
	set = w.rules().CheckFullScreen(set, false)
	if w.requestedFullScreen == set {
		return
	}

	out := w.Output()
	if set {
		if w.placed {
			w.geomFsRestore = w.geom
			if !w.geometryRestore.IsValid() {
				w.geometryRestore = w.geom
			}
		}
		if !w.role.acknowledges() && w.requestedMaximizeMode != MaximizeRestore {
			// Legacy surfaces drop the maximize state instead.
			if w.geometryRestore.IsValid() {
				w.geomFsRestore = w.geometryRestore
			}
			w.requestedMaximizeMode = MaximizeRestore
			if w.deco != nil {
				w.maximizeRecursion = true
				w.deco.SetMaximized(false, false)
				w.maximizeRecursion = false
			}
		}
		w.requestedQuickTile = tile.None
	}
	w.requestedFullScreen = set
	w.lastBorders = w.borders()

	switch {
	case set:
		w.requestGeometry(w.ws.ClientArea(AreaFullScreen, out))
	case w.geomFsRestore.IsValid():
		target := w.geomFsRestore
		if from := w.ws.outputAt(target.Center()); from != out {
			target = w.ws.moveToOutput(target, from, out)
		}
		w.geomFsRestore = geom.Rect{}
		w.requestGeometry(target)
	default:
		// Created fullscreen, so the client picks its size.
		w.requestGeometry(geom.Rect{})
	}
}

// SetQuickTileMode tiles the window to a half, a quarter or the whole
// placement area. Tiling to the side the window is already on moves it to
// the neighbouring output, or untiles when there is none. keyboard picks
// the output from the window instead of the pointer.
func (w *Window) SetQuickTileMode(mode tile.Mode, keyboard bool) {
	if w.destroyed || !w.role.resizable() {
		return
	}

	oldTile := w.requestedQuickTile
	unblock := w.BlockGeometryRequests()
	defer unblock()

	mode = mode.Sanitize()

	if mode == tile.Maximize {
		w.requestedQuickTile = tile.None
		if w.requestedMaximizeMode == MaximizeFull {
			w.Maximize(MaximizeRestore)
			return
		}
		restore := w.geometryRestore
		if oldTile == tile.None {
			restore = w.geom
		}
		w.Maximize(MaximizeFull)
		if w.requestedMaximizeMode != MaximizeFull {
			w.requestedQuickTile = oldTile
			return
		}
		w.geometryRestore = restore
		w.requestedQuickTile = tile.Maximize
		return
	}

	if w.requestedMaximizeMode != MaximizeRestore {
		w.requestedQuickTile = tile.None
		w.Maximize(MaximizeRestore)
		if mode != tile.None {
			w.requestedQuickTile = mode
			w.requestGeometry(tile.Rect(mode, w.ws.ClientArea(AreaPlacement, w.tileOutput(keyboard))))
		}
		return
	}

	if mode != tile.None {
		out := w.tileOutput(keyboard)
		if w.requestedQuickTile == mode {
			cur := w.Output()
			next := w.ws.neighbourOutput(cur, mode)
			if next == cur {
				mode = tile.None
			} else {
				d := w.ws.outputs.Geometry(next).Pos().Sub(w.ws.outputs.Geometry(cur).Pos())
				w.geometryRestore = w.geometryRestore.Translate(d)
				out = next
				mode = mode.SwapHorizontal()
			}
		} else if w.requestedQuickTile == tile.None && w.placed {
			w.geometryRestore = w.geom
		}

		if mode != tile.None {
			w.requestedQuickTile = mode
			w.requestGeometry(tile.Rect(mode, w.ws.ClientArea(AreaPlacement, out)))
			return
		}
	}

	w.requestedQuickTile = tile.None
	if !w.geometryRestore.IsValid() {
		w.geometryRestore = w.geom
	}
	w.requestGeometry(w.geometryRestore)
}

func (w *Window) tileOutput(keyboard bool) int {
	if keyboard {
		return w.Output()
	}
	return w.ws.outputAt(w.ws.pointer)
}

// Move moves the window. Moves need no client round trip; configures still
// in flight are moved along.
func (w *Window) Move(pos geom.Point) {
	if w.destroyed || !w.placed || !w.role.movable() {
		return
	}
	pos = w.rules().CheckPosition(pos, false)
	d := pos.Sub(w.pendingFrame().Pos())
	if d == (geom.Point{}) {
		return
	}
	w.queue.translate(d)
	w.doSetGeometry(w.geom.Translate(d))
}

// Resize asks the client for a new frame size at the current position.
func (w *Window) Resize(size geom.Size) {
	if w.destroyed || !w.role.resizable() {
		return
	}
	size = w.rules().CheckSize(size, false)
	w.SetFrameGeometry(geom.NewRect(w.pendingFrame().Pos(), size))
}

// SetFrameGeometry moves the window at once when the size stays the same,
// otherwise the client is asked for the new frame.
func (w *Window) SetFrameGeometry(r geom.Rect) {
	if w.destroyed || !r.IsValid() {
		return
	}
	if r.Size() == w.pendingFrame().Size() {
		w.Move(r.Pos())
		return
	}
	if !w.role.resizable() {
		return
	}
	w.requestGeometry(r)
}

// SendToOutput moves the window to output index, keeping its position
// relative to the output and recomputing fullscreen, maximize and tile
// geometry there.
func (w *Window) SendToOutput(index int) {
	if w.destroyed || !w.role.movable() || index < 0 || index >= w.ws.outputs.Count() {
		return
	}
	from := w.Output()
	if from == index {
		return
	}

	unblock := w.BlockGeometryRequests()
	defer unblock()

	if w.geometryRestore.IsValid() {
		w.geometryRestore = w.ws.moveToOutput(w.geometryRestore, from, index)
	}
	if w.geomFsRestore.IsValid() {
		w.geomFsRestore = w.ws.moveToOutput(w.geomFsRestore, from, index)
	}

	switch {
	case w.requestedFullScreen:
		w.requestGeometry(w.ws.ClientArea(AreaFullScreen, index))
	case w.requestedMaximizeMode != MaximizeRestore:
		w.requestGeometry(maximizeTarget(w.requestedMaximizeMode, w.ws.ClientArea(AreaMaximize, index), w.geometryRestore))
	case w.requestedQuickTile != tile.None:
		w.requestGeometry(tile.Rect(w.requestedQuickTile, w.ws.ClientArea(AreaPlacement, index)))
	default:
		w.SetFrameGeometry(w.ws.moveToOutput(w.pendingFrame(), from, index))
	}
}

// CheckWorkspacePosition fits the window into a changed client area.
func (w *Window) CheckWorkspacePosition() {
	if w.destroyed || !w.placed || !w.role.movable() || w.panel != PanelNone {
		return
	}

	out := w.Output()
	var target geom.Rect
	switch {
	case w.requestedFullScreen:
		target = w.ws.ClientArea(AreaFullScreen, out)
	case w.requestedMaximizeMode != MaximizeRestore:
		target = maximizeTarget(w.requestedMaximizeMode, w.ws.ClientArea(AreaMaximize, out), w.geometryRestore)
	case w.requestedQuickTile != tile.None:
		target = tile.Rect(w.requestedQuickTile, w.ws.ClientArea(AreaPlacement, out))
	default:
		target = keepInArea(w.pendingFrame(), w.ws.ClientArea(AreaPlacement, out))
	}

	if target == w.pendingFrame() {
		return
	}
	if target.Size() == w.pendingFrame().Size() {
		w.Move(target.Pos())
		return
	}
	w.requestGeometry(target)
}

// SetNoBorder removes or restores the decoration borders.
func (w *Window) SetNoBorder(set bool) {
	if w.destroyed {
		return
	}
	w.setNoBorder(w.rules().CheckNoBorder(set, false))
}

func (w *Window) setNoBorder(set bool) {
	if w.noBorder == set {
		return
	}
	w.noBorder = set
	w.handleBordersChanged()
}

// handleBordersChanged keeps the client size when the borders change
// outside of a maximize change. Maximized windows are refitted instead.
func (w *Window) handleBordersChanged() {
	b := w.borders()
	if b == w.lastBorders {
		return
	}
	old := w.lastBorders
	w.lastBorders = b
	if w.maximizeRecursion || !w.placed || w.destroyed {
		return
	}

	if w.requestedMaximizeMode != MaximizeRestore {
		w.changeMaximize(w.requestedMaximizeMode, true)
		return
	}
	client := w.geom.Size().Shrink(old)
	w.doSetGeometry(geom.NewRect(w.geom.Pos(), client.Grow(b)))
}

// SetActive updates the activated state sent to the client.
func (w *Window) SetActive(active bool) {
	if w.destroyed || w.active == active {
		return
	}
	w.active = active
	w.sendStateConfigure()
	w.Signals.ActiveChanged.Emit(active)
}

// SetTransientFor makes the window a transient of parent. Legacy transients
// with an offset are placed like popups and follow their parent.
func (w *Window) SetTransientFor(parent *Window, offset *geom.Point) {
	if w.destroyed || w.role.Kind() == RolePopup || parent == w {
		return
	}
	if w.transientFor != nil {
		w.transientFor.removePopup(w)
	}
	w.transientFor = parent
	w.transientOffset = offset
	if parent != nil && offset != nil {
		parent.popups = append(parent.popups, w)
	}
}

func keepInArea(r, area geom.Rect) geom.Rect {
	if !area.IsValid() {
		return r
	}
	r.Width = min(r.Width, area.Width)
	r.Height = min(r.Height, area.Height)
	if r.Right() > area.Right() {
		r.X = area.Right() - r.Width
	}
	if r.Bottom() > area.Bottom() {
		r.Y = area.Bottom() - r.Height
	}
	r.X = max(r.X, area.X)
	r.Y = max(r.Y, area.Y)
	return r
}
