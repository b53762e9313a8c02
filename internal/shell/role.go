package shell

import "github.com/ItsNotGoodName/x-wmshell/internal/geom"

type RoleKind uint8

const (
	RoleLegacy RoleKind = iota
	RoleToplevel
	RolePopup
)

func (k RoleKind) String() string {
	switch k {
	case RoleLegacy:
		return "legacy"
	case RoleToplevel:
		return "toplevel"
	case RolePopup:
		return "popup"
	default:
		return "unknown"
	}
}

// LegacySurface is a wl_shell style surface. It has no configure serials;
// the next commit answers the request.
type LegacySurface interface {
	RequestSize(size geom.Size)
}

// ToplevelSurface is an xdg toplevel. Configure returns the serial of the
// configure, increasing with every call.
type ToplevelSurface interface {
	Configure(size geom.Size, states States) uint32
}

// PopupSurface is an xdg popup. The rectangle is relative to the parent's
// content origin.
type PopupSurface interface {
	Configure(rect geom.Rect) uint32
}

// PanelSurface is implemented by surfaces that carry the plasma panel
// protocol.
type PanelSurface interface {
	ShowAutoHidingPanel()
}

// Role is the shell role of a window, fixed at creation. It is one of
// *LegacyShell, *XdgToplevel or *XdgPopup.
type Role interface {
	Kind() RoleKind

	// configure sends frame to the client as a client size and returns the
	// configure serial, zero for roles without serials.
	configure(w *Window, frame geom.Rect, client geom.Size) uint32
	// acknowledges reports whether configures are acknowledged by serial.
	acknowledges() bool
	resizable() bool
	movable() bool
	userCanSetFullScreen() bool
	surface() any
}

type LegacyShell struct {
	s LegacySurface
}

func (*LegacyShell) Kind() RoleKind { return RoleLegacy }

func (r *LegacyShell) configure(w *Window, frame geom.Rect, client geom.Size) uint32 {
	// The legacy protocol cannot ask the client to pick a size.
	if client.IsValid() {
		r.s.RequestSize(client)
	}
	return 0
}

func (*LegacyShell) acknowledges() bool         { return false }
func (*LegacyShell) resizable() bool            { return true }
func (*LegacyShell) movable() bool              { return true }
func (*LegacyShell) userCanSetFullScreen() bool { return false }
func (r *LegacyShell) surface() any             { return r.s }

type XdgToplevel struct {
	s ToplevelSurface
}

func (*XdgToplevel) Kind() RoleKind { return RoleToplevel }

func (r *XdgToplevel) configure(w *Window, frame geom.Rect, client geom.Size) uint32 {
	return r.s.Configure(client, w.states())
}

func (*XdgToplevel) acknowledges() bool         { return true }
func (*XdgToplevel) resizable() bool            { return true }
func (*XdgToplevel) movable() bool              { return true }
func (*XdgToplevel) userCanSetFullScreen() bool { return true }
func (r *XdgToplevel) surface() any             { return r.s }

type XdgPopup struct {
	s          PopupSurface
	positioner Positioner
}

func (*XdgPopup) Kind() RoleKind { return RolePopup }

func (r *XdgPopup) configure(w *Window, frame geom.Rect, client geom.Size) uint32 {
	rel := frame
	if w.transientFor != nil {
		rel = rel.Translate(geom.Point{}.Sub(w.transientFor.clientOrigin()))
	}
	return r.s.Configure(rel)
}

func (*XdgPopup) acknowledges() bool         { return true }
func (*XdgPopup) resizable() bool            { return false }
func (*XdgPopup) movable() bool              { return false }
func (*XdgPopup) userCanSetFullScreen() bool { return false }
func (r *XdgPopup) surface() any             { return r.s }

// Positioner returns the positioner the popup was created with.
func (r *XdgPopup) Positioner() Positioner {
	return r.positioner
}
