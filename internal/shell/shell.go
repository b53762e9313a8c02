// Package shell negotiates window geometry and state with clients. Changes
// that need the client's cooperation are sent as configures and only become
// authoritative once the client acknowledges the serial and commits a
// buffer.
package shell

import (
	"errors"
	"strings"
)

var ErrMoveResizeActive = errors.New("interactive move/resize already active")

// MaximizeMode is a bitset of maximized axes.
type MaximizeMode uint8

const (
	MaximizeRestore    MaximizeMode = 0
	MaximizeVertical   MaximizeMode = 1 << 0
	MaximizeHorizontal MaximizeMode = 1 << 1
	MaximizeFull                    = MaximizeVertical | MaximizeHorizontal
)

func (m MaximizeMode) String() string {
	switch m {
	case MaximizeRestore:
		return "restore"
	case MaximizeVertical:
		return "vertical"
	case MaximizeHorizontal:
		return "horizontal"
	case MaximizeFull:
		return "full"
	default:
		return "invalid"
	}
}

func ParseMaximizeMode(s string) (MaximizeMode, bool) {
	switch strings.ToLower(s) {
	case "restore", "none", "":
		return MaximizeRestore, true
	case "vertical":
		return MaximizeVertical, true
	case "horizontal":
		return MaximizeHorizontal, true
	case "full":
		return MaximizeFull, true
	default:
		return MaximizeRestore, false
	}
}

// States are the toplevel state flags sent with a configure.
type States uint8

const (
	StateActivated States = 1 << iota
	StateFullscreen
	StateMaximized
	StateResizing
)

func (s States) Has(flag States) bool {
	return s&flag == flag
}

func (s States) String() string {
	return joinFlags(uint8(s), []string{"activated", "fullscreen", "maximized", "resizing"})
}

// Edges is a bitset of rectangle edges. It names the edges of an
// interactive resize as well as positioner anchors and gravity, where no
// flag on an axis means centered.
type Edges uint8

const (
	EdgeNone Edges = 0
	EdgeTop  Edges = 1 << (iota - 1)
	EdgeBottom
	EdgeLeft
	EdgeRight

	edgesHorizontal = EdgeLeft | EdgeRight
	edgesVertical   = EdgeTop | EdgeBottom
)

func (e Edges) String() string {
	if e == EdgeNone {
		return "none"
	}
	return joinFlags(uint8(e), []string{"top", "bottom", "left", "right"})
}

// ParseEdges parses the String form, e.g. "bottom|right".
func ParseEdges(s string) (Edges, bool) {
	var e Edges
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "", "none":
		case "top":
			e |= EdgeTop
		case "bottom":
			e |= EdgeBottom
		case "left":
			e |= EdgeLeft
		case "right":
			e |= EdgeRight
		default:
			return EdgeNone, false
		}
	}
	return e, true
}

func joinFlags(v uint8, names []string) string {
	var parts []string
	for i, name := range names {
		if v&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
