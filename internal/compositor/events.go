package compositor

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/google/uuid"
)

// Event is published on the bus for every change of the workspace.
type Event interface {
	EventName() string
}

type WindowAdded struct {
	ID    uuid.UUID `json:"id"`
	AppID string    `json:"app_id"`
	Role  string    `json:"role"`
}

type WindowMapped struct {
	Window shell.Snapshot `json:"window"`
}

type WindowRemoved struct {
	ID       uuid.UUID `json:"id"`
	AppID    string    `json:"app_id"`
	Geometry geom.Rect `json:"geometry"`
}

type GeometryChanged struct {
	ID  uuid.UUID `json:"id"`
	Old geom.Rect `json:"old"`
	New geom.Rect `json:"new"`
}

type MaximizeChanged struct {
	ID   uuid.UUID `json:"id"`
	Mode string    `json:"mode"`
}

type FullScreenChanged struct {
	ID         uuid.UUID `json:"id"`
	FullScreen bool      `json:"fullscreen"`
}

type QuickTileChanged struct {
	ID   uuid.UUID `json:"id"`
	Mode string    `json:"mode"`
}

type ActiveChanged struct {
	ID     uuid.UUID `json:"id"`
	Active bool      `json:"active"`
}

// MoveResize reports the phases of an interactive move/resize: start, step
// and finish.
type MoveResize struct {
	ID       uuid.UUID `json:"id"`
	Phase    string    `json:"phase"`
	Geometry geom.Rect `json:"geometry"`
}

type ClientAreaChanged struct{}

func (WindowAdded) EventName() string       { return "window-added" }
func (WindowMapped) EventName() string      { return "window-mapped" }
func (WindowRemoved) EventName() string     { return "window-removed" }
func (GeometryChanged) EventName() string   { return "geometry-changed" }
func (MaximizeChanged) EventName() string   { return "maximize-changed" }
func (FullScreenChanged) EventName() string { return "fullscreen-changed" }
func (QuickTileChanged) EventName() string  { return "quick-tile-changed" }
func (ActiveChanged) EventName() string     { return "active-changed" }
func (MoveResize) EventName() string        { return "move-resize" }
func (ClientAreaChanged) EventName() string { return "client-area-changed" }

// Events holds the zero value of every event type.
var Events = []Event{
	WindowAdded{},
	WindowMapped{},
	WindowRemoved{},
	GeometryChanged{},
	MaximizeChanged{},
	FullScreenChanged{},
	QuickTileChanged{},
	ActiveChanged{},
	MoveResize{},
	ClientAreaChanged{},
}
