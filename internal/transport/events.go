// Package transport holds the parsed protocol events the compositor loop
// consumes, simulated clients that answer configures, and trace replay.
package transport

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

// Event is a parsed protocol or input event.
type Event interface{}

// ClientOptions configure the simulated client behind a created surface.
type ClientOptions struct {
	// Preferred is the size the client picks when the compositor leaves
	// the choice to it.
	Preferred geom.Size `yaml:"preferred"`
	// AutoAck makes the client acknowledge and commit every configure.
	AutoAck bool `yaml:"auto_ack"`
}

type (
	ToplevelCreated struct {
		Surface string
		AppID   string
		Client  ClientOptions
	}
	LegacyCreated struct {
		Surface string
		AppID   string
		Client  ClientOptions
	}
	PopupCreated struct {
		Surface    string
		Parent     string
		Positioner shell.Positioner
		Client     ClientOptions
	}
	SurfaceDestroyed struct {
		Surface string
	}
	AppIDSet struct {
		Surface string
		AppID   string
	}
	// TransientSet makes Surface a transient of Parent, an empty Parent
	// clears it. Offset places legacy transients.
	TransientSet struct {
		Surface string
		Parent  string
		Offset  *geom.Point
	}
	PanelBehaviorSet struct {
		Surface  string
		Behavior shell.PanelBehavior
	}
	// PanelHidden is an auto-hide panel hiding itself.
	PanelHidden struct {
		Surface string
	}
	ConfigureAcked struct {
		Surface string
		Serial  uint32
	}
	Committed struct {
		Surface        string
		BufferSize     geom.Size
		WindowGeometry *geom.Rect
	}
	MaximizeRequested struct {
		Surface string
		Mode    shell.MaximizeMode
	}
	FullScreenRequested struct {
		Surface string
		Set     bool
	}
	MoveRequested struct {
		Surface string
	}
	ResizeRequested struct {
		Surface string
		Edges   shell.Edges
	}
	// TileRequested is a quick-tile shortcut on the surface's window.
	TileRequested struct {
		Surface string
		Mode    tile.Mode
	}
	// OutputRequested sends the surface's window to another output.
	OutputRequested struct {
		Surface string
		Output  int
	}
	PointerMoved struct {
		Position geom.Point
	}
	PointerReleased struct{}
	ScreenEdgeTriggered struct {
		Output int
		Edge   shell.Edges
	}
)
