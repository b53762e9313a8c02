// Package decoration is the bridge to server-side decorations. Only the
// border insets are consumed by the window manager; rendering happens
// elsewhere.
package decoration

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
)

// Client is the decorated window as seen by a decoration.
type Client interface {
	AppID() string
}

type Bridge interface {
	CreateDecoration(client Client) Decoration
}

type Decoration interface {
	Borders() geom.Insets
	// BordersChanged is emitted synchronously whenever Borders changes.
	BordersChanged() *signal.Signal[struct{}]
	// SetMaximized tells the decoration about the maximize state the window
	// is heading to. It may change the borders.
	SetMaximized(horizontally, vertically bool)
	Destroy()
}

// Static decorates every window with fixed borders. Maximized axes use the
// maximized insets for the edges along that axis.
type Static struct {
	Normal    geom.Insets
	Maximized geom.Insets
}

var _ Bridge = Static{}

func (s Static) CreateDecoration(client Client) Decoration {
	return &static{
		normal:    s.Normal,
		maximized: s.Maximized,
		borders:   s.Normal,
	}
}

type static struct {
	normal    geom.Insets
	maximized geom.Insets
	borders   geom.Insets
	changed   signal.Signal[struct{}]
	destroyed bool
}

func (d *static) Borders() geom.Insets {
	return d.borders
}

func (d *static) BordersChanged() *signal.Signal[struct{}] {
	return &d.changed
}

func (d *static) SetMaximized(horizontally, vertically bool) {
	if d.destroyed {
		return
	}

	b := d.normal
	if horizontally {
		b.Left, b.Right = d.maximized.Left, d.maximized.Right
	}
	if vertically {
		b.Top, b.Bottom = d.maximized.Top, d.maximized.Bottom
	}

	if b == d.borders {
		return
	}
	d.borders = b
	d.changed.Emit(struct{}{})
}

func (d *static) Destroy() {
	d.destroyed = true
}
