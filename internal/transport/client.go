package transport

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
)

// Configure is a configure received by a simulated client.
type Configure struct {
	Serial uint32
	Size   geom.Size
	States shell.States
	// Rect is the parent relative rectangle of popup configures.
	Rect geom.Rect
}

// client answers configures like a well behaved client: acknowledge, then
// commit a buffer of the configured size. When the compositor lets it
// choose, it keeps its current buffer or picks the preferred size. Events are handed to emit, which must not
// block.
type client struct {
	surface    string
	options    ClientOptions
	emit       func(Event)
	serial     uint32
	buffer     geom.Size
	configures []Configure
}

func (c *client) Surface() string { return c.surface }

// Configures returns the configures received so far.
func (c *client) Configures() []Configure {
	return append([]Configure(nil), c.configures...)
}

// LastSerial returns the serial of the last configure, zero when none.
func (c *client) LastSerial() uint32 {
	return c.serial
}

func (c *client) bufferFor(size geom.Size) geom.Size {
	if size.IsValid() {
		return size
	}
	if c.buffer.IsValid() {
		return c.buffer
	}
	return c.options.Preferred
}

func (c *client) answer(serial uint32, buffer geom.Size) {
	if !c.options.AutoAck {
		return
	}
	c.buffer = buffer
	if serial != 0 {
		c.emit(ConfigureAcked{Surface: c.surface, Serial: serial})
	}
	c.emit(Committed{Surface: c.surface, BufferSize: buffer})
}

// Toplevel is a simulated xdg toplevel.
type Toplevel struct {
	client
	panelShown int
}

var (
	_ shell.ToplevelSurface = (*Toplevel)(nil)
	_ shell.PanelSurface    = (*Toplevel)(nil)
)

func NewToplevel(surface string, options ClientOptions, emit func(Event)) *Toplevel {
	return &Toplevel{client: client{surface: surface, options: options, emit: emit}}
}

// Start commits the initial empty buffer that asks for the first configure.
func (t *Toplevel) Start() {
	if t.options.AutoAck {
		t.emit(Committed{Surface: t.surface})
	}
}

func (t *Toplevel) Configure(size geom.Size, states shell.States) uint32 {
	t.serial++
	t.configures = append(t.configures, Configure{Serial: t.serial, Size: size, States: states})
	t.answer(t.serial, t.bufferFor(size))
	return t.serial
}

func (t *Toplevel) ShowAutoHidingPanel() {
	t.panelShown++
}

// PanelShown returns how often the panel was asked to show itself.
func (t *Toplevel) PanelShown() int {
	return t.panelShown
}

// Legacy is a simulated wl_shell surface.
type Legacy struct {
	client
}

var _ shell.LegacySurface = (*Legacy)(nil)

func NewLegacy(surface string, options ClientOptions, emit func(Event)) *Legacy {
	return &Legacy{client: client{surface: surface, options: options, emit: emit}}
}

// Start commits the preferred size; legacy surfaces map without a
// configure.
func (l *Legacy) Start() {
	if l.options.AutoAck {
		l.buffer = l.options.Preferred
		l.emit(Committed{Surface: l.surface, BufferSize: l.buffer})
	}
}

func (l *Legacy) RequestSize(size geom.Size) {
	l.configures = append(l.configures, Configure{Size: size})
	l.answer(0, l.bufferFor(size))
}

// Popup is a simulated xdg popup.
type Popup struct {
	client
}

var _ shell.PopupSurface = (*Popup)(nil)

func NewPopup(surface string, options ClientOptions, emit func(Event)) *Popup {
	return &Popup{client: client{surface: surface, options: options, emit: emit}}
}

func (p *Popup) Start() {
	if p.options.AutoAck {
		p.emit(Committed{Surface: p.surface})
	}
}

func (p *Popup) Configure(rect geom.Rect) uint32 {
	p.serial++
	p.configures = append(p.configures, Configure{Serial: p.serial, Size: rect.Size(), Rect: rect})
	p.answer(p.serial, p.bufferFor(rect.Size()))
	return p.serial
}
