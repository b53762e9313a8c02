package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
	"gopkg.in/yaml.v3"
)

// Trace is a recorded or hand written sequence of protocol and input
// events. Each step holds exactly one action.
type Trace struct {
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Create     *CreateStep     `yaml:"create,omitempty"`
	Destroy    *SurfaceStep    `yaml:"destroy,omitempty"`
	AppID      *AppIDStep      `yaml:"app_id,omitempty"`
	Transient  *TransientStep  `yaml:"transient,omitempty"`
	Panel      *PanelStep      `yaml:"panel,omitempty"`
	HidePanel  *SurfaceStep    `yaml:"hide_panel,omitempty"`
	Ack        *AckStep        `yaml:"ack,omitempty"`
	Commit     *CommitStep     `yaml:"commit,omitempty"`
	Maximize   *MaximizeStep   `yaml:"maximize,omitempty"`
	FullScreen *FullScreenStep `yaml:"fullscreen,omitempty"`
	Move       *SurfaceStep    `yaml:"move,omitempty"`
	Resize     *ResizeStep     `yaml:"resize,omitempty"`
	Tile       *TileStep       `yaml:"tile,omitempty"`
	Output     *OutputStep     `yaml:"output,omitempty"`
	Pointer    *geom.Point     `yaml:"pointer,omitempty"`
	Release    *struct{}       `yaml:"release,omitempty"`
	Edge       *EdgeStep       `yaml:"edge,omitempty"`
}

type SurfaceStep struct {
	Surface string `yaml:"surface"`
}

type CreateStep struct {
	Surface       string          `yaml:"surface"`
	Role          string          `yaml:"role"`
	AppID         string          `yaml:"app_id"`
	Parent        string          `yaml:"parent"`
	Positioner    *PositionerStep `yaml:"positioner"`
	ClientOptions `yaml:",inline"`
}

type PositionerStep struct {
	Size        geom.Size  `yaml:"size"`
	AnchorRect  geom.Rect  `yaml:"anchor_rect"`
	Anchor      string     `yaml:"anchor"`
	Gravity     string     `yaml:"gravity"`
	Constraints string     `yaml:"constraints"`
	Offset      geom.Point `yaml:"offset"`
}

type AppIDStep struct {
	Surface string `yaml:"surface"`
	AppID   string `yaml:"app_id"`
}

type TransientStep struct {
	Surface string      `yaml:"surface"`
	Parent  string      `yaml:"parent"`
	Offset  *geom.Point `yaml:"offset"`
}

type PanelStep struct {
	Surface  string `yaml:"surface"`
	Behavior string `yaml:"behavior"`
}

type AckStep struct {
	Surface string `yaml:"surface"`
	// Serial zero acknowledges the last configure the surface received.
	Serial uint32 `yaml:"serial"`
}

type CommitStep struct {
	Surface        string     `yaml:"surface"`
	Buffer         geom.Size  `yaml:"buffer"`
	WindowGeometry *geom.Rect `yaml:"window_geometry"`
}

type MaximizeStep struct {
	Surface string `yaml:"surface"`
	Mode    string `yaml:"mode"`
}

type FullScreenStep struct {
	Surface string `yaml:"surface"`
	Set     bool   `yaml:"set"`
}

type ResizeStep struct {
	Surface string `yaml:"surface"`
	Edges   string `yaml:"edges"`
}

type TileStep struct {
	Surface string `yaml:"surface"`
	Mode    string `yaml:"mode"`
}

type OutputStep struct {
	Surface string `yaml:"surface"`
	Output  int    `yaml:"output"`
}

type EdgeStep struct {
	Output int    `yaml:"output"`
	Edge   string `yaml:"edge"`
}

var ErrEmptyStep = errors.New("step has no action")

// ReadTrace reads a YAML trace file.
func ReadTrace(filePath string) (Trace, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Trace{}, err
	}
	defer file.Close()

	return ParseTrace(file)
}

func ParseTrace(r io.Reader) (Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var trace Trace
	if err := dec.Decode(&trace); err != nil && !errors.Is(err, io.EOF) {
		return Trace{}, fmt.Errorf("failed to decode trace: %w", err)
	}
	return trace, nil
}

// Events converts the steps into events.
func (t Trace) Events() ([]Event, error) {
	events := make([]Event, 0, len(t.Steps))
	for i, step := range t.Steps {
		ev, err := step.event()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s Step) event() (Event, error) {
	var events []Event
	add := func(ev Event) { events = append(events, ev) }

	if c := s.Create; c != nil {
		ev, err := c.event()
		if err != nil {
			return nil, err
		}
		add(ev)
	}
	if d := s.Destroy; d != nil {
		add(SurfaceDestroyed{Surface: d.Surface})
	}
	if a := s.AppID; a != nil {
		add(AppIDSet{Surface: a.Surface, AppID: a.AppID})
	}
	if t := s.Transient; t != nil {
		add(TransientSet{Surface: t.Surface, Parent: t.Parent, Offset: t.Offset})
	}
	if p := s.Panel; p != nil {
		b, ok := shell.ParsePanelBehavior(p.Behavior)
		if !ok {
			return nil, fmt.Errorf("invalid panel behavior %q", p.Behavior)
		}
		add(PanelBehaviorSet{Surface: p.Surface, Behavior: b})
	}
	if h := s.HidePanel; h != nil {
		add(PanelHidden{Surface: h.Surface})
	}
	if a := s.Ack; a != nil {
		add(ConfigureAcked{Surface: a.Surface, Serial: a.Serial})
	}
	if c := s.Commit; c != nil {
		add(Committed{Surface: c.Surface, BufferSize: c.Buffer, WindowGeometry: c.WindowGeometry})
	}
	if m := s.Maximize; m != nil {
		mode, ok := shell.ParseMaximizeMode(m.Mode)
		if !ok {
			return nil, fmt.Errorf("invalid maximize mode %q", m.Mode)
		}
		add(MaximizeRequested{Surface: m.Surface, Mode: mode})
	}
	if f := s.FullScreen; f != nil {
		add(FullScreenRequested{Surface: f.Surface, Set: f.Set})
	}
	if m := s.Move; m != nil {
		add(MoveRequested{Surface: m.Surface})
	}
	if r := s.Resize; r != nil {
		edges, ok := shell.ParseEdges(r.Edges)
		if !ok {
			return nil, fmt.Errorf("invalid edges %q", r.Edges)
		}
		add(ResizeRequested{Surface: r.Surface, Edges: edges})
	}
	if t := s.Tile; t != nil {
		mode, ok := tile.ParseMode(t.Mode)
		if !ok {
			return nil, fmt.Errorf("invalid tile mode %q", t.Mode)
		}
		add(TileRequested{Surface: t.Surface, Mode: mode})
	}
	if o := s.Output; o != nil {
		add(OutputRequested{Surface: o.Surface, Output: o.Output})
	}
	if p := s.Pointer; p != nil {
		add(PointerMoved{Position: *p})
	}
	if s.Release != nil {
		add(PointerReleased{})
	}
	if e := s.Edge; e != nil {
		edge, ok := shell.ParseEdges(e.Edge)
		if !ok {
			return nil, fmt.Errorf("invalid edge %q", e.Edge)
		}
		add(ScreenEdgeTriggered{Output: e.Output, Edge: edge})
	}

	switch len(events) {
	case 0:
		return nil, ErrEmptyStep
	case 1:
		return events[0], nil
	default:
		return nil, fmt.Errorf("step has %d actions", len(events))
	}
}

func (c *CreateStep) event() (Event, error) {
	if c.Surface == "" {
		return nil, errors.New("surface is required")
	}

	switch c.Role {
	case "toplevel", "":
		return ToplevelCreated{Surface: c.Surface, AppID: c.AppID, Client: c.ClientOptions}, nil
	case "legacy":
		return LegacyCreated{Surface: c.Surface, AppID: c.AppID, Client: c.ClientOptions}, nil
	case "popup":
		if c.Parent == "" {
			return nil, errors.New("popup needs a parent")
		}
		var positioner shell.Positioner
		if p := c.Positioner; p != nil {
			var err error
			positioner, err = p.positioner()
			if err != nil {
				return nil, err
			}
		}
		return PopupCreated{Surface: c.Surface, Parent: c.Parent, Positioner: positioner, Client: c.ClientOptions}, nil
	default:
		return nil, fmt.Errorf("invalid role %q", c.Role)
	}
}

func (p *PositionerStep) positioner() (shell.Positioner, error) {
	anchor, ok := shell.ParseEdges(p.Anchor)
	if !ok {
		return shell.Positioner{}, fmt.Errorf("invalid anchor %q", p.Anchor)
	}
	gravity, ok := shell.ParseEdges(p.Gravity)
	if !ok {
		return shell.Positioner{}, fmt.Errorf("invalid gravity %q", p.Gravity)
	}
	constraints, ok := shell.ParseConstraints(p.Constraints)
	if !ok {
		return shell.Positioner{}, fmt.Errorf("invalid constraints %q", p.Constraints)
	}
	return shell.Positioner{
		Size:        p.Size,
		AnchorRect:  p.AnchorRect,
		Anchor:      anchor,
		Gravity:     gravity,
		Constraints: constraints,
		Offset:      p.Offset,
	}, nil
}

// Sink accepts events, typically the compositor loop.
type Sink interface {
	Send(ctx context.Context, events ...Event) error
}

// Replay sends the events of trace to sink in order.
func Replay(ctx context.Context, trace Trace, sink Sink) error {
	events, err := trace.Events()
	if err != nil {
		return err
	}
	return sink.Send(ctx, events...)
}
