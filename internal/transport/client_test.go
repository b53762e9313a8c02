package transport

import (
	"testing"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
)

func TestToplevelAutoAck(t *testing.T) {
	var events []Event
	c := NewToplevel("a", ClientOptions{Preferred: geom.Size{Width: 92, Height: 22}, AutoAck: true}, func(ev Event) {
		events = append(events, ev)
	})

	c.Start()
	serial := c.Configure(geom.Size{}, 0)
	c.Configure(geom.Size{Width: 200, Height: 100}, shell.StateMaximized)
	c.Configure(geom.Size{}, shell.StateActivated)

	expected := []Event{
		Committed{Surface: "a"},
		ConfigureAcked{Surface: "a", Serial: serial},
		Committed{Surface: "a", BufferSize: geom.Size{Width: 92, Height: 22}},
		ConfigureAcked{Surface: "a", Serial: serial + 1},
		Committed{Surface: "a", BufferSize: geom.Size{Width: 200, Height: 100}},
		ConfigureAcked{Surface: "a", Serial: serial + 2},
		Committed{Surface: "a", BufferSize: geom.Size{Width: 200, Height: 100}},
	}
	if len(events) != len(expected) {
		t.Fatalf("expected %d events, got %d", len(expected), len(events))
	}
	for i := range expected {
		if events[i] != expected[i] {
			t.Errorf("event %d: expected %#v, got %#v", i, expected[i], events[i])
		}
	}
	if c.LastSerial() != serial+2 {
		t.Errorf("expected last serial %d, got %d", serial+2, c.LastSerial())
	}
}

func TestClientWithoutAutoAck(t *testing.T) {
	emitted := 0
	emit := func(Event) { emitted++ }

	c := NewToplevel("a", ClientOptions{}, emit)
	c.Start()
	c.Configure(geom.Size{Width: 10, Height: 10}, 0)

	l := NewLegacy("b", ClientOptions{}, emit)
	l.Start()
	l.RequestSize(geom.Size{Width: 10, Height: 10})

	if emitted != 0 {
		t.Errorf("expected silent clients, got %d events", emitted)
	}
	if len(c.Configures()) != 1 || len(l.Configures()) != 1 {
		t.Errorf("expected configures to be recorded, got %d and %d", len(c.Configures()), len(l.Configures()))
	}
}

func TestPopupAutoAck(t *testing.T) {
	var events []Event
	p := NewPopup("p", ClientOptions{AutoAck: true}, func(ev Event) { events = append(events, ev) })

	serial := p.Configure(geom.Rect{X: 10, Y: 20, Width: 50, Height: 40})
	if len(events) != 2 {
		t.Fatalf("expected ack and commit, got %d events", len(events))
	}
	if events[0] != (ConfigureAcked{Surface: "p", Serial: serial}) {
		t.Errorf("unexpected ack %#v", events[0])
	}
	if events[1] != (Committed{Surface: "p", BufferSize: geom.Size{Width: 50, Height: 40}}) {
		t.Errorf("unexpected commit %#v", events[1])
	}
	if p.Configures()[0].Rect != (geom.Rect{X: 10, Y: 20, Width: 50, Height: 40}) {
		t.Errorf("expected relative rect to be recorded, got %v", p.Configures()[0].Rect)
	}
}
