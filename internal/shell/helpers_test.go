package shell

import (
	"testing"

	"github.com/ItsNotGoodName/x-wmshell/internal/decoration"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
)

var (
	testNormalBorders    = geom.Insets{Left: 4, Top: 24, Right: 4, Bottom: 4}
	testMaximizedBorders = geom.Insets{Left: 0, Top: 24, Right: 0, Bottom: 0}
	testDecorations      = decoration.Static{Normal: testNormalBorders, Maximized: testMaximizedBorders}

	singleOutput = []output.Output{
		{Name: "A", Geometry: geom.Rect{Width: 1280, Height: 1024}},
	}
	dualOutput = []output.Output{
		{Name: "A", Geometry: geom.Rect{Width: 1280, Height: 1024}},
		{Name: "B", Geometry: geom.Rect{X: 1280, Width: 1280, Height: 1024}},
	}
)

type toplevelConfigure struct {
	serial uint32
	size   geom.Size
	states States
}

type fakeToplevel struct {
	serial     uint32
	configures []toplevelConfigure
	panelShown int
}

func (f *fakeToplevel) Configure(size geom.Size, states States) uint32 {
	f.serial++
	f.configures = append(f.configures, toplevelConfigure{serial: f.serial, size: size, states: states})
	return f.serial
}

func (f *fakeToplevel) ShowAutoHidingPanel() {
	f.panelShown++
}

func (f *fakeToplevel) last() toplevelConfigure {
	if len(f.configures) == 0 {
		return toplevelConfigure{}
	}
	return f.configures[len(f.configures)-1]
}

type fakeLegacy struct {
	sizes []geom.Size
}

func (f *fakeLegacy) RequestSize(size geom.Size) {
	f.sizes = append(f.sizes, size)
}

type fakePopup struct {
	serial uint32
	rects  []geom.Rect
}

func (f *fakePopup) Configure(rect geom.Rect) uint32 {
	f.serial++
	f.rects = append(f.rects, rect)
	return f.serial
}

func newTestWorkspace(options Options, outputs []output.Output) *Workspace {
	if options.Placement == "" {
		options.Placement = PlacementZeroCornered
	}
	return NewWorkspace(output.NewStatic(outputs...), testDecorations, nil, options)
}

// mapToplevel creates a toplevel and maps it with a buffer of client size.
func mapToplevel(t *testing.T, ws *Workspace, client geom.Size) (*Window, *fakeToplevel) {
	t.Helper()

	s := &fakeToplevel{}
	w := ws.NewToplevel(s, "org.example.test")
	w.HandleCommit(Commit{})
	if len(s.configures) != 1 {
		t.Fatalf("expected initial configure, got %d configures", len(s.configures))
	}
	w.HandleConfigureAcknowledged(s.last().serial)
	w.HandleCommit(Commit{BufferSize: client})
	if !w.IsMapped() {
		t.Fatal("expected window to be mapped")
	}
	return w, s
}

// ackAndCommit acknowledges the last configure and commits a buffer of the
// configured size.
func ackAndCommit(w *Window, s *fakeToplevel) {
	c := s.last()
	w.HandleConfigureAcknowledged(c.serial)
	w.HandleCommit(Commit{BufferSize: c.size})
}

func countGeometryChanges(w *Window) *int {
	n := new(int)
	w.Signals.GeometryChanged.Connect(func(geom.Rect) { *n++ })
	return n
}
