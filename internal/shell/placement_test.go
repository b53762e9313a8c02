package shell

import (
	"testing"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
)

func TestPlacementPolicy(t *testing.T) {
	tests := []struct {
		policy   PlacementPolicy
		expected []geom.Rect
	}{
		{PlacementZeroCornered, []geom.Rect{{Width: 100, Height: 50}, {Width: 100, Height: 50}}},
		{PlacementCentered, []geom.Rect{{X: 590, Y: 487, Width: 100, Height: 50}, {X: 590, Y: 487, Width: 100, Height: 50}}},
		{PlacementCascade, []geom.Rect{{Width: 100, Height: 50}, {X: 24, Y: 24, Width: 100, Height: 50}}},
	}

	for _, tt := range tests {
		ws := newTestWorkspace(Options{Placement: tt.policy}, singleOutput)
		for i, expected := range tt.expected {
			w, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})
			if w.Geometry() != expected {
				t.Errorf("%s window %d: expected %v, got %v", tt.policy, i, expected, w.Geometry())
			}
		}
	}
}

func TestPlacementMaximizing(t *testing.T) {
	ws := newTestWorkspace(Options{Placement: PlacementMaximizing}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	if w.RequestedMaximizeMode() != MaximizeFull {
		t.Fatalf("expected window to be maximized after map, got %v", w.RequestedMaximizeMode())
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected maximized frame, got %v", w.Geometry())
	}
}

func TestPlacementOnCurrentOutput(t *testing.T) {
	outputs := output.NewStatic(dualOutput...)
	outputs.SetCurrent(1)
	ws := NewWorkspace(outputs, testDecorations, nil, Options{Placement: PlacementZeroCornered})

	w, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})
	if w.Geometry() != (geom.Rect{X: 1280, Width: 100, Height: 50}) {
		t.Errorf("expected window on the second output, got %v", w.Geometry())
	}
}

type positionRules struct {
	noRules
	pos geom.Point
}

func (r positionRules) CheckPosition(p geom.Point, init bool) geom.Point {
	if init {
		return r.pos
	}
	return p
}

func TestPlacementRulePosition(t *testing.T) {
	rules := func(string) Rules { return positionRules{pos: geom.Point{X: 200, Y: 100}} }
	ws := NewWorkspace(output.NewStatic(singleOutput...), testDecorations, rules, Options{})

	w, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})
	if w.Geometry() != (geom.Rect{X: 200, Y: 100, Width: 100, Height: 50}) {
		t.Errorf("expected rule position, got %v", w.Geometry())
	}

	w.Move(geom.Point{X: 10, Y: 10})
	if w.Geometry().Pos() != (geom.Point{X: 10, Y: 10}) {
		t.Errorf("expected initial rule to allow moves, got %v", w.Geometry())
	}
}

func TestPlacementTransient(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	parent, _ := mapToplevel(t, ws, geom.Size{Width: 392, Height: 272})

	s := &fakeToplevel{}
	dialog := ws.NewToplevel(s, "org.example.test")
	dialog.SetTransientFor(parent, nil)
	dialog.HandleCommit(Commit{})
	dialog.HandleConfigureAcknowledged(s.last().serial)
	dialog.HandleCommit(Commit{BufferSize: geom.Size{Width: 92, Height: 22}})
	if dialog.Geometry() != (geom.Rect{X: 150, Y: 125, Width: 100, Height: 50}) {
		t.Errorf("expected dialog centered on its parent, got %v", dialog.Geometry())
	}

	legacy := ws.NewLegacy(&fakeLegacy{}, "org.example.test")
	legacy.SetTransientFor(parent, &geom.Point{X: 10, Y: 10})
	legacy.HandleCommit(Commit{BufferSize: geom.Size{Width: 92, Height: 22}})
	if legacy.Geometry() != (geom.Rect{X: 14, Y: 34, Width: 100, Height: 50}) {
		t.Errorf("expected legacy transient at the offset, got %v", legacy.Geometry())
	}

	parent.Move(geom.Point{X: 100, Y: 100})
	if legacy.Geometry().Pos() != (geom.Point{X: 114, Y: 134}) {
		t.Errorf("expected legacy transient to follow, got %v", legacy.Geometry())
	}
	if dialog.Geometry().Pos() != (geom.Point{X: 150, Y: 125}) {
		t.Errorf("expected dialog to stay, got %v", dialog.Geometry())
	}

	parent.Destroy()
	if legacy.TransientFor() != nil || dialog.TransientFor() != nil {
		t.Error("expected transients to lose their parent")
	}
	if legacy.IsDestroyed() || dialog.IsDestroyed() {
		t.Error("expected transients to outlive their parent")
	}
}

func TestPopupFollowsParent(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	parent, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	s := &fakePopup{}
	popup := ws.NewPopup(s, parent, Positioner{
		Size:       geom.Size{Width: 50, Height: 40},
		AnchorRect: geom.Rect{X: 10, Y: 10, Width: 20, Height: 10},
		Anchor:     EdgeBottom | EdgeLeft,
		Gravity:    EdgeBottom | EdgeRight,
	})

	popup.HandleCommit(Commit{})
	if len(s.rects) != 1 || s.rects[0] != (geom.Rect{X: 10, Y: 20, Width: 50, Height: 40}) {
		t.Fatalf("expected configure relative to the parent, got %v", s.rects)
	}
	popup.HandleConfigureAcknowledged(s.serial)
	popup.HandleCommit(Commit{BufferSize: geom.Size{Width: 50, Height: 40}})
	if popup.Geometry() != (geom.Rect{X: 14, Y: 44, Width: 50, Height: 40}) {
		t.Errorf("expected popup at 14,44, got %v", popup.Geometry())
	}

	parent.Move(geom.Point{X: 100, Y: 100})
	if popup.Geometry() != (geom.Rect{X: 114, Y: 144, Width: 50, Height: 40}) {
		t.Errorf("expected popup to follow its parent, got %v", popup.Geometry())
	}

	parent.Destroy()
	if !popup.IsDestroyed() {
		t.Error("expected popup to be destroyed with its parent")
	}
}
