package shell

import (
	"testing"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

func TestMaximizeWaitsForCommit(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	bordersChanged := 0
	w.deco.BordersChanged().Connect(func(struct{}) { bordersChanged++ })
	modes := []MaximizeMode{}
	w.Signals.MaximizedStateChanged.Connect(func(m MaximizeMode) { modes = append(modes, m) })

	w.Maximize(MaximizeFull)

	if bordersChanged != 1 {
		t.Errorf("expected borders to change once, got %d", bordersChanged)
	}
	c := s.last()
	if c.size != (geom.Size{Width: 1280, Height: 1000}) {
		t.Errorf("expected configure of 1280x1000, got %v", c.size)
	}
	if !c.states.Has(StateMaximized) {
		t.Errorf("expected maximized state, got %v", c.states)
	}
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected geometry to wait for the client, got %v", w.Geometry())
	}
	if w.MaximizeMode() != MaximizeRestore || w.RequestedMaximizeMode() != MaximizeFull {
		t.Errorf("expected requested full and current restore, got %v and %v", w.RequestedMaximizeMode(), w.MaximizeMode())
	}

	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected maximized frame, got %v", w.Geometry())
	}
	if w.MaximizeMode() != MaximizeFull {
		t.Errorf("expected full maximize, got %v", w.MaximizeMode())
	}
	if len(modes) != 1 {
		t.Errorf("expected one maximize change, got %v", modes)
	}
	if w.GeometryRestore() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected restore geometry 0,0 100x50, got %v", w.GeometryRestore())
	}

	w.Maximize(MaximizeRestore)
	if s.last().size != (geom.Size{Width: 92, Height: 22}) {
		t.Errorf("expected restore configure of 92x22, got %v", s.last().size)
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected restored frame, got %v", w.Geometry())
	}
	if w.MaximizeMode() != MaximizeRestore {
		t.Errorf("expected restore, got %v", w.MaximizeMode())
	}
}

func TestMaximizeHorizontally(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.SetMaximize(false, true)
	c := s.last()
	if c.size != (geom.Size{Width: 1280, Height: 22}) {
		t.Errorf("expected configure of 1280x22, got %v", c.size)
	}
	if c.states.Has(StateMaximized) {
		t.Error("expected partial maximize to not send the maximized state")
	}

	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 50}) {
		t.Errorf("expected 0,0 1280x50, got %v", w.Geometry())
	}
	if w.MaximizeMode() != MaximizeHorizontal {
		t.Errorf("expected horizontal maximize, got %v", w.MaximizeMode())
	}
}

func TestFullScreenRestoreSlots(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.Maximize(MaximizeFull)
	ackAndCommit(w, s)

	w.SetFullScreen(true, true)
	c := s.last()
	if c.size != (geom.Size{Width: 1280, Height: 1024}) {
		t.Errorf("expected borderless fullscreen configure, got %v", c.size)
	}
	if !c.states.Has(StateFullscreen) || !c.states.Has(StateMaximized) {
		t.Errorf("expected fullscreen and maximized states, got %v", c.states)
	}
	ackAndCommit(w, s)
	if !w.IsFullScreen() {
		t.Fatal("expected window to be fullscreen")
	}
	if w.FullScreenRestore() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected fullscreen restore to hold the maximized frame, got %v", w.FullScreenRestore())
	}

	w.SetFullScreen(false, true)
	if s.last().size != (geom.Size{Width: 1280, Height: 1000}) {
		t.Errorf("expected maximized configure, got %v", s.last().size)
	}
	ackAndCommit(w, s)
	if w.IsFullScreen() || w.MaximizeMode() != MaximizeFull {
		t.Errorf("expected maximized window, got fullscreen %v mode %v", w.IsFullScreen(), w.MaximizeMode())
	}
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected maximized frame, got %v", w.Geometry())
	}

	w.Maximize(MaximizeRestore)
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected original frame, got %v", w.Geometry())
	}
}

func TestMaximizeWhileFullScreen(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.SetFullScreen(true, false)
	ackAndCommit(w, s)

	w.Maximize(MaximizeFull)
	if s.last().size != (geom.Size{Width: 1280, Height: 1024}) {
		t.Errorf("expected fullscreen to keep its size, got %v", s.last().size)
	}
	if w.FullScreenRestore() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected maximized frame to wait in the fullscreen slot, got %v", w.FullScreenRestore())
	}
	ackAndCommit(w, s)
	if !w.IsFullScreen() || w.MaximizeMode() != MaximizeFull {
		t.Errorf("expected fullscreen and maximized, got %v and %v", w.IsFullScreen(), w.MaximizeMode())
	}
}

func TestBorderlessMaximize(t *testing.T) {
	ws := newTestWorkspace(Options{BorderlessMaximizedWindows: true}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.Maximize(MaximizeFull)
	if w.changeMaximizeCalls != 1 {
		t.Errorf("expected a single maximize change, got %d", w.changeMaximizeCalls)
	}
	if !w.NoBorder() {
		t.Error("expected borders to be dropped")
	}
	if s.last().size != (geom.Size{Width: 1280, Height: 1024}) {
		t.Errorf("expected borderless configure, got %v", s.last().size)
	}
	ackAndCommit(w, s)

	w.Maximize(MaximizeRestore)
	if w.changeMaximizeCalls != 2 {
		t.Errorf("expected two maximize changes, got %d", w.changeMaximizeCalls)
	}
	if w.NoBorder() {
		t.Error("expected borders to come back")
	}
	if s.last().size != (geom.Size{Width: 92, Height: 22}) {
		t.Errorf("expected restore configure of 92x22, got %v", s.last().size)
	}
}

func TestQuickTile(t *testing.T) {
	ws := newTestWorkspace(Options{}, dualOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	tiles := []tile.Mode{}
	w.Signals.QuickTileModeChanged.Connect(func(m tile.Mode) { tiles = append(tiles, m) })

	w.SetQuickTileMode(tile.Left, true)
	if w.RequestedQuickTileMode() != tile.Left {
		t.Errorf("expected requested tile left, got %v", w.RequestedQuickTileMode())
	}
	if w.QuickTileMode() != tile.None || len(tiles) != 0 {
		t.Errorf("expected tile to wait for the client, got %v and %v", w.QuickTileMode(), tiles)
	}
	if s.last().size != (geom.Size{Width: 632, Height: 996}) {
		t.Errorf("expected configure of 632x996, got %v", s.last().size)
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 640, Height: 1024}) {
		t.Errorf("expected left half, got %v", w.Geometry())
	}
	if w.QuickTileMode() != tile.Left {
		t.Errorf("expected tile left after commit, got %v", w.QuickTileMode())
	}

	w.SendToOutput(1)
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{X: 1280, Width: 640, Height: 1024}) {
		t.Errorf("expected left half of the second output, got %v", w.Geometry())
	}
	if w.Output() != 1 {
		t.Errorf("expected window on output 1, got %d", w.Output())
	}

	w.SetQuickTileMode(tile.None, true)
	if s.last().size != (geom.Size{Width: 92, Height: 22}) {
		t.Errorf("expected untile to restore the client size, got %v", s.last().size)
	}
	ackAndCommit(w, s)
	if w.Geometry().Size() != (geom.Size{Width: 100, Height: 50}) {
		t.Errorf("expected restored frame, got %v", w.Geometry())
	}
	if w.Output() != 1 {
		t.Errorf("expected restore geometry to follow the window, got output %d", w.Output())
	}

	if len(tiles) != 2 || tiles[0] != tile.Left || tiles[1] != tile.None {
		t.Errorf("expected tile changes [left none], got %v", tiles)
	}
}

func TestQuickTileBeforeFirstMap(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	s := &fakeToplevel{}
	w := ws.NewToplevel(s, "org.example.test")
	w.HandleCommit(Commit{})

	w.SetQuickTileMode(tile.Left, true)
	if s.last().size != (geom.Size{Width: 632, Height: 996}) {
		t.Fatalf("expected configure of 632x996, got %v", s.last().size)
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 640, Height: 1024}) {
		t.Errorf("expected window mapped on the left half, got %v", w.Geometry())
	}
	if w.QuickTileMode() != tile.Left {
		t.Errorf("expected tile left, got %v", w.QuickTileMode())
	}
	if w.GeometryRestore() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected restore geometry of the placement area, got %v", w.GeometryRestore())
	}

	w.SetQuickTileMode(tile.None, true)
	ackAndCommit(w, s)
	if w.QuickTileMode() != tile.None {
		t.Errorf("expected untiled window, got %v", w.QuickTileMode())
	}
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected window to leave the half, got %v", w.Geometry())
	}
}

func TestQuickTileMaximizeEmitsOnce(t *testing.T) {
	ws := newTestWorkspace(Options{ElectricBorderMaximize: true}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	tiles := []tile.Mode{}
	w.Signals.QuickTileModeChanged.Connect(func(m tile.Mode) { tiles = append(tiles, m) })

	w.SetQuickTileMode(tile.Maximize, true)
	if len(tiles) != 0 {
		t.Errorf("expected no tile change before the commit, got %v", tiles)
	}
	ackAndCommit(w, s)
	if len(tiles) != 1 || tiles[0] != tile.Maximize {
		t.Errorf("expected tile changes [maximize], got %v", tiles)
	}

	legacy := ws.NewLegacy(&fakeLegacy{}, "org.example.legacy")
	legacy.HandleCommit(Commit{BufferSize: geom.Size{Width: 92, Height: 22}})
	legacyTiles := []tile.Mode{}
	legacy.Signals.QuickTileModeChanged.Connect(func(m tile.Mode) { legacyTiles = append(legacyTiles, m) })

	legacy.SetQuickTileMode(tile.Maximize, true)
	if len(legacyTiles) != 1 || legacyTiles[0] != tile.Maximize {
		t.Errorf("expected legacy tile changes [maximize], got %v", legacyTiles)
	}
	if legacy.MaximizeMode() != MaximizeFull {
		t.Errorf("expected legacy window maximized, got %v", legacy.MaximizeMode())
	}
}

func TestQuickTileSameSideMovesToNextOutput(t *testing.T) {
	ws := newTestWorkspace(Options{}, dualOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.SetQuickTileMode(tile.Right, true)
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{X: 640, Width: 640, Height: 1024}) {
		t.Fatalf("expected right half, got %v", w.Geometry())
	}

	w.SetQuickTileMode(tile.Right, true)
	if w.RequestedQuickTileMode() != tile.Left {
		t.Errorf("expected side to swap, got %v", w.RequestedQuickTileMode())
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{X: 1280, Width: 640, Height: 1024}) {
		t.Errorf("expected left half of the second output, got %v", w.Geometry())
	}

	// No output further right, so tiling right again untiles.
	w.SetQuickTileMode(tile.Right, true)
	ackAndCommit(w, s)
	w.SetQuickTileMode(tile.Right, true)
	if w.RequestedQuickTileMode() != tile.None {
		t.Errorf("expected untile at the last output, got %v", w.RequestedQuickTileMode())
	}
}

func TestQuickTileMaximize(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.SetQuickTileMode(tile.Maximize, true)
	if w.RequestedQuickTileMode() != tile.Maximize || w.RequestedMaximizeMode() != MaximizeFull {
		t.Errorf("expected maximize tile, got %v and %v", w.RequestedQuickTileMode(), w.RequestedMaximizeMode())
	}
	ackAndCommit(w, s)
	if w.QuickTileMode() != tile.Maximize {
		t.Errorf("expected maximize tile after commit, got %v", w.QuickTileMode())
	}

	w.SetQuickTileMode(tile.Maximize, true)
	if w.RequestedQuickTileMode() != tile.None || w.RequestedMaximizeMode() != MaximizeRestore {
		t.Errorf("expected toggle back, got %v and %v", w.RequestedQuickTileMode(), w.RequestedMaximizeMode())
	}
	ackAndCommit(w, s)
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected original frame, got %v", w.Geometry())
	}
}

func TestBlockGeometryRequests(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, s := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})
	sent := len(s.configures)

	outer := w.BlockGeometryRequests()
	inner := w.BlockGeometryRequests()
	w.Resize(geom.Size{Width: 200, Height: 100})
	w.Resize(geom.Size{Width: 300, Height: 200})
	inner()
	inner()
	if len(s.configures) != sent {
		t.Fatalf("expected no configure while blocked, got %d", len(s.configures)-sent)
	}

	outer()
	if len(s.configures) != sent+1 {
		t.Fatalf("expected a single configure, got %d", len(s.configures)-sent)
	}
	if s.last().size != (geom.Size{Width: 292, Height: 172}) {
		t.Errorf("expected last request to be sent, got %v", s.last().size)
	}
}

func TestLegacyWindow(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	s := &fakeLegacy{}
	w := ws.NewLegacy(s, "org.example.legacy")
	w.HandleCommit(Commit{BufferSize: geom.Size{Width: 92, Height: 22}})

	w.SetFullScreen(true, true)
	if w.IsRequestedFullScreen() {
		t.Error("expected user fullscreen to be refused")
	}

	w.Maximize(MaximizeFull)
	if w.MaximizeMode() != MaximizeFull {
		t.Errorf("expected maximize to apply at once, got %v", w.MaximizeMode())
	}
	if w.Geometry() != (geom.Rect{Width: 1280, Height: 1024}) {
		t.Errorf("expected maximized frame, got %v", w.Geometry())
	}
	if len(s.sizes) != 1 || s.sizes[0] != (geom.Size{Width: 1280, Height: 1000}) {
		t.Errorf("expected a 1280x1000 size request, got %v", s.sizes)
	}

	w.SetFullScreen(true, false)
	if !w.IsFullScreen() {
		t.Error("expected fullscreen")
	}
	if w.MaximizeMode() != MaximizeRestore {
		t.Errorf("expected fullscreen to drop the maximize state, got %v", w.MaximizeMode())
	}

	w.Maximize(MaximizeFull)
	if w.RequestedMaximizeMode() != MaximizeRestore {
		t.Errorf("expected maximize of fullscreen window to be ignored, got %v", w.RequestedMaximizeMode())
	}

	w.SetFullScreen(false, false)
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected frame before the maximize, got %v", w.Geometry())
	}
}

type initialFullScreenRules struct {
	noRules
}

func (initialFullScreenRules) CheckFullScreen(fs, init bool) bool {
	return fs || init
}

func TestCreatedFullScreen(t *testing.T) {
	rules := func(string) Rules { return initialFullScreenRules{} }
	ws := NewWorkspace(output.NewStatic(singleOutput...), testDecorations, rules, Options{Placement: PlacementZeroCornered})
	s := &fakeToplevel{}
	w := ws.NewToplevel(s, "org.example.video")

	w.HandleCommit(Commit{})
	if len(s.configures) != 1 {
		t.Fatalf("expected a single initial configure, got %d", len(s.configures))
	}
	if s.last().size != (geom.Size{Width: 1280, Height: 1024}) || !s.last().states.Has(StateFullscreen) {
		t.Errorf("expected fullscreen initial configure, got %v %v", s.last().size, s.last().states)
	}
	ackAndCommit(w, s)
	if !w.IsFullScreen() {
		t.Fatal("expected window to be created fullscreen")
	}

	w.SetFullScreen(false, true)
	if s.last().size != (geom.Size{}) {
		t.Errorf("expected the client to pick its size, got %v", s.last().size)
	}
	w.HandleConfigureAcknowledged(s.last().serial)
	w.HandleCommit(Commit{BufferSize: geom.Size{Width: 92, Height: 22}})
	if w.IsFullScreen() {
		t.Error("expected fullscreen to end")
	}
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected 0,0 100x50, got %v", w.Geometry())
	}
}

func TestPopupIgnoresStateRequests(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	parent, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	s := &fakePopup{}
	w := ws.NewPopup(s, parent, Positioner{Size: geom.Size{Width: 50, Height: 40}})
	w.HandleCommit(Commit{})
	sent := len(s.rects)

	w.Maximize(MaximizeFull)
	w.SetFullScreen(true, true)
	w.SetQuickTileMode(tile.Left, true)

	if len(s.rects) != sent {
		t.Errorf("expected no configures, got %d", len(s.rects)-sent)
	}
	if w.RequestedMaximizeMode() != MaximizeRestore || w.QuickTileMode() != tile.None {
		t.Errorf("expected popup state to stay, got %v and %v", w.RequestedMaximizeMode(), w.QuickTileMode())
	}
}

func TestSetNoBorderKeepsClientSize(t *testing.T) {
	ws := newTestWorkspace(Options{}, singleOutput)
	w, _ := mapToplevel(t, ws, geom.Size{Width: 92, Height: 22})

	w.SetNoBorder(true)
	if w.Geometry() != (geom.Rect{Width: 92, Height: 22}) {
		t.Errorf("expected frame to shrink to the client, got %v", w.Geometry())
	}
	w.SetNoBorder(false)
	if w.Geometry() != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected borders back, got %v", w.Geometry())
	}
}
