package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ItsNotGoodName/x-wmshell/internal/bus"
	"github.com/ItsNotGoodName/x-wmshell/internal/compositor"
	"github.com/ItsNotGoodName/x-wmshell/internal/decoration"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/output"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/transport"
	"github.com/google/uuid"
)

// newTestRouter serves a workspace with one mapped window. stop closes the
// loop and waits for it.
func newTestRouter(t *testing.T) (h http.Handler, stop func()) {
	t.Helper()

	outputs := output.NewStatic(
		output.Output{Name: "A", Geometry: geom.Rect{Width: 1280, Height: 1024}},
		output.Output{Name: "B", Geometry: geom.Rect{X: 1280, Width: 1280, Height: 1024}},
	)
	decorations := decoration.Static{
		Normal:    geom.Insets{Left: 4, Top: 24, Right: 4, Bottom: 4},
		Maximized: geom.Insets{Top: 24},
	}
	ws := shell.NewWorkspace(outputs, decorations, nil, shell.Options{Placement: shell.PlacementZeroCornered})
	loop := compositor.New(ws, nil)

	ctx, cancel := context.WithCancel(context.Background())
	doneC := make(chan struct{})
	go func() {
		loop.Serve(ctx)
		close(doneC)
	}()
	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			<-doneC
		})
	}
	t.Cleanup(stop)

	err := loop.Send(ctx, transport.ToplevelCreated{
		Surface: "term",
		AppID:   "org.example.term",
		Client:  transport.ClientOptions{Preferred: geom.Size{Width: 92, Height: 22}, AutoAck: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	return NewRouter(NewHandler(loop, bus.NewHub[compositor.Event]())), stop
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func firstWindow(t *testing.T, h http.Handler) Window {
	t.Helper()
	rec := do(t, h, http.MethodGet, "/api/windows", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	windows := decode[[]Window](t, rec)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	return windows[0]
}

func TestListWindows(t *testing.T) {
	h, _ := newTestRouter(t)

	w := firstWindow(t, h)
	if w.Surface != "term" || w.AppID != "org.example.term" {
		t.Errorf("expected surface term with app id, got %q %q", w.Surface, w.AppID)
	}
	if w.Geometry != (geom.Rect{Width: 100, Height: 50}) {
		t.Errorf("expected 0,0 100x50, got %v", w.Geometry)
	}
	if !w.Mapped || !w.Active {
		t.Errorf("expected mapped active window, got mapped=%v active=%v", w.Mapped, w.Active)
	}

	rec := do(t, h, http.MethodGet, "/api/windows/"+w.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decode[Window](t, rec); got.ID != w.ID {
		t.Errorf("expected window %s, got %s", w.ID, got.ID)
	}
}

func TestWindowActions(t *testing.T) {
	h, _ := newTestRouter(t)
	path := "/api/windows/" + firstWindow(t, h).ID.String()

	tests := []struct {
		action   string
		body     string
		expected geom.Rect
	}{
		{"maximize", `{"mode":"full"}`, geom.Rect{Width: 1280, Height: 1024}},
		{"maximize", `{"mode":"restore"}`, geom.Rect{Width: 100, Height: 50}},
		{"tile", `{"mode":"left"}`, geom.Rect{Width: 640, Height: 1024}},
		{"tile", `{"mode":"none"}`, geom.Rect{Width: 100, Height: 50}},
		{"move", `{"x":10,"y":20}`, geom.Rect{X: 10, Y: 20, Width: 100, Height: 50}},
		{"resize", `{"width":200,"height":100}`, geom.Rect{X: 10, Y: 20, Width: 200, Height: 100}},
		{"fullscreen", `{"set":true}`, geom.Rect{Width: 1280, Height: 1024}},
		{"fullscreen", `{"set":false}`, geom.Rect{X: 10, Y: 20, Width: 200, Height: 100}},
		{"output", `{"output":1}`, geom.Rect{X: 1290, Y: 20, Width: 200, Height: 100}},
	}

	for _, tt := range tests {
		rec := do(t, h, http.MethodPost, path+"/"+tt.action, tt.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s %s: expected 200, got %d: %s", tt.action, tt.body, rec.Code, rec.Body.String())
		}
		if got := decode[Window](t, rec); got.Geometry != tt.expected {
			t.Errorf("%s %s: expected %v, got %v", tt.action, tt.body, tt.expected, got.Geometry)
		}
	}
}

func TestWindowErrors(t *testing.T) {
	h, stop := newTestRouter(t)
	path := "/api/windows/" + firstWindow(t, h).ID.String()

	tests := []struct {
		method, path, body string
		expected           int
	}{
		{http.MethodGet, "/api/windows/" + uuid.NewString(), "", http.StatusNotFound},
		{http.MethodGet, "/api/windows/not-a-uuid", "", http.StatusNotFound},
		{http.MethodPost, path + "/maximize", `{"mode":"sideways"}`, http.StatusUnprocessableEntity},
		{http.MethodPost, path + "/tile", `{"mode":"diagonal"}`, http.StatusUnprocessableEntity},
		{http.MethodPost, path + "/resize", `{"width":0,"height":10}`, http.StatusUnprocessableEntity},
		{http.MethodPost, path + "/output", `{"output":2}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		if rec := do(t, h, tt.method, tt.path, tt.body); rec.Code != tt.expected {
			t.Errorf("%s %s %s: expected %d, got %d", tt.method, tt.path, tt.body, tt.expected, rec.Code)
		}
	}

	stop()
	if rec := do(t, h, http.MethodGet, "/api/windows", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 once the loop closed, got %d", rec.Code)
	}
}

func TestInteractiveMoveResize(t *testing.T) {
	h, _ := newTestRouter(t)
	path := "/api/windows/" + firstWindow(t, h).ID.String()

	if rec := do(t, h, http.MethodPost, path+"/move-resize", `{"edges":"bottom|right"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodPost, path+"/move-resize", `{}`); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while resizing, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, path+"/move-resize", `{"edges":"middle"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for invalid edges, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/api/pointer", `{"x":100,"y":50,"release":true}`); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := firstWindow(t, h).Geometry; got != (geom.Rect{Width: 200, Height: 100}) {
		t.Errorf("expected resized frame 0,0 200x100, got %v", got)
	}

	if rec := do(t, h, http.MethodPost, path+"/move-resize", `{}`); rec.Code != http.StatusOK {
		t.Errorf("expected move to start once the resize finished, got %d", rec.Code)
	}
}

func TestListOutputs(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/outputs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	outputs := decode[[]Output](t, rec)
	if len(outputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(outputs))
	}
	if outputs[1].Name != "B" || outputs[1].Geometry != (geom.Rect{X: 1280, Width: 1280, Height: 1024}) {
		t.Errorf("expected output B, got %+v", outputs[1])
	}
	if !outputs[0].Current || outputs[1].Current {
		t.Error("expected first output to be current")
	}
}
