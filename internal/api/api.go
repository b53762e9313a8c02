// Package api is the debug HTTP API of the window manager. Every handler
// reaches the workspace through the compositor loop.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/ItsNotGoodName/x-wmshell/internal/build"
	"github.com/ItsNotGoodName/x-wmshell/internal/bus"
	"github.com/ItsNotGoodName/x-wmshell/internal/compositor"
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/google/uuid"
)

type Handler struct {
	loop *compositor.Loop
	hub  *bus.Hub[compositor.Event]
}

func NewHandler(loop *compositor.Loop, hub *bus.Hub[compositor.Event]) Handler {
	return Handler{
		loop: loop,
		hub:  hub,
	}
}

// Register adds the operations of h to api.
func Register(api huma.API, h Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-build",
		Method:      http.MethodGet,
		Path:        "/api/build",
		Summary:     "Get build",
		Tags:        []string{"Build"},
	}, h.GetBuild)
	huma.Register(api, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/api/outputs",
		Summary:     "List outputs",
		Tags:        []string{"Outputs"},
	}, h.ListOutputs)
	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/api/windows",
		Summary:     "List windows",
		Tags:        []string{"Windows"},
	}, h.ListWindows)
	huma.Register(api, huma.Operation{
		OperationID: "get-window",
		Method:      http.MethodGet,
		Path:        "/api/windows/{id}",
		Summary:     "Get window",
		Tags:        []string{"Windows"},
	}, h.GetWindow)
	huma.Register(api, huma.Operation{
		OperationID: "maximize-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/maximize",
		Summary:     "Maximize window",
		Tags:        []string{"Windows"},
	}, h.MaximizeWindow)
	huma.Register(api, huma.Operation{
		OperationID: "fullscreen-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/fullscreen",
		Summary:     "Set window fullscreen",
		Tags:        []string{"Windows"},
	}, h.FullScreenWindow)
	huma.Register(api, huma.Operation{
		OperationID: "tile-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/tile",
		Summary:     "Quick tile window",
		Tags:        []string{"Windows"},
	}, h.TileWindow)
	huma.Register(api, huma.Operation{
		OperationID: "move-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/move",
		Summary:     "Move window",
		Tags:        []string{"Windows"},
	}, h.MoveWindow)
	huma.Register(api, huma.Operation{
		OperationID: "resize-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/resize",
		Summary:     "Resize window",
		Tags:        []string{"Windows"},
	}, h.ResizeWindow)
	huma.Register(api, huma.Operation{
		OperationID: "send-window-to-output",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/output",
		Summary:     "Send window to output",
		Tags:        []string{"Windows"},
	}, h.SendWindowToOutput)
	huma.Register(api, huma.Operation{
		OperationID: "activate-window",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/activate",
		Summary:     "Activate window",
		Tags:        []string{"Windows"},
	}, h.ActivateWindow)
	huma.Register(api, huma.Operation{
		OperationID: "start-window-move-resize",
		Method:      http.MethodPost,
		Path:        "/api/windows/{id}/move-resize",
		Summary:     "Start interactive move or resize",
		Tags:        []string{"Windows"},
	}, h.StartWindowMoveResize)
	huma.Register(api, huma.Operation{
		OperationID:   "move-pointer",
		Method:        http.MethodPost,
		Path:          "/api/pointer",
		Summary:       "Move or release the pointer",
		Tags:          []string{"Pointer"},
		DefaultStatus: http.StatusNoContent,
	}, h.MovePointer)

	eventTypes := make(map[string]any, len(compositor.Events))
	for _, ev := range compositor.Events {
		eventTypes[ev.EventName()] = ev
	}
	sse.Register(api, huma.Operation{
		OperationID: "stream-events",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Stream workspace events",
		Tags:        []string{"Events"},
	}, eventTypes, h.StreamEvents)
}

type BuildOutput struct {
	Body build.Build
}

func (h Handler) GetBuild(ctx context.Context, input *struct{}) (*BuildOutput, error) {
	return &BuildOutput{Body: build.Current}, nil
}

type Output struct {
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Geometry  geom.Rect `json:"geometry"`
	Placement geom.Rect `json:"placement" doc:"Geometry minus panel struts"`
	Current   bool      `json:"current"`
}

type ListOutputsOutput struct {
	Body []Output
}

func (h Handler) ListOutputs(ctx context.Context, input *struct{}) (*ListOutputsOutput, error) {
	var outputs []Output
	err := h.loop.Do(ctx, func(ws *shell.Workspace) error {
		s := ws.Outputs()
		named, _ := s.(interface{ Name(index int) string })
		outputs = make([]Output, 0, s.Count())
		for i := 0; i < s.Count(); i++ {
			o := Output{
				Index:     i,
				Geometry:  s.Geometry(i),
				Placement: ws.ClientArea(shell.AreaPlacement, i),
				Current:   i == s.Current(),
			}
			if named != nil {
				o.Name = named.Name(i)
			}
			outputs = append(outputs, o)
		}
		return nil
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ListOutputsOutput{Body: outputs}, nil
}

type Window struct {
	shell.Snapshot
	Surface string `json:"surface"`
}

func (h Handler) window(w *shell.Window) Window {
	return Window{Snapshot: w.Snapshot(), Surface: h.loop.SurfaceID(w)}
}

type ListWindowsOutput struct {
	Body []Window
}

func (h Handler) ListWindows(ctx context.Context, input *struct{}) (*ListWindowsOutput, error) {
	var windows []Window
	err := h.loop.Do(ctx, func(ws *shell.Workspace) error {
		all := ws.Windows()
		windows = make([]Window, 0, len(all))
		for _, w := range all {
			windows = append(windows, h.window(w))
		}
		return nil
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ListWindowsOutput{Body: windows}, nil
}

type WindowInput struct {
	ID string `path:"id" doc:"Window ID"`
}

type WindowOutput struct {
	Body Window
}

func (h Handler) GetWindow(ctx context.Context, input *WindowInput) (*WindowOutput, error) {
	return h.update(ctx, input.ID, nil)
}

type MaximizeWindowInput struct {
	WindowInput
	Body struct {
		Mode string `json:"mode" enum:"restore,vertical,horizontal,full"`
	}
}

func (h Handler) MaximizeWindow(ctx context.Context, input *MaximizeWindowInput) (*WindowOutput, error) {
	mode, ok := shell.ParseMaximizeMode(input.Body.Mode)
	if !ok {
		return nil, huma.Error422UnprocessableEntity("invalid maximize mode")
	}
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		w.Maximize(mode)
		return nil
	})
}

type FullScreenWindowInput struct {
	WindowInput
	Body struct {
		Set bool `json:"set"`
	}
}

func (h Handler) FullScreenWindow(ctx context.Context, input *FullScreenWindowInput) (*WindowOutput, error) {
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		w.SetFullScreen(input.Body.Set, true)
		return nil
	})
}

type TileWindowInput struct {
	WindowInput
	Body struct {
		Mode string `json:"mode" doc:"Sides joined by |, e.g. left|top, maximize or none"`
	}
}

func (h Handler) TileWindow(ctx context.Context, input *TileWindowInput) (*WindowOutput, error) {
	mode, ok := tile.ParseMode(input.Body.Mode)
	if !ok {
		return nil, huma.Error422UnprocessableEntity("invalid quick tile mode")
	}
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		w.SetQuickTileMode(mode, true)
		return nil
	})
}

type MoveWindowInput struct {
	WindowInput
	Body geom.Point
}

func (h Handler) MoveWindow(ctx context.Context, input *MoveWindowInput) (*WindowOutput, error) {
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		w.Move(input.Body)
		return nil
	})
}

type ResizeWindowInput struct {
	WindowInput
	Body geom.Size
}

func (h Handler) ResizeWindow(ctx context.Context, input *ResizeWindowInput) (*WindowOutput, error) {
	if !input.Body.IsValid() {
		return nil, huma.Error422UnprocessableEntity("size must be positive")
	}
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		w.Resize(input.Body)
		return nil
	})
}

type SendWindowToOutputInput struct {
	WindowInput
	Body struct {
		Output int `json:"output" minimum:"0"`
	}
}

func (h Handler) SendWindowToOutput(ctx context.Context, input *SendWindowToOutputInput) (*WindowOutput, error) {
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		if input.Body.Output >= ws.Outputs().Count() {
			return errInvalidOutput
		}
		w.SendToOutput(input.Body.Output)
		return nil
	})
}

func (h Handler) ActivateWindow(ctx context.Context, input *WindowInput) (*WindowOutput, error) {
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		ws.Activate(w)
		return nil
	})
}

type StartWindowMoveResizeInput struct {
	WindowInput
	Body struct {
		Edges string `json:"edges,omitempty" doc:"Edges to resize joined by |, e.g. bottom|right, none moves"`
	}
}

func (h Handler) StartWindowMoveResize(ctx context.Context, input *StartWindowMoveResizeInput) (*WindowOutput, error) {
	edges, ok := shell.ParseEdges(input.Body.Edges)
	if !ok {
		return nil, huma.Error422UnprocessableEntity("invalid edges")
	}
	return h.update(ctx, input.ID, func(ws *shell.Workspace, w *shell.Window) error {
		if edges == shell.EdgeNone {
			return w.StartMove()
		}
		return w.StartResize(edges)
	})
}

type MovePointerInput struct {
	Body struct {
		geom.Point
		Release bool `json:"release,omitempty" doc:"Release the button after moving"`
	}
}

func (h Handler) MovePointer(ctx context.Context, input *MovePointerInput) (*struct{}, error) {
	err := h.loop.Do(ctx, func(ws *shell.Workspace) error {
		ws.PointerMoved(input.Body.Point)
		if input.Body.Release {
			ws.PointerReleased()
		}
		return nil
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &struct{}{}, nil
}

var (
	errWindowNotFound = errors.New("window not found")
	errInvalidOutput  = errors.New("invalid output")
)

// update runs fn on window id and returns the window once the loop handled
// the client answers.
func (h Handler) update(ctx context.Context, id string, fn func(ws *shell.Workspace, w *shell.Window) error) (*WindowOutput, error) {
	windowID, err := uuid.Parse(id)
	if err != nil {
		return nil, huma.Error404NotFound(errWindowNotFound.Error(), err)
	}

	if fn != nil {
		err := h.loop.Do(ctx, func(ws *shell.Workspace) error {
			w := ws.Window(windowID)
			if w == nil {
				return errWindowNotFound
			}
			return fn(ws, w)
		})
		if err != nil {
			return nil, toHumaError(err)
		}
	}

	var window Window
	err = h.loop.Do(ctx, func(ws *shell.Workspace) error {
		w := ws.Window(windowID)
		if w == nil {
			return errWindowNotFound
		}
		window = h.window(w)
		return nil
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	return &WindowOutput{Body: window}, nil
}

func (h Handler) StreamEvents(ctx context.Context, input *struct{}, send sse.Sender) {
	eventC, unsubscribe := h.hub.Subscribe(ctx)
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventC:
			if err := send.Data(ev); err != nil {
				return
			}
		}
	}
}

func toHumaError(err error) error {
	switch {
	case errors.Is(err, errWindowNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, errInvalidOutput):
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, shell.ErrMoveResizeActive):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, compositor.ErrLoopClosed):
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return err
	}
}
