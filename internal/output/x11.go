package output

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

var ErrNoOutputs = errors.New("no active outputs")

// X11 reads the output layout of an X server through RandR. It is used
// when the compositor runs nested in an X session.
type X11 struct {
	*Static
	conn *xgb.Conn
	root xproto.Window
}

func NewX11(conn *xgb.Conn) (*X11, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	x := &X11{
		Static: NewStatic(),
		conn:   conn,
		root:   xproto.Setup(conn).DefaultScreen(conn).Root,
	}
	if err := x.Refresh(); err != nil {
		return nil, err
	}

	return x, nil
}

// Refresh re-reads the CRTC layout. It must run on the compositor loop.
func (x *X11) Refresh() error {
	outputs, err := x.query()
	if err != nil {
		return err
	}
	x.SetOutputs(outputs)
	return nil
}

func (x *X11) query() ([]Output, error) {
	resources, err := randr.GetScreenResources(x.conn, x.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(x.conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			slog.Debug("Failed to get crtc info", "package", "output", "crtc", crtc, "error", err)
			continue
		}

		// Disabled CRTC
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Output%d", i)
		if outputInfo, err := randr.GetOutputInfo(x.conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		outputs = append(outputs, Output{
			Name: name,
			Geometry: geom.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}

	if len(outputs) == 0 {
		return nil, ErrNoOutputs
	}

	return outputs, nil
}
