package output

import (
	"slices"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
)

// Static is an output layout set from configuration or by a backend.
type Static struct {
	outputs []Output
	current int
	changed signal.Signal[struct{}]
}

var _ Service = (*Static)(nil)

func NewStatic(outputs ...Output) *Static {
	return &Static{outputs: outputs}
}

func (s *Static) Count() int {
	return len(s.outputs)
}

func (s *Static) Geometry(index int) geom.Rect {
	if index < 0 || index >= len(s.outputs) {
		return geom.Rect{}
	}
	return s.outputs[index].Geometry
}

func (s *Static) Name(index int) string {
	if index < 0 || index >= len(s.outputs) {
		return ""
	}
	return s.outputs[index].Name
}

func (s *Static) Current() int {
	return s.current
}

func (s *Static) SetCurrent(index int) {
	if index < 0 || index >= len(s.outputs) {
		return
	}
	s.current = index
}

func (s *Static) Changed() *signal.Signal[struct{}] {
	return &s.changed
}

// Outputs returns a copy of the layout.
func (s *Static) Outputs() []Output {
	return append([]Output(nil), s.outputs...)
}

// SetOutputs replaces the layout and emits Changed when it differs.
func (s *Static) SetOutputs(outputs []Output) {
	if slices.Equal(s.outputs, outputs) {
		return
	}
	s.outputs = append([]Output(nil), outputs...)
	if s.current >= len(s.outputs) {
		s.current = 0
	}
	s.changed.Emit(struct{}{})
}
