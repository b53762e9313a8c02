// Package output is the read-only screens service consumed by the window
// manager: per-output rectangles, the current output and a change signal.
package output

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/signal"
)

type Service interface {
	Count() int
	// Geometry returns the rectangle of output index, or the zero Rect when
	// the index is out of range.
	Geometry(index int) geom.Rect
	Current() int
	Changed() *signal.Signal[struct{}]
}

type Output struct {
	Name     string    `json:"name" yaml:"name"`
	Geometry geom.Rect `json:"geometry" yaml:"geometry"`
}

// IndexAt returns the output containing p, falling back to the output
// closest to p.
func IndexAt(s Service, p geom.Point) int {
	best, bestDist := 0, -1
	for i := 0; i < s.Count(); i++ {
		g := s.Geometry(i)
		if g.ContainsPoint(p) {
			return i
		}
		c := g.Center()
		dx, dy := c.X-p.X, c.Y-p.Y
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// Bounds returns the bounding rectangle of all outputs.
func Bounds(s Service) geom.Rect {
	var r geom.Rect
	for i := 0; i < s.Count(); i++ {
		r = r.United(s.Geometry(i))
	}
	return r
}
