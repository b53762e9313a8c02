// Package geom holds the integer screen-space types shared by the window
// manager. Rectangles use exclusive right and bottom edges.
package geom

import "fmt"

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// IsValid reports whether both dimensions are positive.
func (s Size) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Grow adds the insets to the size.
func (s Size) Grow(i Insets) Size {
	return Size{Width: s.Width + i.Left + i.Right, Height: s.Height + i.Top + i.Bottom}
}

// Shrink removes the insets from the size.
func (s Size) Shrink(i Insets) Size {
	return Size{Width: s.Width - i.Left - i.Right, Height: s.Height - i.Top - i.Bottom}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func NewRect(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

func (r Rect) IsValid() bool {
	return r.Width > 0 && r.Height > 0
}

func (r Rect) IsEmpty() bool {
	return !r.IsValid()
}

func (r Rect) Pos() Point {
	return Point{X: r.X, Y: r.Y}
}

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r Rect) Right() int {
	return r.X + r.Width
}

func (r Rect) Bottom() int {
	return r.Y + r.Height
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) MoveTo(p Point) Rect {
	r.X, r.Y = p.X, p.Y
	return r
}

func (r Rect) Translate(d Point) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

func (r Rect) Resize(s Size) Rect {
	r.Width, r.Height = s.Width, s.Height
	return r
}

func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersect returns the overlapping area, or the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) Intersects(o Rect) bool {
	return r.Intersect(o).IsValid()
}

// United returns the bounding rect of both; invalid rects are ignored.
func (r Rect) United(o Rect) Rect {
	if !r.IsValid() {
		return o
	}
	if !o.IsValid() {
		return r
	}
	x1 := min(r.X, o.X)
	y1 := min(r.Y, o.Y)
	x2 := max(r.Right(), o.Right())
	y2 := max(r.Bottom(), o.Bottom())
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Shrink removes the insets from every side.
func (r Rect) Shrink(i Insets) Rect {
	return Rect{
		X:      r.X + i.Left,
		Y:      r.Y + i.Top,
		Width:  r.Width - i.Left - i.Right,
		Height: r.Height - i.Top - i.Bottom,
	}
}

// Grow adds the insets to every side.
func (r Rect) Grow(i Insets) Rect {
	return Rect{
		X:      r.X - i.Left,
		Y:      r.Y - i.Top,
		Width:  r.Width + i.Left + i.Right,
		Height: r.Height + i.Top + i.Bottom,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Insets describe per-edge thickness, used for decoration borders, client
// window margins and struts.
type Insets struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

func (i Insets) IsZero() bool {
	return i == Insets{}
}

// Max returns the per-edge maximum of both insets.
func (i Insets) Max(o Insets) Insets {
	return Insets{
		Left:   max(i.Left, o.Left),
		Top:    max(i.Top, o.Top),
		Right:  max(i.Right, o.Right),
		Bottom: max(i.Bottom, o.Bottom),
	}
}

func (i Insets) String() string {
	return fmt.Sprintf("l=%d t=%d r=%d b=%d", i.Left, i.Top, i.Right, i.Bottom)
}
