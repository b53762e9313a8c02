package shell

import (
	"math"
	"slices"
	"strings"

	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
)

// Constraints are the positioner's constraint adjustments.
type Constraints uint8

const (
	ConstraintSlideX Constraints = 1 << iota
	ConstraintSlideY
	ConstraintFlipX
	ConstraintFlipY
	ConstraintResizeX
	ConstraintResizeY
)

var constraintNames = []string{"slide-x", "slide-y", "flip-x", "flip-y", "resize-x", "resize-y"}

func (c Constraints) String() string {
	return joinFlags(uint8(c), constraintNames)
}

// ParseConstraints parses the String form, e.g. "flip-x|slide-y".
func ParseConstraints(s string) (Constraints, bool) {
	var c Constraints
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" || part == "none" {
			continue
		}
		i := slices.Index(constraintNames, part)
		if i < 0 {
			return 0, false
		}
		c |= 1 << i
	}
	return c, true
}

// Positioner places a popup relative to its parent.
type Positioner struct {
	Size geom.Size `json:"size" yaml:"size"`
	// AnchorRect is relative to the parent's content origin.
	AnchorRect  geom.Rect   `json:"anchor_rect" yaml:"anchor_rect"`
	Anchor      Edges       `json:"anchor" yaml:"anchor"`
	Gravity     Edges       `json:"gravity" yaml:"gravity"`
	Constraints Constraints `json:"constraints" yaml:"constraints"`
	Offset      geom.Point  `json:"offset" yaml:"offset"`
}

// LegacyPositioner places a legacy transient with its top left corner at
// offset, sliding it back into bounds.
func LegacyPositioner(offset geom.Point, size geom.Size) Positioner {
	return Positioner{
		Size:        size,
		AnchorRect:  geom.NewRect(offset, geom.Size{Width: 1, Height: 1}),
		Anchor:      EdgeTop | EdgeLeft,
		Gravity:     EdgeBottom | EdgeRight,
		Constraints: ConstraintSlideX | ConstraintSlideY,
	}
}

// Place returns the popup rectangle in screen coordinates. origin is the
// screen position of the parent's content and bounds the area the popup
// should stay in. Each axis is constrained on its own, flipping before
// sliding. Resize adjustments are not implemented, so a popup that only
// allows resizing may overflow bounds.
func (p Positioner) Place(origin geom.Point, bounds geom.Rect) geom.Rect {
	rect := geom.NewRect(p.position(p.Anchor, p.Gravity, origin), p.Size)
	if inBounds(rect, bounds, edgesHorizontal|edgesVertical) {
		return rect
	}

	if p.Constraints&ConstraintFlipX != 0 && !inBounds(rect, bounds, edgesHorizontal) {
		flipped := geom.NewRect(p.position(flip(p.Anchor, edgesHorizontal), flip(p.Gravity, edgesHorizontal), origin), p.Size)
		if inBounds(flipped, bounds, edgesHorizontal) {
			rect.X = flipped.X
		}
	}
	if p.Constraints&ConstraintSlideX != 0 {
		if !inBounds(rect, bounds, EdgeLeft) {
			rect.X = bounds.X
		}
		if !inBounds(rect, bounds, EdgeRight) {
			rect.X = bounds.Right() - rect.Width
		}
	}

	if p.Constraints&ConstraintFlipY != 0 && !inBounds(rect, bounds, edgesVertical) {
		flipped := geom.NewRect(p.position(flip(p.Anchor, edgesVertical), flip(p.Gravity, edgesVertical), origin), p.Size)
		if inBounds(flipped, bounds, edgesVertical) {
			rect.Y = flipped.Y
		}
	}
	if p.Constraints&ConstraintSlideY != 0 {
		if !inBounds(rect, bounds, EdgeTop) {
			rect.Y = bounds.Y
		}
		if !inBounds(rect, bounds, EdgeBottom) {
			rect.Y = bounds.Bottom() - rect.Height
		}
	}

	return rect
}

// position is the top left corner of the popup for anchor and gravity.
func (p Positioner) position(anchor, gravity Edges, origin geom.Point) geom.Point {
	a := p.AnchorRect

	var pos geom.Point
	switch anchor & edgesHorizontal {
	case EdgeLeft:
		pos.X = a.X
	case EdgeRight:
		pos.X = a.Right()
	default:
		pos.X = round(float64(a.X) + float64(a.Width)/2)
	}
	switch anchor & edgesVertical {
	case EdgeTop:
		pos.Y = a.Y
	case EdgeBottom:
		pos.Y = a.Bottom()
	default:
		pos.Y = round(float64(a.Y) + float64(a.Height)/2)
	}

	// Gravity points where the popup grows from the anchor point.
	switch gravity & edgesHorizontal {
	case EdgeLeft:
		pos.X -= p.Size.Width
	case EdgeRight:
	default:
		pos.X += round(-float64(p.Size.Width) / 2)
	}
	switch gravity & edgesVertical {
	case EdgeTop:
		pos.Y -= p.Size.Height
	case EdgeBottom:
	default:
		pos.Y += round(-float64(p.Size.Height) / 2)
	}

	return pos.Add(p.Offset).Add(origin)
}

func flip(e, axis Edges) Edges {
	if e&axis != 0 {
		return e ^ axis
	}
	return e
}

// inBounds checks the given edges of r against bounds.
func inBounds(r, bounds geom.Rect, edges Edges) bool {
	if edges&EdgeLeft != 0 && r.X < bounds.X {
		return false
	}
	if edges&EdgeTop != 0 && r.Y < bounds.Y {
		return false
	}
	if edges&EdgeRight != 0 && r.Right() > bounds.Right() {
		return false
	}
	if edges&EdgeBottom != 0 && r.Bottom() > bounds.Bottom() {
		return false
	}
	return true
}

func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
