// Package tile computes quick-tile geometry: halves and quarters of an
// output's placement area.
package tile

import "strings"

// Mode is the quick-tile bitset.
type Mode uint8

const (
	None     Mode = 0
	Left     Mode = 1 << 0
	Right    Mode = 1 << 1
	Top      Mode = 1 << 2
	Bottom   Mode = 1 << 3
	Maximize Mode = 1 << 4

	Horizontal = Left | Right
	Vertical   = Top | Bottom
)

// Sanitize drops contradicting flags, so Left|Right becomes none on the
// horizontal axis.
func (m Mode) Sanitize() Mode {
	if m&Maximize != 0 {
		return Maximize
	}
	if m&Horizontal == Horizontal {
		m &^= Horizontal
	}
	if m&Vertical == Vertical {
		m &^= Vertical
	}
	return m
}

// SwapHorizontal mirrors the horizontal side, keeping the vertical one.
func (m Mode) SwapHorizontal() Mode {
	if m&Horizontal == 0 {
		return m
	}
	return (^m & Horizontal) | (m & Vertical)
}

func (m Mode) String() string {
	if m == None {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag Mode
		name string
	}{
		{Left, "left"}, {Right, "right"}, {Top, "top"}, {Bottom, "bottom"}, {Maximize, "maximize"},
	} {
		if m&f.flag != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMode parses the String form, e.g. "left|top".
func ParseMode(s string) (Mode, bool) {
	var m Mode
	for _, part := range strings.Split(s, "|") {
		switch strings.TrimSpace(strings.ToLower(part)) {
		case "", "none":
		case "left":
			m |= Left
		case "right":
			m |= Right
		case "top":
			m |= Top
		case "bottom":
			m |= Bottom
		case "maximize":
			m |= Maximize
		default:
			return None, false
		}
	}
	return m, true
}
