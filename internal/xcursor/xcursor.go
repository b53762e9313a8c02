// Package xcursor picks cursor glyphs of the X11 cursor font for
// interactive move/resize and shows them on a window.
package xcursor

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/shell"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Glyphs of the cursor font. The mask of each glyph is the next index.
const (
	BottomLeftCorner  = 12
	BottomRightCorner = 14
	BottomSide        = 16
	Fleur             = 52
	LeftPtr           = 68
	LeftSide          = 70
	RightSide         = 96
	TopLeftCorner     = 134
	TopRightCorner    = 136
	TopSide           = 138
)

// ForEdges returns the glyph of a resize dragging edges, or the move glyph
// for no edges.
func ForEdges(edges shell.Edges) uint16 {
	switch edges {
	case shell.EdgeNone:
		return Fleur
	case shell.EdgeTop:
		return TopSide
	case shell.EdgeBottom:
		return BottomSide
	case shell.EdgeLeft:
		return LeftSide
	case shell.EdgeRight:
		return RightSide
	case shell.EdgeTop | shell.EdgeLeft:
		return TopLeftCorner
	case shell.EdgeTop | shell.EdgeRight:
		return TopRightCorner
	case shell.EdgeBottom | shell.EdgeLeft:
		return BottomLeftCorner
	case shell.EdgeBottom | shell.EdgeRight:
		return BottomRightCorner
	default:
		return LeftPtr
	}
}

// CreateCursor creates a white on black glyph cursor.
func CreateCursor(conn *xgb.Conn, glyph uint16) (xproto.Cursor, error) {
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, err
	}

	cursor, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.OpenFontChecked(conn, font, uint16(len("cursor")), "cursor").Check(); err != nil {
		return 0, err
	}
	defer xproto.CloseFont(conn, font)

	if err := xproto.CreateGlyphCursorChecked(conn, cursor, font, font,
		glyph, glyph+1,
		0xffff, 0xffff, 0xffff,
		0, 0, 0).Check(); err != nil {
		return 0, err
	}

	return cursor, nil
}

// X11 shows glyphs as the cursor of a window. Cursors are created once
// per glyph.
type X11 struct {
	conn    *xgb.Conn
	window  xproto.Window
	cursors map[uint16]xproto.Cursor
}

func NewX11(conn *xgb.Conn, window xproto.Window) *X11 {
	return &X11{
		conn:    conn,
		window:  window,
		cursors: make(map[uint16]xproto.Cursor),
	}
}

func (x *X11) SetCursor(glyph uint16) error {
	cursor, ok := x.cursors[glyph]
	if !ok {
		var err error
		cursor, err = CreateCursor(x.conn, glyph)
		if err != nil {
			return err
		}
		x.cursors[glyph] = cursor
	}

	return xproto.ChangeWindowAttributesChecked(x.conn, x.window, xproto.CwCursor, []uint32{uint32(cursor)}).Check()
}
