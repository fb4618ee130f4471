package fontatlas

import (
	"image"

	"github.com/gogpu/fontatlas/texture"
)

// Quad is one textured rectangle of rendered text.
type Quad struct {
	// Glyph is the cached glyph drawn by the quad.
	Glyph *Glyph

	// Texture is the atlas texture holding the glyph.
	Texture texture.Texture

	// X and Y are the top-left corner of the quad in destination pixels.
	X, Y int
}

// Bounds returns the destination rectangle of the quad.
func (q Quad) Bounds() image.Rectangle {
	return image.Rect(q.X, q.Y, q.X+q.Glyph.Width, q.Y+q.Glyph.Height)
}

// Source returns the texel rectangle of the glyph inside its texture.
func (q Quad) Source() image.Rectangle {
	g := q.Glyph
	return image.Rect(g.TexX, g.TexY, g.TexX+g.Width, g.TexY+g.Height)
}

// QuadDrawer receives the quads of rendered text.
type QuadDrawer interface {
	DrawQuad(q Quad) error
}

// Render lays out text starting at (x, y) and issues one DrawQuad per glyph.
// See AppendQuads for the layout rules.
func (f *Font) Render(dst QuadDrawer, text string, x, y int) error {
	return f.layout(text, x, y, dst.DrawQuad)
}

// AppendQuads lays out text starting at (x, y) and appends its quads to dst.
//
// The first baseline sits at y + Height() + 1. A newline returns the pen to
// x and moves it down by LineAdvance. Each glyph is placed at
// (pen.x + BearingX, pen.y − BearingY) and moves the pen right by its advance.
func (f *Font) AppendQuads(dst []Quad, text string, x, y int) ([]Quad, error) {
	err := f.layout(text, x, y, func(q Quad) error {
		dst = append(dst, q)
		return nil
	})
	return dst, err
}

func (f *Font) layout(text string, x, y int, emit func(Quad) error) error {
	if f.closed {
		return ErrFontClosed
	}

	penX := x
	penY := y + f.height + 1
	advance := f.LineAdvance()

	for r := range Runes(text) {
		if r == '\n' {
			penX = x
			penY += advance
			continue
		}
		g, err := f.FindGlyph(r)
		if err != nil {
			return err
		}
		q := Quad{
			Glyph:   g,
			Texture: f.atlas.Texture(g.Texture),
			X:       penX + g.BearingX,
			Y:       penY - g.BearingY,
		}
		if err := emit(q); err != nil {
			return err
		}
		penX += g.Advance
	}
	return nil
}
