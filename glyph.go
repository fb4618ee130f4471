package fontatlas

import (
	"fmt"

	"github.com/gogpu/fontatlas/internal/logging"
	"github.com/gogpu/fontatlas/rasterizer"
)

// Rect is a sub-rectangle of an atlas texture in normalized coordinates.
type Rect struct {
	X, Y, W, H float32
}

// Glyph is the cached record of one rasterized code point.
//
// Records are created on first use and never change afterwards; the
// pointer returned by FindGlyph stays valid until the Font is closed.
type Glyph struct {
	// Code is the code point the glyph was rasterized for.
	Code rune

	// Width and Height are the bitmap dimensions in pixels.
	Width, Height int

	// BearingX is the horizontal offset from the pen to the bitmap's left edge.
	// BearingY is the vertical offset from the baseline up to the bitmap's top.
	BearingX, BearingY int

	// Advance is the horizontal pen advance in pixels.
	Advance int

	// Texture is the index of the atlas texture holding the bitmap.
	Texture int

	// TexX and TexY locate the bitmap inside the texture, in texels.
	TexX, TexY int

	// Rect is the bitmap rectangle normalized by the texture size.
	Rect Rect

	// Notdef reports that the face has no glyph for Code and the
	// placeholder glyph was cached instead.
	Notdef bool
}

// FindGlyph returns the glyph for r, rasterizing and packing it into the
// atlas on the first request. Later calls return the same record.
//
// A code point the face cannot represent yields its notdef glyph, which is
// cached like any other. Errors are reserved for failures the cache cannot
// recover from: texture allocation or upload, a glyph larger than an atlas
// texture, or a closed font.
func (f *Font) FindGlyph(r rune) (*Glyph, error) {
	if f.closed {
		return nil, ErrFontClosed
	}

	b := &f.buckets[bucketIndex(r)]
	i, g := b.find(r)
	if g != nil {
		return g, nil
	}

	g, err := f.loadGlyph(r)
	if err != nil {
		return nil, err
	}
	b.insert(i, g)
	f.numGlyphs++
	return g, nil
}

// loadGlyph rasterizes r, packs it and uploads its texels.
func (f *Font) loadGlyph(r rune) (*Glyph, error) {
	bm, err := f.face.LoadGlyph(r)
	if err != nil {
		return nil, fmt.Errorf("fontatlas: rasterize %U: %w", r, err)
	}

	pl, err := f.atlas.Place(bm.Width, bm.Height)
	if err != nil {
		return nil, fmt.Errorf("fontatlas: place %U: %w", r, err)
	}
	if err := f.atlas.Upload(pl, bm.Width, bm.Height, luminanceAlpha(bm)); err != nil {
		return nil, fmt.Errorf("fontatlas: upload %U: %w", r, err)
	}

	size := f.atlas.Size()
	tw, th := float32(size.Width), float32(size.Height)

	g := &Glyph{
		Code:     r,
		Width:    bm.Width,
		Height:   bm.Height,
		BearingX: bm.Metrics.BearingX.Floor(),
		BearingY: bm.Metrics.BearingY.Floor(),
		Advance:  bm.Metrics.Advance.Floor(),
		Texture:  pl.Texture,
		TexX:     pl.X,
		TexY:     pl.Y,
		Rect: Rect{
			X: float32(pl.X) / tw,
			Y: float32(pl.Y) / th,
			W: float32(bm.Width) / tw,
			H: float32(bm.Height) / th,
		},
		Notdef: bm.Notdef,
	}

	logging.Logger().Debug("fontatlas: glyph cached",
		"code", fmt.Sprintf("%U", r), "size", fmt.Sprintf("%dx%d", g.Width, g.Height),
		"texture", g.Texture, "x", g.TexX, "y", g.TexY, "notdef", g.Notdef)
	return g, nil
}

// luminanceAlpha expands 8-bit coverage into two-channel texels with full
// luminance and the coverage as alpha.
func luminanceAlpha(bm *rasterizer.Bitmap) []byte {
	out := make([]byte, 2*bm.Width*bm.Height)
	for y := 0; y < bm.Height; y++ {
		row := bm.Coverage[y*bm.Pitch : y*bm.Pitch+bm.Width]
		for x, c := range row {
			i := 2 * (y*bm.Width + x)
			out[i] = 0xFF
			out[i+1] = c
		}
	}
	return out
}

// NumGlyphs returns the number of cached glyphs.
func (f *Font) NumGlyphs() int { return f.numGlyphs }
