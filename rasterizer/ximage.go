package rasterizer

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageBackend implements Backend using golang.org/x/image/font/opentype.
type ximageBackend struct{}

// Parse implements Backend.Parse.
func (ximageBackend) Parse(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rasterizer: failed to parse font: %w", err)
	}
	return &ximageFace{font: f, data: data}, nil
}

// ximageFace implements Face on an opentype font. The sized font.Face is
// rebuilt on every SetPixelSize.
type ximageFace struct {
	font   *opentype.Font
	data   []byte
	face   font.Face
	px     int
	buf    sfnt.Buffer
	closed bool
}

// Name implements Face.Name.
func (f *ximageFace) Name() string {
	if name, err := f.font.Name(&f.buf, sfnt.NameIDFamily); err == nil {
		return name
	}
	return ""
}

// Data implements Face.Data.
func (f *ximageFace) Data() []byte { return f.data }

// SetPixelSize implements Face.SetPixelSize. At 72 DPI one point is one pixel.
func (f *ximageFace) SetPixelSize(px int) error {
	if f.closed {
		return ErrFaceClosed
	}
	if px <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPixelSize, px)
	}

	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("rasterizer: failed to size face: %w", err)
	}
	if f.face != nil {
		_ = f.face.Close()
	}
	f.face = face
	f.px = px
	return nil
}

// PixelSize implements Face.PixelSize.
func (f *ximageFace) PixelSize() int { return f.px }

// Metrics implements Face.Metrics.
func (f *ximageFace) Metrics() SizeMetrics {
	if f.face == nil {
		return SizeMetrics{}
	}
	m := f.face.Metrics()

	// font.Metrics reports descent as a positive distance.
	return SizeMetrics{
		Height:  m.Height,
		Ascent:  m.Ascent,
		Descent: -m.Descent,
	}
}

// HasGlyph implements Face.HasGlyph.
func (f *ximageFace) HasGlyph(r rune) bool {
	idx, err := f.font.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

// LoadGlyph implements Face.LoadGlyph.
func (f *ximageFace) LoadGlyph(r rune) (*Bitmap, error) {
	if f.closed {
		return nil, ErrFaceClosed
	}
	if f.face == nil {
		return nil, ErrNoPixelSize
	}

	b := &Bitmap{Code: r, Notdef: !f.HasGlyph(r)}

	// The dot sits on the baseline at the origin, so dr is relative to the
	// pen position with y growing downwards.
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		// The face could not produce even a placeholder; cache an empty glyph.
		b.Notdef = true
		return b, nil
	}

	b.Width = dr.Dx()
	b.Height = dr.Dy()
	b.Pitch = b.Width
	b.Coverage = copyCoverage(mask, maskp, b.Width, b.Height)
	b.Metrics = GlyphMetrics{
		BearingX: fixed.I(dr.Min.X),
		BearingY: fixed.I(-dr.Min.Y),
		Advance:  advance,
	}
	return b, nil
}

// copyCoverage copies a w×h block of mask starting at maskp. The opentype
// face reuses its mask between calls, so the bytes must be copied out.
func copyCoverage(mask image.Image, maskp image.Point, w, h int) []byte {
	out := make([]byte, w*h)
	if w == 0 || h == 0 || mask == nil {
		return out
	}

	if a, ok := mask.(*image.Alpha); ok {
		for y := 0; y < h; y++ {
			off := a.PixOffset(maskp.X, maskp.Y+y)
			copy(out[y*w:(y+1)*w], a.Pix[off:off+w])
		}
		return out
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.AlphaModel.Convert(mask.At(maskp.X+x, maskp.Y+y)).(color.Alpha)
			out[y*w+x] = c.A
		}
	}
	return out
}

// Close implements Face.Close. Closing twice is a no-op.
func (f *ximageFace) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.face == nil {
		return nil
	}
	err := f.face.Close()
	f.face = nil
	return err
}
