// Package quad draws rendered text onto an in-memory image.
//
// Canvas is a fontatlas.QuadDrawer for textures that keep their texels in
// host memory, such as texture.MemoryTexture. It is meant for tests, tools and
// headless rendering; a GPU renderer would implement QuadDrawer itself.
package quad

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/texture"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// ErrUnsupportedTexture is returned when a quad references a texture whose
// coverage cannot be read back.
var ErrUnsupportedTexture = errors.New("quad: texture coverage is not readable")

// coverageTexture is implemented by textures that expose their alpha
// channel. Uploads changes whenever the texels do.
type coverageTexture interface {
	Alpha() *image.Alpha
	Uploads() int
}

type mask struct {
	img     *image.Alpha
	uploads int
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithColor sets the text color. Default: opaque black.
func WithColor(c color.Color) Option {
	return func(cv *Canvas) {
		cv.SetColor(c)
	}
}

// WithScale magnifies every quad by s, sampling the atlas with the filter of
// its texture. Non-positive values are ignored. Default: 1.
func WithScale(s float64) Option {
	return func(cv *Canvas) {
		if s > 0 {
			cv.scale = s
		}
	}
}

// Canvas composites glyph quads onto an RGBA image.
// Canvas is not safe for concurrent use.
type Canvas struct {
	dst   *image.RGBA
	color color.NRGBA
	src   *image.Uniform
	scale float64
	masks map[texture.Texture]*mask
	quads int
}

// NewCanvas creates a transparent w×h canvas.
func NewCanvas(w, h int, opts ...Option) *Canvas {
	c := &Canvas{
		dst:   image.NewRGBA(image.Rect(0, 0, w, h)),
		scale: 1,
		masks: make(map[texture.Texture]*mask),
	}
	c.SetColor(color.Black)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetColor sets the color used for subsequent quads.
func (c *Canvas) SetColor(col color.Color) {
	c.color = color.NRGBAModel.Convert(col).(color.NRGBA)
	c.src = image.NewUniform(c.color)
}

// Clear fills the whole canvas with col.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// Image returns the canvas image. It aliases the canvas storage.
func (c *Canvas) Image() *image.RGBA { return c.dst }

// Quads returns the number of quads drawn so far.
func (c *Canvas) Quads() int { return c.quads }

// DrawQuad implements fontatlas.QuadDrawer.
func (c *Canvas) DrawQuad(q fontatlas.Quad) error {
	c.quads++
	g := q.Glyph
	if g.Width == 0 || g.Height == 0 {
		return nil
	}

	m, err := c.mask(q.Texture)
	if err != nil {
		return err
	}
	sr := q.Source()

	if c.scale == 1 {
		draw.DrawMask(c.dst, q.Bounds(), c.src, image.Point{}, m, sr.Min, draw.Over)
		return nil
	}

	tile := c.tile(m, sr)
	dr := image.Rect(
		scaled(q.X, c.scale), scaled(q.Y, c.scale),
		scaled(q.X+g.Width, c.scale), scaled(q.Y+g.Height, c.scale),
	)
	scalerFor(q.Texture.Filter()).Scale(c.dst, dr, tile, tile.Bounds(), draw.Over, nil)
	return nil
}

// mask returns the coverage image of tex, refreshed when new glyphs have
// been uploaded since it was last read.
func (c *Canvas) mask(tex texture.Texture) (*image.Alpha, error) {
	ct, ok := tex.(coverageTexture)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTexture, tex)
	}
	m := c.masks[tex]
	if m == nil || m.uploads != ct.Uploads() {
		m = &mask{img: ct.Alpha(), uploads: ct.Uploads()}
		c.masks[tex] = m
	}
	return m.img, nil
}

// tile renders the sr region of the coverage in the canvas color.
func (c *Canvas) tile(m *image.Alpha, sr image.Rectangle) *image.NRGBA {
	tile := image.NewNRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	for y := 0; y < sr.Dy(); y++ {
		for x := 0; x < sr.Dx(); x++ {
			a := m.AlphaAt(sr.Min.X+x, sr.Min.Y+y).A
			tile.SetNRGBA(x, y, color.NRGBA{
				R: c.color.R,
				G: c.color.G,
				B: c.color.B,
				A: uint8(uint16(a) * uint16(c.color.A) / 0xFF),
			})
		}
	}
	return tile
}

func scalerFor(f texture.Filter) draw.Scaler {
	if f.Mag == gputypes.FilterModeNearest {
		return draw.NearestNeighbor
	}
	return draw.BiLinear
}

func scaled(v int, s float64) int {
	return int(math.Round(float64(v) * s))
}
