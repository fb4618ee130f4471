package fontatlas

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/internal/logging"
	"github.com/gogpu/fontatlas/internal/shape"
	"github.com/gogpu/fontatlas/rasterizer"
	"github.com/gogpu/fontatlas/texture"
)

// Font is a rasterizer face at a fixed pixel size together with its glyph
// cache and atlas textures.
//
// Glyphs are rasterized lazily on first use and live until Close. Font is
// not safe for concurrent use: every method that can reach the glyph cache
// (measurement, wrapping, rendering) may insert into it.
type Font struct {
	face  rasterizer.Face
	atlas *atlas.Atlas

	buckets   [numBuckets]glyphBucket
	numGlyphs int

	pixelSize  int
	height     int
	ascent     int
	descent    int
	lineHeight float64

	shaper *shape.Shaper
	closed bool
}

// New opens the font file at path and creates a Font of the given pixel size.
// Face errors are returned as *FontLoadError.
func New(lib *rasterizer.Library, path string, pointSize int, opts ...Option) (*Font, error) {
	if lib == nil {
		return nil, &FontLoadError{Path: path, Err: ErrNilLibrary}
	}
	face, err := lib.Open(path)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}
	return newFont(face, path, pointSize, opts)
}

// NewFromBytes creates a Font from in-memory font data.
func NewFromBytes(lib *rasterizer.Library, data []byte, pointSize int, opts ...Option) (*Font, error) {
	if lib == nil {
		return nil, &FontLoadError{Err: ErrNilLibrary}
	}
	face, err := lib.OpenBytes(data)
	if err != nil {
		return nil, &FontLoadError{Err: err}
	}
	return newFont(face, "", pointSize, opts)
}

func newFont(face rasterizer.Face, path string, pointSize int, opts []Option) (*Font, error) {
	cfg := defaultFontConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := face.SetPixelSize(pointSize); err != nil {
		_ = face.Close()
		return nil, &FontLoadError{Path: path, Err: err}
	}

	f := &Font{
		face:       face,
		pixelSize:  pointSize,
		lineHeight: cfg.lineHeight,
	}

	// Metrics come first so the atlas estimate sees the real height.
	m := face.Metrics()
	f.height = m.Height.Floor()
	f.ascent = m.Ascent.Floor()
	f.descent = m.Descent.Floor()

	size := cfg.textureSize
	if size.Width <= 0 || size.Height <= 0 {
		size = atlas.ChooseSize(f.height)
		logging.Logger().Debug("fontatlas: atlas size chosen",
			"height", f.height, "estimate", atlas.EstimateArea(f.height), "size", size.String())
	}

	device := cfg.device
	if device == nil {
		device = texture.NewMemoryDevice()
	}

	a, err := atlas.New(device, atlas.Config{
		Size:    size,
		Padding: cfg.padding,
		Format:  texture.FormatLuminanceAlpha,
		Filter:  cfg.filter,
	})
	if err != nil {
		_ = face.Close()
		return nil, fmt.Errorf("fontatlas: create atlas: %w", err)
	}
	f.atlas = a

	logging.Logger().Info("fontatlas: font loaded",
		"name", face.Name(), "size", pointSize, "height", f.height, "atlas", size.String())
	return f, nil
}

// Close releases the rasterizer face and all atlas textures together.
// Glyphs returned earlier must not be used afterwards. Closing twice is a no-op.
func (f *Font) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	errs := []error{f.atlas.Close(), f.face.Close()}
	for i := range f.buckets {
		f.buckets[i] = glyphBucket{}
	}
	f.numGlyphs = 0
	f.shaper = nil

	err := errors.Join(errs...)
	if err != nil {
		logging.Logger().Warn("fontatlas: font close", "err", err)
	}
	return err
}

// Name returns the font family name.
func (f *Font) Name() string { return f.face.Name() }

// PixelSize returns the size the face was rasterized at.
func (f *Font) PixelSize() int { return f.pixelSize }

// Height returns the distance between baselines reported by the face, in pixels.
func (f *Font) Height() int { return f.height }

// Ascent returns the distance from the baseline to the top of the face, in pixels.
func (f *Font) Ascent() int { return f.ascent }

// Descent returns the distance from the baseline to the bottom of the face,
// in pixels. It is negative for faces that extend below the baseline.
func (f *Font) Descent() int { return f.descent }

// Baseline returns the baseline offset, height/1.25 rounded to the nearest pixel.
func (f *Font) Baseline() int {
	return int(math.Floor(float64(f.height)/1.25 + 0.5))
}

// LineHeight returns the line height multiplier.
func (f *Font) LineHeight() float64 { return f.lineHeight }

// SetLineHeight sets the line height multiplier. Non-positive values are ignored.
func (f *Font) SetLineHeight(h float64) {
	if h > 0 {
		f.lineHeight = h
	}
}

// LineAdvance returns the vertical distance between consecutive lines,
// height × line height rounded to the nearest pixel.
func (f *Font) LineAdvance() int {
	return int(math.Floor(float64(f.height)*f.lineHeight + 0.5))
}

// SetFilter applies the sampling filter to every atlas texture. Textures
// added later inherit it.
func (f *Font) SetFilter(filter texture.Filter) error {
	if f.closed {
		return ErrFontClosed
	}
	return f.atlas.SetFilter(filter)
}

// Filter returns the sampling filter of the atlas.
func (f *Font) Filter() texture.Filter { return f.atlas.Filter() }

// NumTextures returns the number of atlas textures.
func (f *Font) NumTextures() int { return f.atlas.Len() }

// Texture returns the i-th atlas texture.
func (f *Font) Texture(i int) texture.Texture { return f.atlas.Texture(i) }

// TextureSize returns the size shared by all atlas textures.
func (f *Font) TextureSize() atlas.Size { return f.atlas.Size() }

// Atlas returns the underlying atlas for inspection.
func (f *Font) Atlas() *atlas.Atlas { return f.atlas }
