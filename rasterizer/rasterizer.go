// Package rasterizer loads font faces and renders single glyphs to coverage
// bitmaps.
//
// A [Library] is the explicit rasterizer context: it owns every face it
// opens and tears them down on Close. Backends are pluggable through
// [RegisterBackend]; the default "ximage" backend uses
// golang.org/x/image/font/opentype.
//
// All metrics are 26.6 fixed point (1/64 pixel), matching
// golang.org/x/image/math/fixed.
package rasterizer

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/fontatlas/internal/logging"
)

// Sentinel errors for the rasterizer package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("rasterizer: empty font data")

	// ErrLibraryClosed is returned when opening a face on a closed library.
	ErrLibraryClosed = errors.New("rasterizer: library is closed")

	// ErrFaceClosed is returned when using a closed face.
	ErrFaceClosed = errors.New("rasterizer: face is closed")

	// ErrNoPixelSize is returned when loading a glyph before SetPixelSize.
	ErrNoPixelSize = errors.New("rasterizer: pixel size not set")

	// ErrInvalidPixelSize is returned for non-positive pixel sizes.
	ErrInvalidPixelSize = errors.New("rasterizer: invalid pixel size")
)

// GlyphMetrics holds per-glyph metrics in 26.6 fixed point.
type GlyphMetrics struct {
	// BearingX is the horizontal offset from the pen position to the left
	// edge of the bitmap.
	BearingX fixed.Int26_6

	// BearingY is the vertical offset from the baseline up to the top edge
	// of the bitmap (positive above the baseline).
	BearingY fixed.Int26_6

	// Advance is the horizontal pen movement after the glyph.
	Advance fixed.Int26_6
}

// SizeMetrics holds face metrics at the current pixel size, in 26.6 fixed point.
type SizeMetrics struct {
	// Height is the recommended distance between baselines.
	Height fixed.Int26_6

	// Ascent is the distance from the baseline to the top of the face (positive).
	Ascent fixed.Int26_6

	// Descent is the distance from the baseline to the bottom of the face.
	// It is negative for faces that extend below the baseline.
	Descent fixed.Int26_6
}

// Bitmap is a rendered glyph.
type Bitmap struct {
	// Code is the code point the bitmap was rendered for.
	Code rune

	// Width and Height are the bitmap size in pixels.
	Width, Height int

	// Pitch is the number of bytes between the starts of consecutive rows.
	Pitch int

	// Coverage holds one byte of coverage per pixel, rows Pitch bytes apart.
	Coverage []byte

	// Metrics are the glyph metrics.
	Metrics GlyphMetrics

	// Notdef reports that the face has no glyph for Code and the bitmap is
	// the face's placeholder glyph.
	Notdef bool
}

// CoverageAt returns the coverage of pixel (x, y).
func (b *Bitmap) CoverageAt(x, y int) byte {
	return b.Coverage[y*b.Pitch+x]
}

// Face is a font face that can be sized and rasterized.
//
// Faces are not safe for concurrent use.
type Face interface {
	// Name returns the font family name, or "" if unavailable.
	Name() string

	// Data returns the raw font file bytes. The slice must not be modified.
	Data() []byte

	// SetPixelSize sets the em size, in pixels, used by Metrics and LoadGlyph.
	SetPixelSize(px int) error

	// PixelSize returns the current pixel size, or 0 if unset.
	PixelSize() int

	// Metrics returns the face metrics at the current pixel size.
	Metrics() SizeMetrics

	// HasGlyph reports whether the face maps r to a real glyph.
	HasGlyph(r rune) bool

	// LoadGlyph renders r at the current pixel size. Code points without a
	// glyph render the face's notdef glyph; this is not an error.
	LoadGlyph(r rune) (*Bitmap, error)

	// Close releases the face.
	Close() error
}

// Backend parses font data into faces.
type Backend interface {
	// Parse parses font data (TTF or OTF) and returns a Face.
	Parse(data []byte) (Face, error)
}

// DefaultBackend is the name of the backend used when none is configured.
const DefaultBackend = "ximage"

// backends holds registered rasterizer backends.
var backends = map[string]Backend{
	DefaultBackend: ximageBackend{},
}

// RegisterBackend registers a rasterizer backend under name.
func RegisterBackend(name string, b Backend) {
	backends[name] = b
}

// getBackend returns the backend by name, or the default if not found.
func getBackend(name string) Backend {
	if b, ok := backends[name]; ok {
		return b
	}
	return backends[DefaultBackend]
}

// Option configures a Library.
type Option func(*libraryConfig)

type libraryConfig struct {
	backend string
}

// WithBackend selects a registered backend by name. Unknown names fall
// back to DefaultBackend.
func WithBackend(name string) Option {
	return func(c *libraryConfig) {
		c.backend = name
	}
}

// Library is a rasterizer context. Faces opened through a library are
// closed together with it.
//
// Library is safe for concurrent use; the faces it returns are not.
type Library struct {
	mu      sync.Mutex
	name    string
	backend Backend
	faces   map[*libraryFace]struct{}
	closed  bool
}

// NewLibrary creates a rasterizer context.
func NewLibrary(opts ...Option) *Library {
	cfg := libraryConfig{backend: DefaultBackend}
	for _, opt := range opts {
		opt(&cfg)
	}
	name := cfg.backend
	if _, ok := backends[name]; !ok {
		name = DefaultBackend
	}
	return &Library{
		name:    name,
		backend: getBackend(name),
		faces:   make(map[*libraryFace]struct{}),
	}
}

// Backend returns the name of the backend in use.
func (l *Library) Backend() string { return l.name }

// Open loads a face from a font file.
func (l *Library) Open(path string) (Face, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	// #nosec G304 -- font file path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rasterizer: read font file: %w", err)
	}
	return l.OpenBytes(data)
}

// OpenBytes loads a face from font data. The data is copied.
func (l *Library) OpenBytes(data []byte) (Face, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	face, err := l.backend.Parse(buf)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		_ = face.Close()
		return nil, ErrLibraryClosed
	}
	lf := &libraryFace{Face: face, lib: l}
	l.faces[lf] = struct{}{}

	logging.Logger().Debug("rasterizer: face opened", "backend", l.name, "name", face.Name())
	return lf, nil
}

func (l *Library) checkOpen() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLibraryClosed
	}
	return nil
}

// NumFaces returns the number of open faces.
func (l *Library) NumFaces() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.faces)
}

// Close closes all open faces and the library. Closing twice is a no-op.
func (l *Library) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	faces := l.faces
	l.faces = nil
	l.mu.Unlock()

	var errs []error
	for lf := range faces {
		if err := lf.Face.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Library) forget(lf *libraryFace) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.faces, lf)
}

// libraryFace unregisters itself from its library on Close.
type libraryFace struct {
	Face
	lib *Library
}

func (f *libraryFace) Close() error {
	f.lib.forget(f)
	return f.Face.Close()
}
