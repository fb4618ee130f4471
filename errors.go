package fontatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for the fontatlas package.
var (
	// ErrFontLoad matches every *FontLoadError via errors.Is.
	ErrFontLoad = errors.New("fontatlas: font load failed")

	// ErrFontClosed is returned when using a font after Close.
	ErrFontClosed = errors.New("fontatlas: font is closed")

	// ErrNilLibrary is returned when a font is created without a rasterizer library.
	ErrNilLibrary = errors.New("fontatlas: nil rasterizer library")
)

// FontLoadError is returned when a face cannot be opened or sized.
type FontLoadError struct {
	// Path is the font file path, or "" for in-memory data.
	Path string

	// Err is the underlying rasterizer error.
	Err error
}

func (e *FontLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("fontatlas: load font: %v", e.Err)
	}
	return fmt.Sprintf("fontatlas: load font %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FontLoadError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFontLoad.
func (e *FontLoadError) Is(target error) bool { return target == ErrFontLoad }
