package fontatlas

import (
	"fmt"

	"github.com/gogpu/fontatlas/internal/shape"
)

// ShapedWidth returns the width of text as shaped by HarfBuzz, in pixels.
// Unlike Width it applies kerning and ligatures. Text is shaped as a single
// left-to-right run.
func (f *Font) ShapedWidth(text string) (float64, error) {
	if f.closed {
		return 0, ErrFontClosed
	}
	if f.shaper == nil {
		s, err := shape.New(f.face.Data())
		if err != nil {
			return 0, fmt.Errorf("fontatlas: shaper: %w", err)
		}
		f.shaper = s
	}
	return f.shaper.Advance(text, float64(f.pixelSize)), nil
}
