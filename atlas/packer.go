package atlas

import (
	"errors"
	"fmt"
)

// Packer errors.
var (
	// ErrGlyphTooLarge is returned when a bitmap cannot fit even an empty texture.
	ErrGlyphTooLarge = errors.New("atlas: bitmap larger than texture")

	// ErrAtlasClosed is returned when operating on a closed atlas.
	ErrAtlasClosed = errors.New("atlas: atlas is closed")
)

// DefaultPadding is the number of empty texels kept between packed bitmaps.
const DefaultPadding = 1

// Placement is the location assigned to a bitmap.
type Placement struct {
	// Texture is the index of the texture in the atlas.
	Texture int

	// X, Y is the top-left texel of the bitmap.
	X, Y int
}

// Packer is a monotonic row packer over a sequence of equally sized textures.
//
// Bitmaps are placed left to right on the current row. A bitmap that does
// not fit horizontally starts a new row below the tallest bitmap of the
// current one; a row that does not fit vertically moves on to a fresh
// texture. Placements are never revisited.
type Packer struct {
	width   int
	height  int
	padding int

	x         int
	y         int
	rowHeight int
	texture   int
}

// NewPacker creates a packer for textures of the given size.
// Negative padding is treated as zero.
func NewPacker(width, height, padding int) *Packer {
	if padding < 0 {
		padding = 0
	}
	return &Packer{
		width:     width,
		height:    height,
		padding:   padding,
		x:         padding,
		y:         padding,
		rowHeight: padding,
	}
}

// Fits reports whether a w×h bitmap can ever be placed by this packer.
func (p *Packer) Fits(w, h int) bool {
	return w >= 0 && h >= 0 && w+2*p.padding <= p.width && h+2*p.padding <= p.height
}

// Next returns the placement that Place would return for a w×h bitmap,
// without changing the packer.
func (p *Packer) Next(w, h int) Placement {
	x, y, tex := p.x, p.y, p.texture
	if x+p.padding+w > p.width {
		x = p.padding
		y += p.rowHeight
	}
	if y+p.padding+h > p.height {
		x, y = p.padding, p.padding
		tex++
	}
	return Placement{Texture: tex, X: x, Y: y}
}

// Place assigns a position to a w×h bitmap and advances the cursor.
// The returned texture index is either the current one or the next one.
func (p *Packer) Place(w, h int) (Placement, error) {
	if !p.Fits(w, h) {
		return Placement{}, fmt.Errorf("%w: %dx%d in %dx%d with padding %d",
			ErrGlyphTooLarge, w, h, p.width, p.height, p.padding)
	}

	// Row full: wrap to the next row.
	if p.x+p.padding+w > p.width {
		p.x = p.padding
		p.y += p.rowHeight
		p.rowHeight = p.padding
	}

	// Texture full: continue on a fresh one.
	if p.y+p.padding+h > p.height {
		p.x = p.padding
		p.y = p.padding
		p.rowHeight = p.padding
		p.texture++
	}

	pl := Placement{Texture: p.texture, X: p.x, Y: p.y}
	p.x += w + p.padding
	p.rowHeight = max(p.rowHeight, h+p.padding)
	return pl, nil
}

// Cursor returns the current packing cursor and row height.
func (p *Packer) Cursor() (x, y, rowHeight int) {
	return p.x, p.y, p.rowHeight
}

// Texture returns the index of the texture currently being filled.
func (p *Packer) Texture() int { return p.texture }

// Size returns the texture dimensions.
func (p *Packer) Size() (width, height int) { return p.width, p.height }

// Padding returns the padding between bitmaps.
func (p *Packer) Padding() int { return p.padding }
