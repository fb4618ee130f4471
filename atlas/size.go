package atlas

import "fmt"

// Size is a texture size in texels.
type Size struct {
	Width  int
	Height int
}

// Area returns Width*Height.
func (s Size) Area() int { return s.Width * s.Height }

// String returns "WxH".
func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// textureSizes is ascending by area. The last entry is used when nothing fits.
var textureSizes = [...]Size{
	{128, 128},
	{128, 256},
	{256, 256},
	{256, 512},
	{512, 512},
	{512, 1024},
	{1024, 1024},
}

// glyphAreaFactor approximates how many line-height squares a typical
// glyph set needs.
const glyphAreaFactor = 80

// TextureSizes returns the table ChooseSize picks from.
func TextureSizes() []Size {
	return textureSizes[:]
}

// EstimateArea returns the texel area expected for a font whose lines are
// lineHeight pixels tall.
func EstimateArea(lineHeight int) int {
	return lineHeight * lineHeight * glyphAreaFactor
}

// ChooseSize returns the smallest table size whose area holds
// EstimateArea(lineHeight), or the largest size when none does.
func ChooseSize(lineHeight int) Size {
	est := EstimateArea(lineHeight)
	for _, s := range textureSizes {
		if est <= s.Area() {
			return s
		}
	}
	return textureSizes[len(textureSizes)-1]
}
