package fontatlas

import (
	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/texture"
)

// Option configures Font creation.
// Use functional options to customize the atlas and layout.
//
// Example:
//
//	dev := texture.NewMemoryDevice()
//	f, err := fontatlas.New(lib, "DejaVuSans.ttf", 16,
//	    fontatlas.WithDevice(dev),
//	    fontatlas.WithFilter(texture.NearestFilter()),
//	)
type Option func(*fontConfig)

// fontConfig holds optional configuration for Font creation.
type fontConfig struct {
	device      texture.Device
	lineHeight  float64
	filter      texture.Filter
	textureSize atlas.Size
	padding     int
}

// defaultFontConfig returns the default font configuration.
func defaultFontConfig() fontConfig {
	return fontConfig{
		device:     nil, // a MemoryDevice is created if nil
		lineHeight: 1.0,
		filter:     texture.DefaultFilter(),
		padding:    atlas.DefaultPadding,
	}
}

// WithDevice sets the texture device that allocates atlas textures.
// By default each font gets its own texture.MemoryDevice.
func WithDevice(d texture.Device) Option {
	return func(c *fontConfig) {
		c.device = d
	}
}

// WithLineHeight sets the line height multiplier applied to the font
// height when advancing to a new line. Default: 1.0
func WithLineHeight(h float64) Option {
	return func(c *fontConfig) {
		if h > 0 {
			c.lineHeight = h
		}
	}
}

// WithFilter sets the sampling filter of the atlas textures.
func WithFilter(f texture.Filter) Option {
	return func(c *fontConfig) {
		c.filter = f
	}
}

// WithTextureSize fixes the atlas texture size instead of estimating it
// from the font height with atlas.ChooseSize.
func WithTextureSize(width, height int) Option {
	return func(c *fontConfig) {
		c.textureSize = atlas.Size{Width: width, Height: height}
	}
}

// WithPadding sets the padding between packed glyphs, in texels.
// Default: atlas.DefaultPadding
func WithPadding(p int) Option {
	return func(c *fontConfig) {
		c.padding = p
	}
}
