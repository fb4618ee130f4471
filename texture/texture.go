// Package texture defines the GPU texture collaborator used by glyph atlases
// and provides a CPU-side implementation with a memory budget.
//
// Atlas code only talks to [Device] and [Texture]. A real engine backs them
// with its GPU layer; [MemoryDevice] keeps texels in host memory so atlases
// can be inspected, composited in software and tested without a GPU.
package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Texture-related errors.
var (
	// ErrTextureReleased is returned when operating on a released texture.
	ErrTextureReleased = errors.New("texture: texture has been released")

	// ErrRegionOutOfBounds is returned when an upload region is outside the texture.
	ErrRegionOutOfBounds = errors.New("texture: region is outside texture bounds")

	// ErrInvalidDimensions is returned for non-positive texture sizes.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrPixelDataSize is returned when an upload buffer does not match its region.
	ErrPixelDataSize = errors.New("texture: pixel data size does not match region")
)

// Format represents the texel layout of a texture.
type Format uint8

const (
	// FormatLuminanceAlpha stores two 8-bit channels per texel: luminance
	// followed by alpha. Glyph atlases write luminance 255 and the
	// rasterizer coverage as alpha.
	FormatLuminanceAlpha Format = iota

	// FormatRGBA8 is the standard RGBA format with 8 bits per channel.
	FormatRGBA8

	// FormatAlpha8 is a single-channel 8-bit format.
	FormatAlpha8
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatLuminanceAlpha:
		return "LA8"
	case FormatRGBA8:
		return "RGBA8"
	case FormatAlpha8:
		return "A8"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// BytesPerTexel returns the number of bytes per texel for the format.
func (f Format) BytesPerTexel() int {
	switch f {
	case FormatLuminanceAlpha:
		return 2
	case FormatAlpha8:
		return 1
	default:
		return 4
	}
}

// ToWGPUFormat converts to the WebGPU texture format with the same layout.
// Luminance-alpha has no direct WebGPU equivalent and maps to a two-channel
// RG format; samplers swizzle G into alpha.
func (f Format) ToWGPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatLuminanceAlpha:
		return gputypes.TextureFormatRG8Unorm
	case FormatAlpha8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// Filter describes how a texture is sampled when minified or magnified.
type Filter struct {
	Min gputypes.FilterMode
	Mag gputypes.FilterMode

	// Anisotropy is the maximum anisotropic filtering level. Values <= 1
	// disable anisotropic filtering.
	Anisotropy float32
}

// DefaultFilter returns linear minification and magnification.
func DefaultFilter() Filter {
	return Filter{
		Min:        gputypes.FilterModeLinear,
		Mag:        gputypes.FilterModeLinear,
		Anisotropy: 1,
	}
}

// NearestFilter returns nearest-neighbor sampling, suitable for pixel fonts.
func NearestFilter() Filter {
	return Filter{
		Min:        gputypes.FilterModeNearest,
		Mag:        gputypes.FilterModeNearest,
		Anisotropy: 1,
	}
}

// Extent returns the WebGPU extent of a single-layer 2D texture.
func Extent(width, height int) gputypes.Extent3D {
	//nolint:gosec // G115: dimensions are validated positive by callers
	return gputypes.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}
}

// Texture is a GPU texture handle as seen by the atlas.
type Texture interface {
	// Width returns the texture width in texels.
	Width() int

	// Height returns the texture height in texels.
	Height() int

	// Format returns the texel format.
	Format() Format

	// Upload writes a w×h block of tightly packed texels at (x, y).
	Upload(x, y, w, h int, pixels []byte) error

	// Filter returns the current sampling filter.
	Filter() Filter

	// SetFilter changes the sampling filter.
	SetFilter(f Filter) error

	// Close releases the texture. Using the texture afterwards fails with
	// ErrTextureReleased.
	Close() error
}

// Device creates textures.
type Device interface {
	// CreateTexture allocates a texture. Allocation failures (for example an
	// exhausted memory budget) are returned as errors and are not retryable.
	CreateTexture(width, height int, format Format) (Texture, error)
}

// checkRegion validates an upload region against texture bounds and buffer size.
func checkRegion(tw, th int, f Format, x, y, w, h int, pixels []byte) error {
	if x < 0 || y < 0 || w < 0 || h < 0 || x+w > tw || y+h > th {
		return fmt.Errorf("%w: region (%d,%d)+(%dx%d) exceeds texture bounds (%dx%d)",
			ErrRegionOutOfBounds, x, y, w, h, tw, th)
	}
	if want := w * h * f.BytesPerTexel(); len(pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelDataSize, len(pixels), want)
	}
	return nil
}
