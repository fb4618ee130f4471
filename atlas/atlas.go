package atlas

import (
	"errors"
	"fmt"

	"github.com/gogpu/fontatlas/internal/logging"
	"github.com/gogpu/fontatlas/texture"
)

// Config holds atlas configuration.
type Config struct {
	// Size is the dimension of every texture in the atlas.
	Size Size

	// Padding between packed bitmaps, in texels.
	// Default: DefaultPadding
	Padding int

	// Format of the atlas textures.
	// Default: texture.FormatLuminanceAlpha
	Format texture.Format

	// Filter applied to the first texture. Later textures inherit the
	// filter of the texture before them.
	Filter texture.Filter
}

// DefaultConfig returns the configuration for a glyph atlas of the given size.
func DefaultConfig(size Size) Config {
	return Config{
		Size:    size,
		Padding: DefaultPadding,
		Format:  texture.FormatLuminanceAlpha,
		Filter:  texture.DefaultFilter(),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Size.Width <= 0 || c.Size.Height <= 0 {
		return &ConfigError{Field: "Size", Reason: "must be positive"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if 2*c.Padding >= c.Size.Width || 2*c.Padding >= c.Size.Height {
		return &ConfigError{Field: "Padding", Reason: "must leave room for bitmaps"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

// Atlas is a growing set of equally sized textures filled by a Packer.
//
// Textures are only ever appended; a placement handed out once stays valid
// until Close. Atlas is not safe for concurrent use.
type Atlas struct {
	device   texture.Device
	config   Config
	packer   *Packer
	textures []texture.Texture
	closed   bool
}

// New creates an atlas and allocates its first texture.
func New(device texture.Device, config Config) (*Atlas, error) {
	if device == nil {
		return nil, errors.New("atlas: nil texture device")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &Atlas{
		device: device,
		config: config,
		packer: NewPacker(config.Size.Width, config.Size.Height, config.Padding),
	}
	if err := a.addTexture(); err != nil {
		return nil, err
	}
	return a, nil
}

// addTexture appends a texture using the filter of the previous one.
func (a *Atlas) addTexture() error {
	tex, err := a.device.CreateTexture(a.config.Size.Width, a.config.Size.Height, a.config.Format)
	if err != nil {
		return fmt.Errorf("atlas: create texture %d: %w", len(a.textures), err)
	}

	filter := a.config.Filter
	if n := len(a.textures); n > 0 {
		filter = a.textures[n-1].Filter()
	}
	if err := tex.SetFilter(filter); err != nil {
		_ = tex.Close()
		return fmt.Errorf("atlas: set filter on texture %d: %w", len(a.textures), err)
	}

	a.textures = append(a.textures, tex)
	logging.Logger().Debug("atlas: texture added",
		"index", len(a.textures)-1, "size", a.config.Size.String())
	return nil
}

// Place reserves space for a w×h bitmap, allocating a new texture when the
// current one is full. A failed texture allocation leaves the atlas unchanged.
func (a *Atlas) Place(w, h int) (Placement, error) {
	if a.closed {
		return Placement{}, ErrAtlasClosed
	}
	if !a.packer.Fits(w, h) {
		return a.packer.Place(w, h)
	}

	if next := a.packer.Next(w, h); next.Texture >= len(a.textures) {
		if err := a.addTexture(); err != nil {
			return Placement{}, err
		}
	}
	return a.packer.Place(w, h)
}

// Upload writes texels for a placed w×h bitmap. Empty bitmaps are skipped.
func (a *Atlas) Upload(pl Placement, w, h int, pixels []byte) error {
	if a.closed {
		return ErrAtlasClosed
	}
	if w == 0 || h == 0 {
		return nil
	}
	if pl.Texture < 0 || pl.Texture >= len(a.textures) {
		return fmt.Errorf("atlas: placement texture %d out of range [0,%d)", pl.Texture, len(a.textures))
	}
	if err := a.textures[pl.Texture].Upload(pl.X, pl.Y, w, h, pixels); err != nil {
		return fmt.Errorf("atlas: upload to texture %d: %w", pl.Texture, err)
	}
	return nil
}

// Len returns the number of textures.
func (a *Atlas) Len() int { return len(a.textures) }

// Texture returns the i-th texture.
func (a *Atlas) Texture(i int) texture.Texture { return a.textures[i] }

// Textures returns all textures in allocation order.
func (a *Atlas) Textures() []texture.Texture { return a.textures }

// Size returns the texture size shared by all textures.
func (a *Atlas) Size() Size { return a.config.Size }

// Cursor returns the packer cursor.
func (a *Atlas) Cursor() (x, y, rowHeight int) { return a.packer.Cursor() }

// Padding returns the padding between bitmaps.
func (a *Atlas) Padding() int { return a.config.Padding }

// SetFilter applies f to every texture.
func (a *Atlas) SetFilter(f texture.Filter) error {
	if a.closed {
		return ErrAtlasClosed
	}
	for i, tex := range a.textures {
		if err := tex.SetFilter(f); err != nil {
			return fmt.Errorf("atlas: set filter on texture %d: %w", i, err)
		}
	}
	a.config.Filter = f
	return nil
}

// Filter returns the filter of the first texture.
func (a *Atlas) Filter() texture.Filter {
	if len(a.textures) == 0 {
		return a.config.Filter
	}
	return a.textures[0].Filter()
}

// Close releases all textures. Closing twice is a no-op.
func (a *Atlas) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for i, tex := range a.textures {
		if err := tex.Close(); err != nil {
			errs = append(errs, fmt.Errorf("atlas: close texture %d: %w", i, err))
		}
	}
	a.textures = nil
	return errors.Join(errs...)
}
