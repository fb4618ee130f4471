package texture

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fontatlas/internal/logging"
)

// ErrMemoryBudgetExceeded is returned when an allocation would exceed the
// device budget. Atlases treat it as fatal and propagate it.
var ErrMemoryBudgetExceeded = errors.New("texture: memory budget exceeded")

// DefaultBudgetBytes is the default MemoryDevice budget (64 MB).
const DefaultBudgetBytes = 64 * 1024 * 1024

// MemoryStats contains MemoryDevice usage statistics.
type MemoryStats struct {
	// BudgetBytes is the total budget in bytes.
	BudgetBytes uint64

	// UsedBytes is the currently allocated memory in bytes.
	UsedBytes uint64

	// TextureCount is the number of live textures.
	TextureCount int
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%d/%d KB, %d textures]",
		s.UsedBytes/1024, s.BudgetBytes/1024, s.TextureCount)
}

// MemoryOption configures a MemoryDevice.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	budget uint64
}

// WithBudget sets the total number of texel bytes the device may hold.
// Non-positive values keep the default.
func WithBudget(bytes int) MemoryOption {
	return func(c *memoryConfig) {
		if bytes > 0 {
			c.budget = uint64(bytes)
		}
	}
}

// MemoryDevice is a Device that keeps texels in host memory and enforces
// a byte budget in place of GPU memory limits.
//
// MemoryDevice is safe for concurrent use, so one device can back several fonts.
type MemoryDevice struct {
	mu       sync.Mutex
	budget   uint64
	used     uint64
	textures int
	nextID   uint64
}

// NewMemoryDevice creates a CPU-side texture device.
func NewMemoryDevice(opts ...MemoryOption) *MemoryDevice {
	cfg := memoryConfig{budget: DefaultBudgetBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &MemoryDevice{budget: cfg.budget}
}

// CreateTexture implements Device.
func (d *MemoryDevice) CreateTexture(width, height int, format Format) (Texture, error) {
	return d.NewTexture(width, height, format)
}

// NewTexture allocates a MemoryTexture. Texels start zeroed.
func (d *MemoryDevice) NewTexture(width, height int, format Format) (*MemoryTexture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	//nolint:gosec // G115: dimensions are validated positive
	size := uint64(width * height * format.BytesPerTexel())

	d.mu.Lock()
	if d.used+size > d.budget {
		used, budget := d.used, d.budget
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use",
			ErrMemoryBudgetExceeded, size, used, budget)
	}
	d.used += size
	d.textures++
	d.nextID++
	id := d.nextID
	d.mu.Unlock()

	logging.Logger().Debug("texture: allocated",
		"id", id, "width", width, "height", height, "format", format.String())

	return &MemoryTexture{
		device: d,
		id:     id,
		width:  width,
		height: height,
		format: format,
		size:   size,
		pix:    make([]byte, size),
		filter: DefaultFilter(),
	}, nil
}

// Stats returns current usage statistics.
func (d *MemoryDevice) Stats() MemoryStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return MemoryStats{
		BudgetBytes:  d.budget,
		UsedBytes:    d.used,
		TextureCount: d.textures,
	}
}

func (d *MemoryDevice) release(size uint64) {
	d.mu.Lock()
	d.used -= size
	d.textures--
	d.mu.Unlock()
}

// MemoryTexture is a texture stored in host memory.
//
// MemoryTexture is not safe for concurrent writes.
type MemoryTexture struct {
	device *MemoryDevice
	id     uint64
	width  int
	height int
	format Format
	size   uint64
	pix    []byte
	filter Filter

	uploads  int
	released atomic.Bool
}

// ID returns a device-unique identifier for the texture.
func (t *MemoryTexture) ID() uint64 { return t.id }

// Width implements Texture.
func (t *MemoryTexture) Width() int { return t.width }

// Height implements Texture.
func (t *MemoryTexture) Height() int { return t.height }

// Format implements Texture.
func (t *MemoryTexture) Format() Format { return t.format }

// SizeBytes returns the texel storage size.
func (t *MemoryTexture) SizeBytes() uint64 { return t.size }

// Uploads returns the number of successful Upload calls.
func (t *MemoryTexture) Uploads() int { return t.uploads }

// IsReleased returns true if the texture has been closed.
func (t *MemoryTexture) IsReleased() bool { return t.released.Load() }

// Upload implements Texture.
func (t *MemoryTexture) Upload(x, y, w, h int, pixels []byte) error {
	if t.released.Load() {
		return ErrTextureReleased
	}
	if err := checkRegion(t.width, t.height, t.format, x, y, w, h, pixels); err != nil {
		return err
	}

	bpt := t.format.BytesPerTexel()
	rowBytes := w * bpt
	stride := t.width * bpt
	for row := 0; row < h; row++ {
		dst := (y+row)*stride + x*bpt
		copy(t.pix[dst:dst+rowBytes], pixels[row*rowBytes:(row+1)*rowBytes])
	}
	t.uploads++
	return nil
}

// Filter implements Texture.
func (t *MemoryTexture) Filter() Filter { return t.filter }

// SetFilter implements Texture.
func (t *MemoryTexture) SetFilter(f Filter) error {
	if t.released.Load() {
		return ErrTextureReleased
	}
	t.filter = f
	return nil
}

// Pix returns the raw texel bytes, row-major with a stride of
// Width()*Format().BytesPerTexel(). The slice aliases texture storage.
func (t *MemoryTexture) Pix() []byte { return t.pix }

// Texel returns the bytes of the texel at (x, y).
func (t *MemoryTexture) Texel(x, y int) []byte {
	bpt := t.format.BytesPerTexel()
	off := (y*t.width + x) * bpt
	return t.pix[off : off+bpt]
}

// Alpha returns the alpha channel as an image. For luminance-alpha textures
// this is the glyph coverage.
func (t *MemoryTexture) Alpha() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, t.width, t.height))
	bpt := t.format.BytesPerTexel()
	for i := range img.Pix {
		img.Pix[i] = t.pix[i*bpt+bpt-1]
	}
	return img
}

// NRGBA returns the texture as a non-premultiplied RGBA image.
func (t *MemoryTexture) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.width, t.height))
	bpt := t.format.BytesPerTexel()
	for i := 0; i < t.width*t.height; i++ {
		src := t.pix[i*bpt : i*bpt+bpt]
		dst := img.Pix[i*4 : i*4+4]
		switch t.format {
		case FormatLuminanceAlpha:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		case FormatAlpha8:
			dst[0], dst[1], dst[2], dst[3] = 255, 255, 255, src[0]
		default:
			copy(dst, src)
		}
	}
	return img
}

// Close implements Texture. Closing twice is a no-op.
func (t *MemoryTexture) Close() error {
	if t.released.Swap(true) {
		return nil
	}
	t.device.release(t.size)
	t.pix = nil
	return nil
}

// String returns a string representation of the texture.
func (t *MemoryTexture) String() string {
	status := "active"
	if t.released.Load() {
		status = "released"
	}
	return fmt.Sprintf("MemoryTexture[#%d %dx%d %s %d bytes %s]",
		t.id, t.width, t.height, t.format, t.size, status)
}
