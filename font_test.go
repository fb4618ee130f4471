package fontatlas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/rasterizer"
	"github.com/gogpu/fontatlas/texture"
	"golang.org/x/image/font/gofont/goregular"
)

// newTestFont creates a Go Regular font of the given pixel size that is
// closed with the test.
func newTestFont(t *testing.T, px int, opts ...Option) *Font {
	t.Helper()
	lib := rasterizer.NewLibrary()
	t.Cleanup(func() { _ = lib.Close() })

	f, err := NewFromBytes(lib, goregular.TTF, px, opts...)
	if err != nil {
		t.Fatalf("NewFromBytes(%d) error = %v", px, err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	lib := rasterizer.NewLibrary()
	defer lib.Close()

	f, err := New(lib, path, 16)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer f.Close()

	if f.Name() != "Go" {
		t.Errorf("Name() = %q, want Go", f.Name())
	}
	if f.PixelSize() != 16 {
		t.Errorf("PixelSize() = %d, want 16", f.PixelSize())
	}
	if f.Height() <= 0 || f.Ascent() <= 0 {
		t.Errorf("Height() = %d, Ascent() = %d, want both > 0", f.Height(), f.Ascent())
	}
	if f.Descent() >= 0 {
		t.Errorf("Descent() = %d, want < 0", f.Descent())
	}
	if f.NumTextures() != 1 {
		t.Errorf("NumTextures() = %d, want 1", f.NumTextures())
	}
	if got, want := f.TextureSize(), atlas.ChooseSize(f.Height()); got != want {
		t.Errorf("TextureSize() = %v, want %v", got, want)
	}
	if f.Texture(0).Format() != texture.FormatLuminanceAlpha {
		t.Errorf("texture format = %v, want LA8", f.Texture(0).Format())
	}
}

func TestNew_Errors(t *testing.T) {
	lib := rasterizer.NewLibrary()
	defer lib.Close()

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.ttf")
		_, err := New(lib, path, 16)

		var loadErr *FontLoadError
		if !errors.As(err, &loadErr) {
			t.Fatalf("New() error = %v, want *FontLoadError", err)
		}
		if loadErr.Path != path {
			t.Errorf("Path = %q, want %q", loadErr.Path, path)
		}
		if !errors.Is(err, ErrFontLoad) {
			t.Error("error should match ErrFontLoad")
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Error("error should unwrap to os.ErrNotExist")
		}
	})

	t.Run("corrupt data", func(t *testing.T) {
		_, err := NewFromBytes(lib, []byte("not a font"), 16)
		if !errors.Is(err, ErrFontLoad) {
			t.Errorf("NewFromBytes() error = %v, want ErrFontLoad", err)
		}
	})

	t.Run("nil library", func(t *testing.T) {
		_, err := New(nil, "font.ttf", 16)
		if !errors.Is(err, ErrNilLibrary) || !errors.Is(err, ErrFontLoad) {
			t.Errorf("New(nil) error = %v, want ErrNilLibrary and ErrFontLoad", err)
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := NewFromBytes(lib, goregular.TTF, 0)
		if !errors.Is(err, rasterizer.ErrInvalidPixelSize) {
			t.Errorf("NewFromBytes(size 0) error = %v, want ErrInvalidPixelSize", err)
		}
		if lib.NumFaces() != 0 {
			t.Errorf("failed load left %d open faces", lib.NumFaces())
		}
	})

	t.Run("device budget", func(t *testing.T) {
		dev := texture.NewMemoryDevice(texture.WithBudget(1024))
		_, err := NewFromBytes(lib, goregular.TTF, 16, WithDevice(dev))
		if !errors.Is(err, texture.ErrMemoryBudgetExceeded) {
			t.Errorf("error = %v, want ErrMemoryBudgetExceeded", err)
		}
		if errors.Is(err, ErrFontLoad) {
			t.Error("device failure should not be reported as a font load error")
		}
	})
}

func TestFontLoadError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *FontLoadError
		want string
	}{
		{"with path", &FontLoadError{Path: "a.ttf", Err: errors.New("boom")}, `fontatlas: load font "a.ttf": boom`},
		{"in memory", &FontLoadError{Err: errors.New("boom")}, "fontatlas: load font: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFont_Baseline(t *testing.T) {
	for _, px := range []int{8, 12, 16, 24, 40} {
		f := newTestFont(t, px)
		h := f.Height()
		// floor(h/1.25 + 0.5) in integer arithmetic.
		want := (8*h + 5) / 10
		if got := f.Baseline(); got != want {
			t.Errorf("%dpx: Baseline() = %d, want %d (height %d)", px, got, want, h)
		}
	}
}

func TestFont_LineHeight(t *testing.T) {
	f := newTestFont(t, 20)
	if f.LineHeight() != 1.0 {
		t.Errorf("default LineHeight() = %v, want 1.0", f.LineHeight())
	}
	if f.LineAdvance() != f.Height() {
		t.Errorf("LineAdvance() = %d, want height %d", f.LineAdvance(), f.Height())
	}

	f.SetLineHeight(1.5)
	if f.LineHeight() != 1.5 {
		t.Errorf("LineHeight() = %v, want 1.5", f.LineHeight())
	}
	want := (3*f.Height() + 1) / 2
	if f.LineAdvance() != want {
		t.Errorf("LineAdvance() = %d, want %d", f.LineAdvance(), want)
	}

	f.SetLineHeight(0)
	if f.LineHeight() != 1.5 {
		t.Errorf("SetLineHeight(0) changed LineHeight to %v", f.LineHeight())
	}

	g := newTestFont(t, 20, WithLineHeight(2))
	if g.LineAdvance() != 2*g.Height() {
		t.Errorf("WithLineHeight(2): LineAdvance() = %d, want %d", g.LineAdvance(), 2*g.Height())
	}
}

func TestFont_Filter(t *testing.T) {
	f := newTestFont(t, 40, WithTextureSize(128, 128), WithFilter(texture.NearestFilter()))
	if f.Filter() != texture.NearestFilter() {
		t.Errorf("Filter() = %+v, want nearest", f.Filter())
	}

	if err := f.SetFilter(texture.DefaultFilter()); err != nil {
		t.Fatal(err)
	}
	// Grow the atlas; the new textures inherit the filter.
	for r := 'A'; r <= 'Z'; r++ {
		if _, err := f.FindGlyph(r); err != nil {
			t.Fatal(err)
		}
	}
	if f.NumTextures() < 2 {
		t.Fatalf("NumTextures() = %d, want growth", f.NumTextures())
	}
	for i := range f.NumTextures() {
		if got := f.Texture(i).Filter(); got != texture.DefaultFilter() {
			t.Errorf("texture %d filter = %+v, want linear", i, got)
		}
	}
}

func TestFont_Close(t *testing.T) {
	lib := rasterizer.NewLibrary()
	defer lib.Close()
	dev := texture.NewMemoryDevice()

	f, err := NewFromBytes(lib, goregular.TTF, 16, WithDevice(dev))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Width("hello"); err != nil {
		t.Fatal(err)
	}
	if dev.Stats().TextureCount != 1 {
		t.Fatalf("TextureCount = %d, want 1", dev.Stats().TextureCount)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if st := dev.Stats(); st.TextureCount != 0 || st.UsedBytes != 0 {
		t.Errorf("after Close: %v, want no textures", st)
	}
	if lib.NumFaces() != 0 {
		t.Errorf("NumFaces() = %d after Close, want 0", lib.NumFaces())
	}
	if f.NumGlyphs() != 0 {
		t.Errorf("NumGlyphs() = %d after Close, want 0", f.NumGlyphs())
	}
	if _, err := f.FindGlyph('a'); !errors.Is(err, ErrFontClosed) {
		t.Errorf("FindGlyph() after Close error = %v, want ErrFontClosed", err)
	}
	if err := f.SetFilter(texture.NearestFilter()); !errors.Is(err, ErrFontClosed) {
		t.Errorf("SetFilter() after Close error = %v, want ErrFontClosed", err)
	}
}
