// Command atlasdump wraps and renders text with fontatlas and writes the
// result and the glyph atlas textures as PNG files.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/quad"
	"github.com/gogpu/fontatlas/rasterizer"
	"github.com/gogpu/fontatlas/texture"
	"golang.org/x/image/font/gofont/goregular"
)

const margin = 8

func main() {
	var (
		fontPath = flag.String("font", "", "TrueType/OpenType font file (default: Go Regular)")
		size     = flag.Int("size", 16, "font size in pixels")
		text     = flag.String("text", "The quick brown fox jumps over the lazy dog.", "text to render")
		width    = flag.Int("width", 320, "wrap width in pixels")
		lineH    = flag.Float64("line-height", 1.0, "line height multiplier")
		nearest  = flag.Bool("nearest", false, "use nearest filtering for the atlas")
		scale    = flag.Float64("scale", 1, "canvas magnification")
		out      = flag.String("out", ".", "output directory")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fontatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*fontPath, *size, *text, *width, *lineH, *nearest, *scale, *out); err != nil {
		log.Fatalf("atlasdump: %v", err)
	}
}

func run(fontPath string, size int, text string, width int, lineHeight float64, nearest bool, scale float64, out string) error {
	lib := rasterizer.NewLibrary()
	defer lib.Close()

	dev := texture.NewMemoryDevice()
	opts := []fontatlas.Option{
		fontatlas.WithDevice(dev),
		fontatlas.WithLineHeight(lineHeight),
	}
	if nearest {
		opts = append(opts, fontatlas.WithFilter(texture.NearestFilter()))
	}

	var (
		f   *fontatlas.Font
		err error
	)
	if fontPath == "" {
		f, err = fontatlas.NewFromBytes(lib, goregular.TTF, size, opts...)
	} else {
		f, err = fontatlas.New(lib, fontPath, size, opts...)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	lines, wrapped, err := f.Wrap(text, width)
	if err != nil {
		return err
	}
	if scale <= 0 {
		scale = 1
	}
	w := int(float64(width+2*margin) * scale)
	h := int(float64(f.TextHeight(wrapped)+f.Height()+2*margin) * scale)

	canvas := quad.NewCanvas(w, h, quad.WithScale(scale))
	canvas.Clear(color.White)
	if err := f.Render(canvas, wrapped, margin, margin); err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	if err := writePNG(filepath.Join(out, "canvas.png"), canvas.Image()); err != nil {
		return err
	}
	for i := range f.NumTextures() {
		tex, ok := f.Texture(i).(*texture.MemoryTexture)
		if !ok {
			continue
		}
		if err := writePNG(filepath.Join(out, fmt.Sprintf("atlas-%d.png", i)), tex.NRGBA()); err != nil {
			return err
		}
	}

	fontatlas.Logger().Info("atlasdump: done",
		"lines", lines, "glyphs", f.NumGlyphs(), "textures", f.NumTextures(),
		"atlas", f.TextureSize().String(), "memory", dev.Stats().String(), "out", out)
	return nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		_ = file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}
