// Package fontatlas renders UTF-8 text from a glyph atlas.
//
// # Overview
//
// A Font pairs a rasterizer face at a fixed pixel size with a cache of
// glyph records and the atlas textures holding their bitmaps. Glyphs are
// rasterized on first use, packed row by row into fixed-size textures and
// then reused for every later measurement, wrap or draw. When the active
// texture is full a new one of the same size is added; glyphs already
// handed out keep their texture and coordinates.
//
// # Quick Start
//
//	lib := rasterizer.NewLibrary()
//	defer lib.Close()
//
//	f, err := fontatlas.New(lib, "DejaVuSans.ttf", 16)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	lines, wrapped, err := f.Wrap("The quick brown fox", 120)
//	canvas := quad.NewCanvas(128, lines*f.LineAdvance()+f.Height())
//	err = f.Render(canvas, wrapped, 0, 0)
//
// # Architecture
//
// The module is organized into:
//   - fontatlas: Font, glyph cache, measurement, wrapping and layout
//   - rasterizer: font faces and glyph bitmaps (golang.org/x/image/font/opentype)
//   - atlas: row packer and texture set
//   - texture: texture device abstraction and an in-memory implementation
//   - quad: software QuadDrawer compositing onto an image.RGBA
//
// # Coordinate System
//
// Layout uses pixel coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - BearingY is measured upwards from the baseline
//
// # Concurrency
//
// A Font is not safe for concurrent use. Measurement, wrapping and
// rendering may all insert into its glyph cache.
package fontatlas
