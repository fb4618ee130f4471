package fontatlas

import (
	"errors"
	"image"
	"testing"
)

type quadRecorder struct {
	quads []Quad
	err   error
	limit int
}

func (r *quadRecorder) DrawQuad(q Quad) error {
	if r.err != nil && len(r.quads) == r.limit {
		return r.err
	}
	r.quads = append(r.quads, q)
	return nil
}

func TestRender_Positions(t *testing.T) {
	f := newTestFont(t, 20)

	var rec quadRecorder
	if err := f.Render(&rec, "AB", 10, 20); err != nil {
		t.Fatal(err)
	}
	if len(rec.quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(rec.quads))
	}

	a, _ := f.FindGlyph('A')
	b, _ := f.FindGlyph('B')
	baseline := 20 + f.Height() + 1

	tests := []struct {
		q    Quad
		g    *Glyph
		x, y int
	}{
		{rec.quads[0], a, 10 + a.BearingX, baseline - a.BearingY},
		{rec.quads[1], b, 10 + a.Advance + b.BearingX, baseline - b.BearingY},
	}
	for i, tt := range tests {
		if tt.q.Glyph != tt.g {
			t.Errorf("quad %d glyph = %q, want %q", i, tt.q.Glyph.Code, tt.g.Code)
		}
		if tt.q.X != tt.x || tt.q.Y != tt.y {
			t.Errorf("quad %d at (%d,%d), want (%d,%d)", i, tt.q.X, tt.q.Y, tt.x, tt.y)
		}
		if tt.q.Texture != f.Texture(tt.g.Texture) {
			t.Errorf("quad %d texture mismatch", i)
		}
	}
}

func TestRender_Newline(t *testing.T) {
	f := newTestFont(t, 20, WithLineHeight(1.5))

	quads, err := f.AppendQuads(nil, "A\nA", 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2 (newline draws nothing)", len(quads))
	}
	if quads[1].X != quads[0].X {
		t.Errorf("second line starts at x %d, want %d", quads[1].X, quads[0].X)
	}
	if dy := quads[1].Y - quads[0].Y; dy != f.LineAdvance() {
		t.Errorf("line advance = %d, want %d", dy, f.LineAdvance())
	}
}

func TestRender_SpacesEmitQuads(t *testing.T) {
	f := newTestFont(t, 16)

	quads, err := f.AppendQuads(nil, "a b", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != 3 {
		t.Fatalf("got %d quads, want one per glyph", len(quads))
	}
	if !quads[1].Bounds().Empty() {
		t.Errorf("space quad bounds = %v, want empty", quads[1].Bounds())
	}
}

func TestAppendQuads_MatchesRender(t *testing.T) {
	f := newTestFont(t, 16)
	const text = "Hello,\nWorld!"

	var rec quadRecorder
	if err := f.Render(&rec, text, 3, 7); err != nil {
		t.Fatal(err)
	}
	prefix := []Quad{{}}
	quads, err := f.AppendQuads(prefix, text, 3, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(quads) != len(rec.quads)+1 {
		t.Fatalf("AppendQuads returned %d quads, want %d", len(quads)-1, len(rec.quads))
	}
	for i, q := range rec.quads {
		if quads[i+1] != q {
			t.Errorf("quad %d: AppendQuads %+v, Render %+v", i, quads[i+1], q)
		}
	}
}

func TestQuad_Rects(t *testing.T) {
	g := &Glyph{Width: 4, Height: 6, TexX: 10, TexY: 20}
	q := Quad{Glyph: g, X: 1, Y: 2}
	if got, want := q.Bounds(), image.Rect(1, 2, 5, 8); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	if got, want := q.Source(), image.Rect(10, 20, 14, 26); got != want {
		t.Errorf("Source() = %v, want %v", got, want)
	}
}

func TestRender_Errors(t *testing.T) {
	f := newTestFont(t, 16)

	boom := errors.New("boom")
	rec := quadRecorder{err: boom, limit: 1}
	if err := f.Render(&rec, "abc", 0, 0); !errors.Is(err, boom) {
		t.Errorf("Render() error = %v, want drawer error", err)
	}
	if len(rec.quads) != 1 {
		t.Errorf("drawer received %d quads before failing, want 1", len(rec.quads))
	}

	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Render(&quadRecorder{}, "abc", 0, 0); !errors.Is(err, ErrFontClosed) {
		t.Errorf("Render() on closed font error = %v, want ErrFontClosed", err)
	}
}
