package fontatlas

// Width returns the sum of the advances of every code point in text, in
// pixels. Newlines contribute their own advance; use Wrap or Lines for
// multi-line layout.
func (f *Font) Width(text string) (int, error) {
	width := 0
	for r := range Runes(text) {
		g, err := f.FindGlyph(r)
		if err != nil {
			return 0, err
		}
		width += g.Advance
	}
	return width, nil
}

// Lines returns the number of lines Render would lay text out on.
// The empty string has no lines.
func (f *Font) Lines(text string) int {
	lines := 0
	for r := range Runes(text) {
		if lines == 0 {
			lines = 1
		}
		if r == '\n' {
			lines++
		}
	}
	return lines
}

// TextHeight returns the vertical extent of text, its line count times
// LineAdvance.
func (f *Font) TextHeight(text string) int {
	return f.Lines(text) * f.LineAdvance()
}
