package fontatlas

import "strings"

// Wrap breaks text into lines no wider than maxWidth pixels and returns the
// line count together with the wrapped text.
//
// Paragraphs are separated by '\n' and words by ' '; runs of separators
// collapse. Words are placed greedily: a word that does not fit after the
// previous one starts a new line. The first word of a line is always
// placed, so a single word wider than maxWidth overflows rather than being
// split.
func (f *Font) Wrap(text string, maxWidth int) (int, string, error) {
	space, err := f.FindGlyph(' ')
	if err != nil {
		return 0, "", err
	}
	spaceWidth := space.Advance

	var sb strings.Builder
	sb.Grow(len(text))
	lines := 0

	for _, para := range strings.FieldsFunc(text, isNewline) {
		if lines > 0 {
			sb.WriteByte('\n')
		}
		lines++

		lineWidth := 0
		lineStart := true
		for _, word := range strings.FieldsFunc(para, isSpace) {
			w, err := f.Width(word)
			if err != nil {
				return 0, "", err
			}
			switch {
			case lineStart:
				lineWidth = w
				lineStart = false
			case lineWidth+w+spaceWidth > maxWidth:
				sb.WriteByte('\n')
				lines++
				lineWidth = w
			default:
				sb.WriteByte(' ')
				lineWidth += w + spaceWidth
			}
			sb.WriteString(word)
		}
	}
	return lines, sb.String(), nil
}

func isNewline(r rune) bool { return r == '\n' }

func isSpace(r rune) bool { return r == ' ' }
