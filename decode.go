package fontatlas

import (
	"iter"
	"unicode/utf8"
)

// Decoder yields the code points of a UTF-8 string one at a time.
// Decoding ends at the end of the string or at the first NUL byte.
// Malformed bytes decode to utf8.RuneError and consume one byte.
type Decoder struct {
	s   string
	pos int
}

// NewDecoder returns a Decoder positioned at the start of s.
func NewDecoder(s string) *Decoder {
	return &Decoder{s: s}
}

// Next returns the next code point, or ok == false at the end of input.
func (d *Decoder) Next() (r rune, ok bool) {
	if d.pos >= len(d.s) || d.s[d.pos] == 0 {
		return 0, false
	}
	r, n := utf8.DecodeRuneInString(d.s[d.pos:])
	d.pos += n
	return r, true
}

// Offset returns the byte offset of the next code point.
func (d *Decoder) Offset() int { return d.pos }

// Reset rewinds the decoder to the start of its string.
func (d *Decoder) Reset() { d.pos = 0 }

// Runes returns an iterator over the code points of s with Decoder
// semantics. Each range over the result starts a fresh decode.
func Runes(s string) iter.Seq[rune] {
	return func(yield func(rune) bool) {
		d := Decoder{s: s}
		for r, ok := d.Next(); ok; r, ok = d.Next() {
			if !yield(r) {
				return
			}
		}
	}
}
