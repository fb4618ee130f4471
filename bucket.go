package fontatlas

import (
	"iter"
	"slices"
)

// numBuckets is the number of glyph buckets per font, one per value of the
// low byte of a code point.
const numBuckets = 256

// glyphBucket holds the cached glyphs sharing a low byte, strictly
// ascending by Code.
type glyphBucket struct {
	glyphs []*Glyph
}

func bucketIndex(r rune) int {
	return int(uint32(r) & 0xFF)
}

// find scans for r and stops at the first code not below it. It returns the
// glyph on a hit, and otherwise the index where r belongs.
func (b *glyphBucket) find(r rune) (int, *Glyph) {
	for i, g := range b.glyphs {
		if g.Code == r {
			return i, g
		}
		if g.Code > r {
			return i, nil
		}
	}
	return len(b.glyphs), nil
}

func (b *glyphBucket) insert(i int, g *Glyph) {
	b.glyphs = slices.Insert(b.glyphs, i, g)
}

func (b *glyphBucket) sorted() bool {
	return slices.IsSortedFunc(b.glyphs, func(x, y *Glyph) int {
		return int(x.Code) - int(y.Code)
	}) && !b.hasDuplicates()
}

func (b *glyphBucket) hasDuplicates() bool {
	for i := 1; i < len(b.glyphs); i++ {
		if b.glyphs[i].Code == b.glyphs[i-1].Code {
			return true
		}
	}
	return false
}

// Glyphs iterates over the cached glyphs bucket by bucket, in ascending
// code order within each bucket.
func (f *Font) Glyphs() iter.Seq[*Glyph] {
	return func(yield func(*Glyph) bool) {
		for i := range f.buckets {
			for _, g := range f.buckets[i].glyphs {
				if !yield(g) {
					return
				}
			}
		}
	}
}
