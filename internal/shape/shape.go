// Package shape measures text with the go-text/typesetting HarfBuzz shaper.
package shape

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Shaper shapes left-to-right runs of a single font.
// It is not safe for concurrent use.
type Shaper struct {
	face *font.Face
	hb   shaping.HarfbuzzShaper
}

// Run is the result of shaping one string.
type Run struct {
	// Advance is the total pen advance in pixels.
	Advance float64

	// Glyphs is the number of glyphs after substitution. Ligatures make it
	// smaller than the rune count.
	Glyphs int
}

// New parses TrueType/OpenType data for shaping.
func New(data []byte) (*Shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("shape: parse font: %w", err)
	}
	return &Shaper{face: face}, nil
}

// Shape shapes text at size pixels per em.
func (s *Shaper) Shape(text string, size float64) Run {
	runes := []rune(text)
	if len(runes) == 0 {
		return Run{}
	}

	out := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	})

	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.Advance
	}
	return Run{Advance: fixedToFloat(adv), Glyphs: len(out.Glyphs)}
}

// Advance returns the shaped width of text at size pixels per em.
func (s *Shaper) Advance(text string, size float64) float64 {
	return s.Shape(text, size).Advance
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func floatToFixed(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
