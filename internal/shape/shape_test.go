package shape

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestNew_InvalidData(t *testing.T) {
	if _, err := New([]byte("not a font")); err == nil {
		t.Error("New() with invalid data should fail")
	}
}

func TestShaper_Empty(t *testing.T) {
	s, err := New(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	if run := s.Shape("", 16); run.Advance != 0 || run.Glyphs != 0 {
		t.Errorf("Shape(\"\") = %+v, want zero", run)
	}
}

func TestShaper_Advance(t *testing.T) {
	s, err := New(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	small := s.Advance("Hello", 16)
	if small <= 0 {
		t.Fatalf("Advance(Hello, 16) = %v, want > 0", small)
	}
	large := s.Advance("Hello", 32)
	if large <= small {
		t.Errorf("Advance at 32px (%v) should exceed 16px (%v)", large, small)
	}
	if run := s.Shape("Hello", 16); run.Glyphs != 5 {
		t.Errorf("Glyphs = %d, want 5", run.Glyphs)
	}
}

func TestShaper_Monospace(t *testing.T) {
	s, err := New(gomono.TTF)
	if err != nil {
		t.Fatal(err)
	}
	one := s.Advance("m", 20)
	four := s.Advance("iiii", 20)
	if diff := four - 4*one; diff > 0.5 || diff < -0.5 {
		t.Errorf("monospace advance: 4×m = %v, iiii = %v", 4*one, four)
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name  string
		runes []rune
		want  language.Script
	}{
		{"latin", []rune("abc"), language.Latin},
		{"leading space", []rune("  abc"), language.Latin},
		{"empty", nil, language.Latin},
		{"cyrillic", []rune("Привет"), language.Cyrillic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectScript(tt.runes); got != tt.want {
				t.Errorf("detectScript() = %v, want %v", got, tt.want)
			}
		})
	}
}
