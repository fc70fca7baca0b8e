// fonts.go - Font management with custom TTF support and embedded Go fonts.
// Uses golang.org/x/image/font/opentype. Parsed fonts are shared; faces are
// created per render because font.Face values are not safe for concurrent use.
package generator

import (
	"fmt"
	"log/slog"
	"os"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontManager holds the parsed font family used for every render.
type FontManager struct {
	regular *opentype.Font
	medium  *opentype.Font
	bold    *opentype.Font
}

// NewFontManager parses the embedded Go fonts. When customPath names a
// readable TTF/OTF file it replaces every weight; a bad custom font is
// logged and the embedded family is used instead.
func NewFontManager(customPath string) (*FontManager, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err == nil {
			var custom *opentype.Font
			custom, err = opentype.Parse(data)
			if err == nil {
				return &FontManager{regular: custom, medium: custom, bold: custom}, nil
			}
		}
		slog.Warn("could not load custom font, using default", "path", customPath, "error", err)
	}

	fm := &FontManager{}
	for _, f := range []struct {
		dst  **opentype.Font
		data []byte
		name string
	}{
		{&fm.regular, goregular.TTF, "regular"},
		{&fm.medium, gomedium.TTF, "medium"},
		{&fm.bold, gobold.TTF, "bold"},
	} {
		parsed, err := opentype.Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s font: %w", f.name, err)
		}
		*f.dst = parsed
	}
	return fm, nil
}

// forWeight maps a CSS weight to the closest available face.
func (fm *FontManager) forWeight(weight int) *opentype.Font {
	switch {
	case weight >= 700:
		return fm.bold
	case weight >= 500:
		return fm.medium
	default:
		return fm.regular
	}
}

// Faces is a per-render cache of sized faces. It implements layout.Measurer.
type Faces struct {
	fm    *FontManager
	cache map[faceKey]font.Face
}

type faceKey struct {
	size   float64
	weight int
}

// NewFaces returns an empty face cache backed by fm.
func (fm *FontManager) NewFaces() *Faces {
	return &Faces{fm: fm, cache: make(map[faceKey]font.Face)}
}

// Face returns a face for size and weight.
func (f *Faces) Face(size float64, weight int) (font.Face, error) {
	key := faceKey{size: size, weight: weightClass(weight)}
	if face, ok := f.cache[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(f.fm.forWeight(weight), &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	f.cache[key] = face
	return face, nil
}

func weightClass(weight int) int {
	switch {
	case weight >= 700:
		return 700
	case weight >= 500:
		return 500
	default:
		return 400
	}
}

// Advance returns the width of s including kerning and letter spacing after
// every character. Faces that cannot be created measure as zero.
func (f *Faces) Advance(s string, size float64, weight int, letterSpacing float64) float64 {
	face, err := f.Face(size, weight)
	if err != nil {
		return 0
	}
	var adv fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		a, ok := face.GlyphAdvance(r)
		if !ok {
			a, _ = face.GlyphAdvance('?')
		}
		adv += a
		prev = r
	}
	return float64(adv)/64 + letterSpacing*float64(utf8.RuneCountInString(s))
}

// Close releases every cached face.
func (f *Faces) Close() {
	for k, face := range f.cache {
		face.Close()
		delete(f.cache, k)
	}
}
