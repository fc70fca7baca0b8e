// merge.go - Merge caller style overrides onto template defaults.
package template

import (
	"strconv"
	"strings"

	"github.com/xob0t/ogpix/pkg/layout"
)

// ResolveStyle combines the palette of kind and theme with caller overrides.
// A non-empty override always wins. A font size that is not an integer in
// [1, MaxFontSize] is treated as absent, and an unknown pattern as none.
func ResolveStyle(kind Kind, theme Theme, custom CustomStyle) ResolvedStyle {
	p := paletteFor(kind, theme)

	style := ResolvedStyle{
		Background:   p.Background,
		TextColor:    p.Text,
		Accent:       p.Accent,
		PatternColor: p.PatternInk,
		PatternAlpha: p.PatternAlpha,
	}
	mergeStyle(&style, custom)

	return style
}

// mergeStyle applies non-empty overrides.
func mergeStyle(base *ResolvedStyle, over CustomStyle) {
	if v := strings.TrimSpace(over.Background); v != "" {
		base.Background = v
	}
	if v := strings.TrimSpace(over.Color); v != "" {
		base.TextColor = v
		base.PatternColor = v
	}
	if v := strings.TrimSpace(over.Accent); v != "" {
		base.Accent = v
	}
	if size, ok := parseFontSize(over.FontSize); ok {
		base.FontSize = size
	}
	if v := strings.TrimSpace(over.Logo); v != "" {
		base.Logo = v
	}
	if v := strings.TrimSpace(over.Tag); v != "" {
		base.Tag = v
	}
	base.Pattern = layout.ParsePattern(strings.TrimSpace(over.Pattern))
}

// MaxFontSize is the largest accepted title size. Larger values are treated
// as absent; glyph masks grow with the square of the size.
const MaxFontSize = 300

func parseFontSize(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > MaxFontSize {
		return 0, false
	}
	return n, true
}

// titleSize picks the title font size: the override when set, otherwise the
// first tier whose length limit the title exceeds.
func titleSize(title string, override int, tiers []sizeTier, base float64) float64 {
	if override > 0 {
		return float64(override)
	}
	n := len([]rune(title))
	for _, t := range tiers {
		if n > t.over {
			return t.size
		}
	}
	return base
}

// sizeTier applies size to titles longer than over runes.
type sizeTier struct {
	over int
	size float64
}
