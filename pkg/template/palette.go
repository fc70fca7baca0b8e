// palette.go - Built-in colors for every template and theme.
package template

// palette is the default look of one template in one theme. The pattern is
// drawn with PatternInk at PatternAlpha.
type palette struct {
	Background   string
	Text         string
	Accent       string
	PatternInk   string
	PatternAlpha float64
}

const rainbow = "linear-gradient(to right, #3b82f6, #8b5cf6, #ec4899)"

var palettes = map[Kind]map[Theme]palette{
	Blog: {
		Dark: {
			Background:   "linear-gradient(135deg, #0f0f23 0%, #1a1a3e 50%, #2d1b69 100%)",
			Text:         "#ffffff",
			Accent:       "#8b5cf6",
			PatternInk:   "#ffffff",
			PatternAlpha: 0.06,
		},
		Light: {
			Background:   "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
			Text:         "#ffffff",
			Accent:       "#fbbf24",
			PatternInk:   "#ffffff",
			PatternAlpha: 0.08,
		},
	},
	Product: {
		Dark: {
			Background:   "linear-gradient(to bottom right, #111827, #1f2937)",
			Text:         "#ffffff",
			Accent:       rainbow,
			PatternInk:   "#ffffff",
			PatternAlpha: 0.05,
		},
		Light: {
			Background:   "linear-gradient(to bottom right, #f8fafc, #e2e8f0)",
			Text:         "#111827",
			Accent:       rainbow,
			PatternInk:   "#000000",
			PatternAlpha: 0.05,
		},
	},
	Social: {
		Dark: {
			Background:   "linear-gradient(135deg, #ff6b6b 0%, #ee5a24 25%, #f9ca24 50%, #6ab04c 75%, #22a6b3 100%)",
			Text:         "#ffffff",
			Accent:       "rgba(255,255,255,0.3)",
			PatternInk:   "#ffffff",
			PatternAlpha: 0.08,
		},
		Light: {
			Background:   "linear-gradient(135deg, #a29bfe 0%, #6c5ce7 50%, #fd79a8 100%)",
			Text:         "#ffffff",
			Accent:       "rgba(255,255,255,0.3)",
			PatternInk:   "#ffffff",
			PatternAlpha: 0.08,
		},
	},
	Minimal: {
		Dark: {
			Background:   "#000000",
			Text:         "#ffffff",
			Accent:       "#ffffff",
			PatternInk:   "#ffffff",
			PatternAlpha: 0.06,
		},
		Light: {
			Background:   "#ffffff",
			Text:         "#000000",
			Accent:       "#000000",
			PatternInk:   "#000000",
			PatternAlpha: 0.06,
		},
	},
}

func paletteFor(kind Kind, theme Theme) palette {
	if p, ok := palettes[kind][theme]; ok {
		return p
	}
	if p, ok := palettes[Blog][theme]; ok {
		return p
	}
	return palettes[Blog][Dark]
}
