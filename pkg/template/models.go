// Package template builds 1200×630 social card layouts from a small set of
// content fields and style overrides.
package template

import "github.com/xob0t/ogpix/pkg/layout"

// Card dimensions in layout units. Every template renders at this size.
const (
	Width  = 1200
	Height = 630
)

// ── Template selection ──

// Kind selects one of the built-in card layouts.
type Kind int

const (
	Blog Kind = iota
	Product
	Social
	Minimal
)

// Kinds lists every template in display order.
var Kinds = []Kind{Blog, Product, Social, Minimal}

// ParseKind maps a template name to a Kind. Matching is case-sensitive and
// anything unrecognized selects Blog.
func ParseKind(s string) Kind {
	switch s {
	case "product":
		return Product
	case "social":
		return Social
	case "minimal":
		return Minimal
	default:
		return Blog
	}
}

func (k Kind) String() string {
	switch k {
	case Product:
		return "product"
	case Social:
		return "social"
	case Minimal:
		return "minimal"
	default:
		return "blog"
	}
}

// Theme selects the light or dark palette of a template.
type Theme int

const (
	Dark Theme = iota
	Light
)

// ParseTheme maps "light" to Light; everything else is Dark.
func ParseTheme(s string) Theme {
	if s == "light" {
		return Light
	}
	return Dark
}

func (t Theme) String() string {
	if t == Light {
		return "light"
	}
	return "dark"
}

// ── Request types ──

// ContentFields holds the text a card displays. Empty strings are absent.
type ContentFields struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`
	Site     string `json:"site,omitempty"`
	Handle   string `json:"handle,omitempty"`
	Logo     string `json:"logo,omitempty"`
}

// CustomStyle carries caller overrides as raw parameter strings.
type CustomStyle struct {
	Background string `json:"bg,omitempty"`
	Color      string `json:"color,omitempty"`
	Accent     string `json:"accent,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
	Logo       string `json:"logo,omitempty"`
	Tag        string `json:"tag,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
}

// RenderRequest is everything needed to produce one card.
type RenderRequest struct {
	Kind        Kind
	Fields      ContentFields
	Theme       Theme
	Custom      CustomStyle
	Watermarked bool
}

// ── Resolved types ──

// ResolvedStyle is the final set of visual values for one render, after
// theme defaults and overrides are merged.
type ResolvedStyle struct {
	Background   string
	TextColor    string
	Accent       string
	FontSize     int // 0 means no override
	Pattern      layout.Pattern
	PatternColor string
	PatternAlpha float64
	Logo         string
	Tag          string
}

// Renderer turns content and a resolved style into a layout document.
type Renderer func(ContentFields, ResolvedStyle) *layout.Document
