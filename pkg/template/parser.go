// parser.go - Template documentation and example manifest generation.
package template

// Field documents one parameter.
type Field struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Schema documents the content fields one template reads.
type Schema struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Fields      []Field `json:"fields"`
}

// Schemas documents every template.
var Schemas = map[Kind]Schema{
	Blog: {
		Name:        "blog",
		Description: "article card with site label, title, subtitle and author/date footer",
		Fields: []Field{
			{"title", "heading text (48 over 60 characters, else 64)"},
			{"subtitle", "summary line under the title"},
			{"author", "author name; also drives the avatar initial"},
			{"date", "publication date text"},
			{"site", "site name shown above the title"},
		},
	},
	Product: {
		Name:        "product",
		Description: "centered product launch card with optional logo",
		Fields: []Field{
			{"title", "product name (52 over 40 characters, else 68)"},
			{"subtitle", "tagline under the title"},
			{"logo", "logo image URL, 80×80"},
		},
	},
	Social: {
		Name:        "social",
		Description: "bold post card with avatar byline",
		Fields: []Field{
			{"title", "post text (46 over 60, 54 over 40, else 62)"},
			{"subtitle", "secondary line"},
			{"author", "display name; avatar shows its initial or U"},
			{"handle", "account handle, shown as @handle"},
		},
	},
	Minimal: {
		Name:        "minimal",
		Description: "typographic card on a flat background",
		Fields: []Field{
			{"title", "heading text (52 over 50 characters, else 72)"},
			{"subtitle", "secondary line"},
			{"site", "site name pinned to the bottom"},
		},
	},
}

// StyleFields documents the style overrides every template accepts.
var StyleFields = []Field{
	{"theme", "light or dark (default dark)"},
	{"bg", "background color or linear-gradient()"},
	{"color", "text color; also tints the pattern"},
	{"accent", "accent color or linear-gradient()"},
	{"fontSize", "title size override in units"},
	{"brandLogo", "logo image URL drawn by every template"},
	{"tag", "short label shown as a pill"},
	{"pattern", "dots, grid, diagonal or none"},
}

// ExampleManifest returns a sample batch manifest for `ogpix init`.
func ExampleManifest() string {
	return `{
  "defaults": {
    "theme": "dark",
    "site": "example.dev"
  },
  "cards": [
    {
      "output": "blog.png",
      "params": {
        "template": "blog",
        "title": "Rendering social cards in pure Go",
        "subtitle": "Layout, gradients and text without a browser",
        "author": "Ada Lovelace",
        "date": "Oct 19, 2026",
        "pattern": "dots"
      }
    },
    {
      "output": "product.png",
      "params": {
        "template": "product",
        "title": "ogpix",
        "subtitle": "Open Graph images from a URL",
        "tag": "New",
        "theme": "light"
      }
    },
    {
      "output": "social.png",
      "params": {
        "template": "social",
        "title": "Launch!",
        "author": "Alex",
        "handle": "alexdev"
      }
    },
    {
      "output": "minimal.png",
      "params": {
        "template": "minimal",
        "title": "Less, but better",
        "subtitle": "Notes on restraint",
        "pattern": "grid"
      }
    }
  ]
}
`
}
