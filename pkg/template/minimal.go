package template

import "github.com/xob0t/ogpix/pkg/layout"

var minimalTitleTiers = []sizeTier{{over: 50, size: 52}}

// RenderMinimal lays out a typographic card on a flat background.
func RenderMinimal(f ContentFields, s ResolvedStyle) *layout.Document {
	root := &layout.Node{
		Direction: layout.Column,
		Justify:   layout.JustifyCenter,
		Align:     layout.AlignStart,
		Padding:   layout.Sym(80, 100),
	}

	decor := compose(
		when(s.Logo, func(src string) *layout.Node {
			return pinned(logo(src, 40, 8), layout.Px(80), layout.Px(100), nil, nil)
		}),
	)

	content := compose(
		when(s.Tag, func(tag string) *layout.Node {
			n := text("tag", tag, 18, 700)
			n.Color = s.Accent
			n.Uppercase = true
			n.LetterSpacing = 2
			n.Margin.Bottom = 24
			return n
		}),
		func() *layout.Node {
			return &layout.Node{
				ID:         "accent-rule",
				Kind:       layout.Box,
				Width:      64,
				Height:     4,
				Background: s.Accent,
				Margin:     layout.Edges{Bottom: 32},
			}
		},
		func() *layout.Node {
			n := text("title", f.Title, titleSize(f.Title, s.FontSize, minimalTitleTiers, 72), 700)
			n.LineHeight = 1.15
			n.LetterSpacing = -2
			n.MaxWidth = 900
			return n
		},
		when(f.Subtitle, func(sub string) *layout.Node {
			n := text("subtitle", sub, 26, 400)
			n.Opacity = 0.5
			n.LineHeight = 1.4
			n.LetterSpacing = -0.5
			n.MaxWidth = 900
			n.Margin.Top = 20
			return n
		}),
		when(f.Site, func(site string) *layout.Node {
			n := text("site", site, 20, 400)
			n.Opacity = 0.3
			n.Padding.Top = 40
			n.AutoMargin = true
			return n
		}),
	)

	return card(s, root, append(decor, content...)...)
}
