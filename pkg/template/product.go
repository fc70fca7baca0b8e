package template

import "github.com/xob0t/ogpix/pkg/layout"

var productTitleTiers = []sizeTier{{over: 40, size: 52}}

// RenderProduct lays out a centered launch card with an optional logo, a
// gradient top bar and two soft accent discs.
func RenderProduct(f ContentFields, s ResolvedStyle) *layout.Document {
	root := &layout.Node{
		Direction: layout.Column,
		Justify:   layout.JustifyCenter,
		Align:     layout.AlignCenter,
		Padding:   layout.Sym(60, 80),
	}

	decor := []*layout.Node{
		{
			ID:         "accent-bar",
			Kind:       layout.Box,
			Position:   layout.Absolute,
			Top:        layout.Px(0),
			Left:       layout.Px(0),
			Right:      layout.Px(0),
			Height:     4,
			Background: s.Accent,
		},
		circle("disc-top", 380, s.Accent, 0.08, layout.Px(-140), nil, nil, layout.Px(-140)),
		circle("disc-bottom", 460, s.Accent, 0.08, nil, layout.Px(-120), layout.Px(-180), nil),
	}

	content := compose(
		when(firstNonEmpty(s.Logo, f.Logo), func(src string) *layout.Node {
			n := logo(src, 80, 16)
			n.Margin.Bottom = 30
			return n
		}),
		when(s.Tag, func(tag string) *layout.Node {
			n := tagPill(tag, s.Accent)
			n.Margin.Bottom = 24
			return n
		}),
		func() *layout.Node {
			n := text("title", f.Title, titleSize(f.Title, s.FontSize, productTitleTiers, 68), 800)
			n.LineHeight = 1.1
			n.MaxWidth = 900
			n.TextAlign = layout.TextCenter
			return n
		},
		when(f.Subtitle, func(sub string) *layout.Node {
			n := text("subtitle", sub, 28, 400)
			n.Opacity = 0.7
			n.LineHeight = 1.4
			n.MaxWidth = 700
			n.Margin.Top = 20
			n.TextAlign = layout.TextCenter
			return n
		}),
	)

	return card(s, root, append(decor, content...)...)
}
