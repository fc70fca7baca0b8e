package template

import "github.com/xob0t/ogpix/pkg/layout"

var blogTitleTiers = []sizeTier{{over: 60, size: 48}}

// RenderBlog lays out an article card: site label, large title, subtitle and
// an author/date footer, with an accent bar and a decorative disc.
func RenderBlog(f ContentFields, s ResolvedStyle) *layout.Document {
	root := &layout.Node{
		Direction: layout.Column,
		Justify:   layout.JustifyCenter,
		Padding:   layout.All(80),
	}

	decor := compose(
		func() *layout.Node {
			return &layout.Node{
				ID:         "accent-bar",
				Kind:       layout.Box,
				Position:   layout.Absolute,
				Top:        layout.Px(0),
				Left:       layout.Px(0),
				Right:      layout.Px(0),
				Height:     6,
				Background: s.Accent,
			}
		},
		func() *layout.Node {
			return circle("disc", 420, s.Accent, 0.12, layout.Px(-120), layout.Px(-120), nil, nil)
		},
		when(s.Logo, func(src string) *layout.Node {
			return pinned(logo(src, 56, 12), layout.Px(60), layout.Px(80), nil, nil)
		}),
	)

	content := compose(
		when(s.Tag, func(tag string) *layout.Node {
			row := pillRow(tagPill(tag, s.Accent))
			row.Margin.Bottom = 24
			return row
		}),
		when(f.Site, func(site string) *layout.Node {
			n := text("site", site, 24, 400)
			n.Opacity = 0.8
			n.Uppercase = true
			n.LetterSpacing = 3
			n.Margin.Bottom = 20
			return n
		}),
		func() *layout.Node {
			n := text("title", f.Title, titleSize(f.Title, s.FontSize, blogTitleTiers, 64), 800)
			n.LineHeight = 1.2
			if f.Subtitle != "" {
				n.Margin.Bottom = 20
			}
			return n
		},
		when(f.Subtitle, func(sub string) *layout.Node {
			n := text("subtitle", sub, 28, 400)
			n.Opacity = 0.8
			n.LineHeight = 1.4
			n.Margin.Bottom = 30
			return n
		}),
		func() *layout.Node { return blogFooter(f, s) },
	)

	return card(s, root, append(decor, content...)...)
}

func blogFooter(f ContentFields, s ResolvedStyle) *layout.Node {
	items := compose(
		when(f.Author, func(author string) *layout.Node {
			return avatar(author, s.Accent, 48, 22)
		}),
		when(f.Author, func(author string) *layout.Node {
			return text("author", author, 22, 600)
		}),
		func() *layout.Node {
			if f.Author == "" || f.Date == "" {
				return nil
			}
			n := text("separator", "|", 22, 400)
			n.Opacity = 0.5
			return n
		},
		when(f.Date, func(date string) *layout.Node {
			n := text("date", date, 22, 400)
			n.Opacity = 0.7
			return n
		}),
	)
	if len(items) == 0 {
		return nil
	}
	return &layout.Node{
		ID:         "footer",
		Kind:       layout.Box,
		Direction:  layout.Row,
		Align:      layout.AlignCenter,
		Gap:        20,
		AutoMargin: true,
		Children:   items,
	}
}

// pillRow keeps a pill at its natural width inside a stretching column.
func pillRow(pill *layout.Node) *layout.Node {
	return &layout.Node{
		ID:        pill.ID + "-row",
		Kind:      layout.Box,
		Direction: layout.Row,
		Align:     layout.AlignStart,
		Children:  []*layout.Node{pill},
	}
}
