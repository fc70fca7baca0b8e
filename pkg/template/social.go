package template

import (
	"strings"

	"github.com/xob0t/ogpix/pkg/layout"
)

var socialTitleTiers = []sizeTier{{over: 60, size: 46}, {over: 40, size: 54}}

// RenderSocial lays out a bold post card with the title on top and an
// avatar byline at the bottom.
func RenderSocial(f ContentFields, s ResolvedStyle) *layout.Document {
	root := &layout.Node{
		Direction: layout.Column,
		Justify:   layout.JustifySpaceBetween,
		Padding:   layout.Sym(70, 80),
	}

	decor := compose(
		func() *layout.Node {
			n := text("quote", "“", 220, 900)
			n.LineHeight = 1
			n.Opacity = 0.15
			return pinned(n, layout.Px(10), layout.Px(80), nil, nil)
		},
		when(s.Logo, func(src string) *layout.Node {
			return pinned(logo(src, 48, 24), nil, layout.Px(80), layout.Px(70), nil)
		}),
	)

	shadow := &layout.Shadow{OffsetY: 2, Color: "rgba(0,0,0,0.2)"}
	head := &layout.Node{
		ID:        "head",
		Kind:      layout.Box,
		Direction: layout.Column,
		Gap:       16,
		Children: compose(
			when(s.Tag, func(tag string) *layout.Node {
				return pillRow(tagPill(tag, s.Accent))
			}),
			func() *layout.Node {
				n := text("title", f.Title, titleSize(f.Title, s.FontSize, socialTitleTiers, 62), 900)
				n.LineHeight = 1.15
				n.MaxWidth = 960
				n.Shadow = shadow
				return n
			},
			when(f.Subtitle, func(sub string) *layout.Node {
				n := text("subtitle", sub, 28, 400)
				n.Opacity = 0.9
				n.LineHeight = 1.4
				n.MaxWidth = 960
				n.Shadow = &layout.Shadow{OffsetY: 1, Color: "rgba(0,0,0,0.15)"}
				return n
			}),
		),
	}

	byline := &layout.Node{
		ID:        "byline",
		Kind:      layout.Box,
		Direction: layout.Row,
		Align:     layout.AlignCenter,
		Gap:       16,
		Children: compose(
			func() *layout.Node { return avatar(f.Author, s.Accent, 56, 28) },
			func() *layout.Node { return socialNames(f) },
		),
	}

	return card(s, root, append(decor, head, byline)...)
}

func socialNames(f ContentFields) *layout.Node {
	names := compose(
		when(f.Author, func(author string) *layout.Node {
			return text("author", author, 22, 700)
		}),
		when(f.Handle, func(handle string) *layout.Node {
			n := text("handle", "@"+strings.TrimPrefix(handle, "@"), 18, 400)
			n.Opacity = 0.8
			return n
		}),
	)
	if len(names) == 0 {
		return nil
	}
	return &layout.Node{
		ID:        "names",
		Kind:      layout.Box,
		Direction: layout.Column,
		Align:     layout.AlignStart,
		Gap:       2,
		Children:  names,
	}
}
