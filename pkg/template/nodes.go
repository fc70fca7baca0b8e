// nodes.go - Small node builders shared by the card templates.
package template

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xob0t/ogpix/pkg/layout"
)

// builder produces one optional node, or nil when its input is absent.
type builder func() *layout.Node

// compose evaluates builders in order and keeps the nodes they return.
func compose(builders ...builder) []*layout.Node {
	nodes := make([]*layout.Node, 0, len(builders))
	for _, b := range builders {
		if n := b(); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// card returns the 1200×630 root of a template with the pattern overlay
// placed first.
func card(style ResolvedStyle, root *layout.Node, children ...*layout.Node) *layout.Document {
	root.ID = "root"
	root.Kind = layout.Box
	root.Width = Width
	root.Height = Height
	root.Background = style.Background
	root.Color = style.TextColor
	if overlay := PatternOverlay(style.Pattern, style.PatternColor, style.PatternAlpha); overlay != nil {
		root.Children = append(root.Children, overlay)
	}
	root.Children = append(root.Children, children...)
	return &layout.Document{Width: Width, Height: Height, Root: root}
}

// text returns a text node.
func text(id, s string, size float64, weight int) *layout.Node {
	return &layout.Node{ID: id, Kind: layout.Text, Text: s, FontSize: size, FontWeight: weight}
}

// when wraps a node constructor so it only runs for a non-empty value.
func when(value string, build func(string) *layout.Node) builder {
	return func() *layout.Node {
		if value == "" {
			return nil
		}
		return build(value)
	}
}

// circle returns an absolutely positioned translucent disc.
func circle(id string, size float64, fill string, opacity float64, top, right, bottom, left *float64) *layout.Node {
	return &layout.Node{
		ID:         id,
		Kind:       layout.Box,
		Position:   layout.Absolute,
		Top:        top,
		Right:      right,
		Bottom:     bottom,
		Left:       left,
		Width:      size,
		Height:     size,
		Radius:     size / 2,
		Background: fill,
		Opacity:    opacity,
	}
}

// tagPill is the rounded accent label used by Blog, Product and Social.
func tagPill(tag, accent string) *layout.Node {
	label := text("tag-label", tag, 18, 700)
	label.Uppercase = true
	label.LetterSpacing = 1.5
	label.LineHeight = 1
	return &layout.Node{
		ID:         "tag",
		Kind:       layout.Box,
		Background: accent,
		Radius:     20,
		Padding:    layout.Sym(8, 20),
		Children:   []*layout.Node{label},
	}
}

// avatar is a circular badge holding the initial of author.
func avatar(author, fill string, size, letterSize float64) *layout.Node {
	letter := text("avatar-letter", Initial(author), letterSize, 700)
	letter.LineHeight = 1
	return &layout.Node{
		ID:         "avatar",
		Kind:       layout.Box,
		Width:      size,
		Height:     size,
		Radius:     size / 2,
		Background: fill,
		Justify:    layout.JustifyCenter,
		Align:      layout.AlignCenter,
		Children:   []*layout.Node{letter},
	}
}

// Initial returns the upper-cased first character of name, or "U" when
// name is empty.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	r, _ := utf8.DecodeRuneInString(name)
	if name == "" || r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}

// logo returns a fixed-size image node for src.
func logo(src string, size, radius float64) *layout.Node {
	return &layout.Node{
		ID:     "logo",
		Kind:   layout.Image,
		Src:    src,
		Width:  size,
		Height: size,
		Radius: radius,
	}
}

// pinned sets absolute insets on n and returns it.
func pinned(n *layout.Node, top, right, bottom, left *float64) *layout.Node {
	n.Position = layout.Absolute
	n.Top, n.Right, n.Bottom, n.Left = top, right, bottom, left
	return n
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
