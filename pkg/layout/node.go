// Package layout describes the abstract, fixed-size layout tree produced by the
// card templates and computes box geometry for it.
//
// The model is a small subset of CSS flexbox: boxes stack their static
// children along a main axis (column or row), absolutely positioned children
// are placed by insets relative to their parent, and text nodes wrap on word
// boundaries using a Measurer supplied by the rasterizer.
package layout

import "strings"

// Kind identifies what a node draws.
type Kind int

const (
	Box Kind = iota
	Text
	Image
	PatternFill
)

func (k Kind) String() string {
	switch k {
	case Box:
		return "box"
	case Text:
		return "text"
	case Image:
		return "image"
	case PatternFill:
		return "pattern"
	default:
		return "unknown"
	}
}

// Position selects flow or inset placement.
type Position int

const (
	Static Position = iota
	Absolute
)

// Direction is the main axis of a box.
type Direction int

const (
	Column Direction = iota
	Row
)

// Justify distributes free space along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
)

// Align places children on the cross axis.
type Align int

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// TextAlign positions wrapped lines inside a text node.
type TextAlign int

const (
	TextLeft TextAlign = iota
	TextCenter
	TextRight
)

// Edges holds per-side lengths for padding and margin.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// All returns edges with the same length on every side.
func All(v float64) Edges { return Edges{v, v, v, v} }

// Sym returns edges with vertical length v and horizontal length h.
func Sym(v, h float64) Edges { return Edges{Top: v, Right: h, Bottom: v, Left: h} }

func (e Edges) horizontal() float64 { return e.Left + e.Right }
func (e Edges) vertical() float64   { return e.Top + e.Bottom }

// Rect is a computed frame in document units.
type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by e.
func (r Rect) Inset(e Edges) Rect {
	return Rect{
		X: r.X + e.Left,
		Y: r.Y + e.Top,
		W: r.W - e.horizontal(),
		H: r.H - e.vertical(),
	}
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Shadow is an unblurred text shadow.
type Shadow struct {
	OffsetX float64
	OffsetY float64
	Color   string
}

// Node is one element of the layout tree.
//
// Zero values mean "auto" for Width, Height and MaxWidth, "opaque" for
// Opacity and 1.2 for LineHeight. Color is inherited from the nearest
// ancestor that sets it.
type Node struct {
	ID   string
	Kind Kind

	Position                 Position
	Top, Right, Bottom, Left *float64

	Width, Height float64
	MaxWidth      float64
	Padding       Edges
	Margin        Edges
	// AutoMargin gives the node an auto margin on its main-start side,
	// absorbing the parent's free space before justification.
	AutoMargin bool

	Direction Direction
	Justify   Justify
	Align     Align
	Gap       float64

	// Background is a CSS color or linear-gradient() value.
	Background string
	Radius     float64
	Opacity    float64
	// Rotate is a clockwise rotation in degrees about the frame center.
	Rotate float64

	Text          string
	FontSize      float64
	FontWeight    int
	LineHeight    float64
	LetterSpacing float64
	Color         string
	TextAlign     TextAlign
	Uppercase     bool
	Shadow        *Shadow

	// Src is an image URL for Image nodes.
	Src string

	Pattern      Pattern
	PatternColor string

	Children []*Node

	// Filled by Compute.
	Frame Rect
	Lines []string
}

// Document is a fixed-size layout tree ready for rasterization.
type Document struct {
	Width  float64
	Height float64
	Root   *Node
}

// Px returns a pointer to v, for inset fields.
func Px(v float64) *float64 { return &v }

// Alpha returns the effective opacity of n.
func (n *Node) Alpha() float64 {
	if n.Opacity <= 0 || n.Opacity > 1 {
		return 1
	}
	return n.Opacity
}

// LineBox returns the height of one wrapped line.
func (n *Node) LineBox() float64 {
	lh := n.LineHeight
	if lh <= 0 {
		lh = 1.2
	}
	return n.FontSize * lh
}

// Content returns the text as it is painted.
func (n *Node) Content() string {
	if n.Uppercase {
		return strings.ToUpper(n.Text)
	}
	return n.Text
}
