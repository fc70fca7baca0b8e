package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidTree is returned by Compute for documents that cannot be laid out.
var ErrInvalidTree = errors.New("invalid layout tree")

// Measurer reports the horizontal advance of a run of text.
type Measurer interface {
	Advance(text string, size float64, weight int, letterSpacing float64) float64
}

// Compute resolves inherited colors, fills Frame for every node and wraps
// the text of Text nodes into Lines. The root always receives the full
// document frame.
func Compute(doc *Document, m Measurer) error {
	if err := Validate(doc); err != nil {
		return err
	}
	inheritColor(doc.Root, "")
	c := &computer{m: m}
	c.place(doc.Root, Rect{W: doc.Width, H: doc.Height})
	return nil
}

// Validate reports structural problems with doc.
func Validate(doc *Document) error {
	if doc == nil || doc.Root == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidTree)
	}
	if !(doc.Width > 0) || !(doc.Height > 0) {
		return fmt.Errorf("%w: document size %vx%v", ErrInvalidTree, doc.Width, doc.Height)
	}
	var err error
	Walk(doc.Root, func(n *Node) bool {
		if err != nil {
			return false
		}
		err = validateNode(n)
		return err == nil
	})
	return err
}

func validateNode(n *Node) error {
	for _, v := range []float64{n.Width, n.Height, n.MaxWidth, n.FontSize, n.Gap, n.Radius} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: node %q has invalid length %v", ErrInvalidTree, n.ID, v)
		}
	}
	switch n.Kind {
	case Text:
		if len(n.Children) > 0 {
			return fmt.Errorf("%w: text node %q has children", ErrInvalidTree, n.ID)
		}
		if n.Text != "" && n.FontSize == 0 {
			return fmt.Errorf("%w: text node %q has no font size", ErrInvalidTree, n.ID)
		}
	case Image:
		if n.Width == 0 || n.Height == 0 {
			return fmt.Errorf("%w: image node %q needs a fixed size", ErrInvalidTree, n.ID)
		}
	}
	for _, c := range n.Children {
		if c == nil {
			return fmt.Errorf("%w: node %q has a nil child", ErrInvalidTree, n.ID)
		}
	}
	return nil
}

func inheritColor(n *Node, parent string) {
	if n.Color == "" {
		n.Color = parent
	}
	for _, c := range n.Children {
		inheritColor(c, n.Color)
	}
}

type computer struct {
	m Measurer
}

// wrap breaks text into lines no wider than limit. A single word wider
// than limit keeps its own line.
func (c *computer) wrap(n *Node, limit float64) []string {
	words := strings.Fields(n.Content())
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if c.advance(n, candidate) > limit {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}

func (c *computer) advance(n *Node, s string) float64 {
	if c.m == nil {
		return 0
	}
	return c.m.Advance(s, n.FontSize, n.FontWeight, n.LetterSpacing)
}

func (c *computer) textLimit(n *Node, avail float64) float64 {
	limit := avail
	if n.Width > 0 {
		limit = n.Width
	}
	if n.MaxWidth > 0 {
		limit = math.Min(limit, n.MaxWidth)
	}
	return limit - n.Padding.horizontal()
}

// natural returns the border-box width n wants when avail is offered.
func (c *computer) natural(n *Node, avail float64) float64 {
	if n.Width > 0 {
		return n.Width
	}
	var w float64
	switch n.Kind {
	case Text:
		for _, line := range c.wrap(n, c.textLimit(n, avail)) {
			w = math.Max(w, c.advance(n, line))
		}
		w += n.Padding.horizontal()
	case Box, PatternFill:
		inner := avail - n.Padding.horizontal()
		statics := flow(n)
		if n.Direction == Row {
			remaining := inner
			for i, ch := range statics {
				if i > 0 {
					w += n.Gap
					remaining -= n.Gap
				}
				cw := c.natural(ch, remaining-ch.Margin.horizontal()) + ch.Margin.horizontal()
				w += cw
				remaining -= cw
			}
		} else {
			for _, ch := range statics {
				w = math.Max(w, c.natural(ch, inner-ch.Margin.horizontal())+ch.Margin.horizontal())
			}
		}
		w += n.Padding.horizontal()
	}
	if n.MaxWidth > 0 {
		w = math.Min(w, n.MaxWidth)
	}
	return w
}

// heightFor returns the border-box height of n laid out at width w.
func (c *computer) heightFor(n *Node, w float64) float64 {
	if n.Height > 0 {
		return n.Height
	}
	switch n.Kind {
	case Text:
		lines := c.wrap(n, w-n.Padding.horizontal())
		return float64(len(lines))*n.LineBox() + n.Padding.vertical()
	case Image:
		return 0
	}
	inner := w - n.Padding.horizontal()
	widths := c.flowWidths(n, inner)
	statics := flow(n)
	var h float64
	for i, ch := range statics {
		chH := c.heightFor(ch, widths[i]) + ch.Margin.vertical()
		if n.Direction == Row {
			h = math.Max(h, chH)
			continue
		}
		h += chH
		if i > 0 {
			h += n.Gap
		}
	}
	return h + n.Padding.vertical()
}

// flowWidths returns the border-box widths of n's static children inside a
// content box of width inner.
func (c *computer) flowWidths(n *Node, inner float64) []float64 {
	statics := flow(n)
	widths := make([]float64, len(statics))
	if n.Direction == Row {
		remaining := inner
		for i, ch := range statics {
			if i > 0 {
				remaining -= n.Gap
			}
			widths[i] = c.natural(ch, remaining-ch.Margin.horizontal())
			remaining -= widths[i] + ch.Margin.horizontal()
		}
		return widths
	}
	for i, ch := range statics {
		avail := inner - ch.Margin.horizontal()
		switch {
		case ch.Width > 0:
			widths[i] = ch.Width
		case n.Align == AlignStretch && ch.Kind != Image:
			widths[i] = avail
			if ch.MaxWidth > 0 {
				widths[i] = math.Min(widths[i], ch.MaxWidth)
			}
		default:
			widths[i] = c.natural(ch, avail)
		}
	}
	return widths
}

func flow(n *Node) []*Node {
	var out []*Node
	for _, ch := range n.Children {
		if ch.Position == Static {
			out = append(out, ch)
		}
	}
	return out
}

func (c *computer) place(n *Node, frame Rect) {
	n.Frame = frame
	if n.Kind == Text {
		n.Lines = c.wrap(n, frame.W-n.Padding.horizontal())
		return
	}
	if len(n.Children) == 0 {
		return
	}
	content := frame.Inset(n.Padding)
	c.placeFlow(n, content)
	for _, ch := range n.Children {
		if ch.Position == Absolute {
			c.placeAbsolute(ch, frame)
		}
	}
}

func (c *computer) placeFlow(n *Node, content Rect) {
	statics := flow(n)
	if len(statics) == 0 {
		return
	}
	widths := c.flowWidths(n, content.W)
	heights := make([]float64, len(statics))
	for i, ch := range statics {
		heights[i] = c.heightFor(ch, widths[i])
		if n.Direction == Row && n.Align == AlignStretch && ch.Kind == Box && ch.Height == 0 {
			heights[i] = content.H - ch.Margin.vertical()
		}
	}

	mainSize, mainAvail := 0.0, content.H
	if n.Direction == Row {
		mainAvail = content.W
	}
	autos := 0
	for i, ch := range statics {
		if n.Direction == Row {
			mainSize += widths[i] + ch.Margin.horizontal()
		} else {
			mainSize += heights[i] + ch.Margin.vertical()
		}
		if ch.AutoMargin {
			autos++
		}
	}
	mainSize += n.Gap * float64(len(statics)-1)
	free := mainAvail - mainSize

	offset, between, autoShare := 0.0, n.Gap, 0.0
	switch {
	case autos > 0:
		if free > 0 {
			autoShare = free / float64(autos)
		}
	case n.Justify == JustifyCenter:
		offset = free / 2
	case n.Justify == JustifyEnd:
		offset = free
	case n.Justify == JustifySpaceBetween:
		if len(statics) > 1 && free > 0 {
			between += free / float64(len(statics)-1)
		}
	}

	cursor := offset
	for i, ch := range statics {
		if ch.AutoMargin {
			cursor += autoShare
		}
		var r Rect
		if n.Direction == Row {
			r = Rect{
				X: content.X + cursor + ch.Margin.Left,
				Y: content.Y + crossOffset(n.Align, content.H, heights[i], ch.Margin.Top, ch.Margin.Bottom),
				W: widths[i],
				H: heights[i],
			}
			cursor += widths[i] + ch.Margin.horizontal() + between
		} else {
			r = Rect{
				X: content.X + crossOffset(n.Align, content.W, widths[i], ch.Margin.Left, ch.Margin.Right),
				Y: content.Y + cursor + ch.Margin.Top,
				W: widths[i],
				H: heights[i],
			}
			cursor += heights[i] + ch.Margin.vertical() + between
		}
		c.place(ch, r)
	}
}

func crossOffset(a Align, avail, size, before, after float64) float64 {
	switch a {
	case AlignCenter:
		return before + (avail-before-after-size)/2
	case AlignEnd:
		return avail - after - size
	default:
		return before
	}
}

// placeAbsolute positions n by its insets against the parent's border box.
func (c *computer) placeAbsolute(n *Node, parent Rect) {
	w := n.Width
	if w == 0 {
		if n.Left != nil && n.Right != nil {
			w = parent.W - *n.Left - *n.Right
		} else {
			w = c.natural(n, parent.W)
		}
	}
	h := n.Height
	if h == 0 {
		if n.Top != nil && n.Bottom != nil {
			h = parent.H - *n.Top - *n.Bottom
		} else {
			h = c.heightFor(n, w)
		}
	}

	x := parent.X
	switch {
	case n.Left != nil:
		x += *n.Left
	case n.Right != nil:
		x += parent.W - *n.Right - w
	}
	y := parent.Y
	switch {
	case n.Top != nil:
		y += *n.Top
	case n.Bottom != nil:
		y += parent.H - *n.Bottom - h
	}
	c.place(n, Rect{X: x, Y: y, W: w, H: h})
}
