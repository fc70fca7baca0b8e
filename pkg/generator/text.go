package generator

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/xob0t/ogpix/pkg/layout"
)

// drawText paints the wrapped lines of a text node, shadow first.
func drawText(dst *image.RGBA, n *layout.Node, faces *Faces, opacity float64) error {
	if len(n.Lines) == 0 {
		return nil
	}
	face, err := faces.Face(n.FontSize, n.FontWeight)
	if err != nil {
		return err
	}

	ink := paint{solid: whiteInk}
	if p, err := ParsePaint(n.Color); err == nil {
		ink = p
	}

	if n.Shadow != nil {
		if sc, err := ParseColor(n.Shadow.Color); err == nil {
			src := image.NewUniform(toNRGBA(sc, opacity))
			drawLines(dst, n, face, faces, src, n.Shadow.OffsetX, n.Shadow.OffsetY)
		}
	}
	src := image.NewUniform(toNRGBA(ink.ink(), opacity))
	drawLines(dst, n, face, faces, src, 0, 0)
	return nil
}

func drawLines(dst *image.RGBA, n *layout.Node, face font.Face, faces *Faces, src image.Image, dx, dy float64) {
	content := n.Frame.Inset(n.Padding)
	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	descent := float64(m.Descent) / 64
	lineBox := n.LineBox()

	for i, line := range n.Lines {
		width := faces.Advance(line, n.FontSize, n.FontWeight, n.LetterSpacing)
		x := content.X
		switch n.TextAlign {
		case layout.TextCenter:
			x += (content.W - width) / 2
		case layout.TextRight:
			x += content.W - width
		}
		baseline := content.Y + float64(i)*lineBox + (lineBox-(ascent+descent))/2 + ascent
		drawRunes(dst, face, src, line, x+dx, baseline+dy, n.LetterSpacing)
	}
}

// drawRunes draws s glyph by glyph so letter spacing can be applied.
func drawRunes(dst *image.RGBA, face font.Face, src image.Image, s string, x, y, spacing float64) {
	dot := fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
	step := toFixed(spacing)
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			dot.X += face.Kern(prev, r)
		}
		dr, mask, maskp, adv, ok := face.Glyph(dot, r)
		if !ok {
			dr, mask, maskp, adv, _ = face.Glyph(dot, '?')
		}
		if mask != nil && !dr.Empty() {
			draw.DrawMask(dst, dr, src, image.Point{}, mask, maskp, draw.Over)
		}
		dot.X += adv + step
		prev = r
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
