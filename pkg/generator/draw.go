// draw.go - Box painting: solid and gradient fills, rounded corners and
// opacity masks.
package generator

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/xob0t/ogpix/pkg/layout"
)

// bezierArc is the control point distance for a quarter circle of radius 1.
const bezierArc = 0.5522847498

// pixelBounds returns the smallest integer rectangle covering r.
func pixelBounds(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
}

// snapped returns r rounded to whole pixels.
func snapped(r layout.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
}

// shapeMask returns a coverage mask for r with corner radius, scaled by
// opacity, and the pixel rectangle it covers. Shapes are rasterized in their
// own bounds so off-canvas geometry is clipped by the final draw.
func shapeMask(r layout.Rect, radius, opacity float64) (*image.Alpha, image.Rectangle) {
	if radius <= 0 {
		b := snapped(r)
		mask := image.NewAlpha(b)
		a := unit8(opacity)
		for i := range mask.Pix {
			mask.Pix[i] = a
		}
		return mask, b
	}

	b := pixelBounds(r)
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.NewAlpha(b), b
	}
	radius = math.Min(radius, math.Min(r.W, r.H)/2)

	z := vector.NewRasterizer(w, h)
	x0, y0 := float32(r.X-float64(b.Min.X)), float32(r.Y-float64(b.Min.Y))
	x1, y1 := x0+float32(r.W), y0+float32(r.H)
	rad := float32(radius)
	k := rad * bezierArc

	z.MoveTo(x0+rad, y0)
	z.LineTo(x1-rad, y0)
	z.CubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
	z.LineTo(x1, y1-rad)
	z.CubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
	z.LineTo(x0+rad, y1)
	z.CubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
	z.LineTo(x0, y0+rad)
	z.CubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
	z.ClosePath()

	local := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(local, local.Bounds(), image.Opaque, image.Point{})
	if opacity < 1 {
		for i, v := range local.Pix {
			local.Pix[i] = uint8(math.Round(float64(v) * opacity))
		}
	}
	return &image.Alpha{Pix: local.Pix, Stride: local.Stride, Rect: b}, b
}

// fillBox paints n's background into dst.
func fillBox(dst *image.RGBA, n *layout.Node, opacity float64) {
	if n.Background == "" {
		return
	}
	p, err := ParsePaint(n.Background)
	if err != nil {
		return
	}
	mask, b := shapeMask(n.Frame, n.Radius, opacity)
	if b.Empty() {
		return
	}
	draw.DrawMask(dst, b, p.source(b, 1), b.Min, mask, b.Min, draw.Over)
}

// fillCanvas paints the document background color under everything.
func fillCanvas(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}
