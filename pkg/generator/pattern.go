package generator

import (
	"image"
	"image/draw"
	"math"

	"github.com/xob0t/ogpix/pkg/layout"
)

// drawPattern tiles n.Pattern over n's frame. Tiles are anchored at the
// frame's top-left corner.
func drawPattern(dst *image.RGBA, n *layout.Node, opacity float64) {
	ink := whiteInk
	if c, err := ParseColor(n.PatternColor); err == nil {
		ink = c
	}
	b := snapped(n.Frame).Intersect(dst.Bounds())
	if b.Empty() || n.Pattern == layout.NoPattern {
		return
	}

	var coverage func(x, y float64) float64
	switch n.Pattern {
	case layout.Dots:
		coverage = dotCoverage
	case layout.Grid:
		coverage = gridCoverage
	case layout.Diagonal:
		coverage = diagonalCoverage(n.Frame.W, n.Frame.H)
	default:
		return
	}

	mask := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		fy := float64(y) + 0.5 - n.Frame.Y
		for x := b.Min.X; x < b.Max.X; x++ {
			c := coverage(float64(x)+0.5-n.Frame.X, fy)
			if c > 0 {
				mask.Pix[mask.PixOffset(x, y)] = unit8(c * opacity)
			}
		}
	}
	draw.DrawMask(dst, b, image.NewUniform(toNRGBA(ink, 1)), image.Point{}, mask, b.Min, draw.Over)
}

// dotCoverage draws a disc of radius DotRadius centered in every DotCell
// square.
func dotCoverage(x, y float64) float64 {
	half := layout.DotCell / 2
	dx := mod(x, layout.DotCell) - half
	dy := mod(y, layout.DotCell) - half
	d := math.Hypot(dx, dy)
	return clamp01(layout.DotRadius + 0.5 - d)
}

// gridCoverage draws GridLine wide lines along the top and left edge of
// every GridCell square.
func gridCoverage(x, y float64) float64 {
	if mod(x, layout.GridCell) < layout.GridLine || mod(y, layout.GridCell) < layout.GridLine {
		return 1
	}
	return 0
}

// diagonalCoverage draws the stripes of repeating-linear-gradient(45deg,
// transparent 0 StripeGap, ink StripeGap StripePeriod) over a w×h box.
func diagonalCoverage(w, h float64) func(x, y float64) float64 {
	g := &gradient{dirX: math.Sqrt2 / 2, dirY: -math.Sqrt2 / 2}
	x0, y0, _, _ := g.line(w, h)
	return func(x, y float64) float64 {
		t := (x-x0)*g.dirX + (y-y0)*g.dirY
		phase := mod(t, layout.StripePeriod)
		var c float64
		for _, shift := range []float64{-layout.StripePeriod, 0, layout.StripePeriod} {
			c += overlap(phase-0.5+shift, phase+0.5+shift, layout.StripeGap, layout.StripePeriod)
		}
		return clamp01(c)
	}
}

func overlap(a0, a1, b0, b1 float64) float64 {
	return math.Max(0, math.Min(a1, b1)-math.Max(a0, b0))
}

func mod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
