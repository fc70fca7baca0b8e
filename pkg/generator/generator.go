// Package generator rasterizes layout documents into images.
//
// All output follows one pipeline: compute the layout with the shared font
// family, paint the tree into an *image.RGBA in document order, then encode
// it as PNG, JPEG or BMP.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/xob0t/ogpix/pkg/layout"
)

var whiteInk = gg.RGBA{R: 1, G: 1, B: 1, A: 1}

// Rasterizer paints layout documents. It is safe for concurrent use.
type Rasterizer struct {
	fonts *FontManager
}

// NewRasterizer creates a rasterizer using fonts for all text.
func NewRasterizer(fonts *FontManager) *Rasterizer {
	return &Rasterizer{fonts: fonts}
}

// Rasterize lays out doc and paints it. images maps Image node sources to
// decoded pixels; nodes whose source is missing are skipped.
func (r *Rasterizer) Rasterize(doc *layout.Document, images map[string]image.Image) (*image.RGBA, error) {
	faces := r.fonts.NewFaces()
	defer faces.Close()

	if err := layout.Compute(doc, faces); err != nil {
		return nil, err
	}

	w, h := int(math.Round(doc.Width)), int(math.Round(doc.Height))
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	fillCanvas(canvas, color.White)

	p := &painter{faces: faces, images: images}
	if err := p.node(canvas, doc.Root, 1); err != nil {
		return nil, fmt.Errorf("paint: %w", err)
	}
	return canvas, nil
}

type painter struct {
	faces  *Faces
	images map[string]image.Image
}

// node paints n and its subtree. Opacity multiplies down the tree.
func (p *painter) node(dst *image.RGBA, n *layout.Node, opacity float64) error {
	alpha := opacity * n.Alpha()
	if n.Rotate == 0 {
		return p.content(dst, n, alpha)
	}

	layer := image.NewRGBA(dst.Bounds())
	if err := p.content(layer, n, alpha); err != nil {
		return err
	}
	cx, cy := n.Frame.Center()
	sin, cos := math.Sincos(n.Rotate * math.Pi / 180)
	aff := f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, aff, layer, layer.Bounds(), xdraw.Over, nil)
	return nil
}

func (p *painter) content(dst *image.RGBA, n *layout.Node, alpha float64) error {
	fillBox(dst, n, alpha)

	switch n.Kind {
	case layout.PatternFill:
		drawPattern(dst, n, alpha)
	case layout.Image:
		if img, ok := p.images[n.Src]; ok && img != nil {
			drawImage(dst, n, img, alpha)
		}
	case layout.Text:
		if err := drawText(dst, n, p.faces, alpha); err != nil {
			return err
		}
	}

	for _, c := range n.Children {
		if err := p.node(dst, c, alpha); err != nil {
			return err
		}
	}
	return nil
}
