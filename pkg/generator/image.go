package generator

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/xob0t/ogpix/pkg/layout"
)

// DecodeImage decodes PNG, JPEG, GIF, WebP or BMP data.
func DecodeImage(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// drawImage scales img to n's frame and draws it with rounded corners.
func drawImage(dst *image.RGBA, n *layout.Node, img image.Image, opacity float64) {
	b := snapped(n.Frame)
	if b.Empty() {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	frame := layout.Rect{X: float64(b.Min.X), Y: float64(b.Min.Y), W: float64(b.Dx()), H: float64(b.Dy())}
	mask, _ := shapeMask(frame, n.Radius, opacity)
	draw.DrawMask(dst, b, scaled, image.Point{}, mask, b.Min, draw.Over)
}
