package template

import "github.com/xob0t/ogpix/pkg/layout"

// Watermark wordmark geometry.
const (
	WatermarkText    = "ogpix.dev"
	watermarkSize    = 72
	watermarkRotate  = -25
	watermarkOpacity = 0.15
	watermarkID      = "watermark"
	watermarkBaseID  = "watermark-base"
)

// ApplyWatermark returns doc unchanged when watermarked is false. Otherwise
// it returns a new document of the same size whose first layer is the
// untouched original root and whose top layer is a centered, rotated,
// translucent wordmark. The original tree is never reflowed.
func ApplyWatermark(doc *layout.Document, watermarked bool) *layout.Document {
	if !watermarked || doc == nil || doc.Root == nil {
		return doc
	}

	base := &layout.Node{
		ID:       watermarkBaseID,
		Kind:     layout.Box,
		Position: layout.Absolute,
		Top:      layout.Px(0),
		Left:     layout.Px(0),
		Width:    doc.Width,
		Height:   doc.Height,
		Children: []*layout.Node{doc.Root},
	}

	mark := text("watermark-text", WatermarkText, watermarkSize, 900)
	mark.LineHeight = 1
	mark.Rotate = watermarkRotate
	mark.Opacity = watermarkOpacity
	mark.Color = doc.Root.Color

	overlay := &layout.Node{
		ID:       watermarkID,
		Kind:     layout.Box,
		Position: layout.Absolute,
		Top:      layout.Px(0),
		Right:    layout.Px(0),
		Bottom:   layout.Px(0),
		Left:     layout.Px(0),
		Justify:  layout.JustifyCenter,
		Align:    layout.AlignCenter,
		Children: []*layout.Node{mark},
	}

	return &layout.Document{
		Width:  doc.Width,
		Height: doc.Height,
		Root: &layout.Node{
			ID:       "watermarked",
			Kind:     layout.Box,
			Width:    doc.Width,
			Height:   doc.Height,
			Children: []*layout.Node{base, overlay},
		},
	}
}

// StripWatermark returns the document ApplyWatermark wrapped, or doc itself
// when it carries no watermark.
func StripWatermark(doc *layout.Document) *layout.Document {
	if doc == nil || doc.Root == nil || layout.Find(doc.Root, watermarkID) == nil {
		return doc
	}
	for _, c := range doc.Root.Children {
		if c.ID == watermarkBaseID && len(c.Children) == 1 {
			return &layout.Document{Width: doc.Width, Height: doc.Height, Root: c.Children[0]}
		}
	}
	return doc
}

// HasWatermark reports whether doc carries the wordmark layer.
func HasWatermark(doc *layout.Document) bool {
	return doc != nil && doc.Root != nil && layout.Find(doc.Root, watermarkID) != nil
}
