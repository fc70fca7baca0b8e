// renderer.go - Template selection and document assembly.
// Resolves the style, picks the template function and returns the layout
// document the rasterizer consumes. Watermarking is applied separately.
package template

import "github.com/xob0t/ogpix/pkg/layout"

// For returns the renderer for kind. Unknown kinds use Blog.
func For(kind Kind) Renderer {
	switch kind {
	case Blog:
		return RenderBlog
	case Product:
		return RenderProduct
	case Social:
		return RenderSocial
	case Minimal:
		return RenderMinimal
	default:
		return RenderBlog
	}
}

// Compose builds the unwatermarked document for req.
func Compose(req RenderRequest) *layout.Document {
	style := ResolveStyle(req.Kind, req.Theme, req.Custom)
	return For(req.Kind)(req.Fields, style)
}

// Build builds the document for req, including the watermark layer when
// requested.
func Build(req RenderRequest) *layout.Document {
	return ApplyWatermark(Compose(req), req.Watermarked)
}
