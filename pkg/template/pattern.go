package template

import "github.com/xob0t/ogpix/pkg/layout"

// PatternOverlay returns a full-bleed node tiling p in color at alpha, or nil
// when p is NoPattern. The node is placed first among the card's children so
// it paints directly above the background and below everything else.
func PatternOverlay(p layout.Pattern, color string, alpha float64) *layout.Node {
	if p == layout.NoPattern {
		return nil
	}
	return &layout.Node{
		ID:           "pattern",
		Kind:         layout.PatternFill,
		Position:     layout.Absolute,
		Top:          layout.Px(0),
		Right:        layout.Px(0),
		Bottom:       layout.Px(0),
		Left:         layout.Px(0),
		Pattern:      p,
		PatternColor: color,
		Opacity:      alpha,
	}
}
