// color.go - CSS color and linear-gradient parsing.
// Colors are parsed into gg.RGBA; gradients are sampled through a
// gg.LinearGradientBrush into a lookup table once per painted box.
package generator

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

var named = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"gray":    "#808080",
	"grey":    "#808080",
	"silver":  "#c0c0c0",
	"navy":    "#000080",
	"teal":    "#008080",
	"aqua":    "#00ffff",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"fuchsia": "#ff00ff",
	"maroon":  "#800000",
	"olive":   "#808000",
	"indigo":  "#4b0082",
	"gold":    "#ffd700",
	"coral":   "#ff7f50",
	"crimson": "#dc143c",
	"tomato":  "#ff6347",
	"violet":  "#ee82ee",
}

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), a basic named color or "transparent".
func ParseColor(s string) (gg.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return gg.RGBA{}, fmt.Errorf("empty color")
	case s == "transparent":
		return gg.RGBA{}, nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		switch len(hex) {
		case 3, 4, 6, 8:
		default:
			return gg.RGBA{}, fmt.Errorf("invalid color %q: bad hex length", s)
		}
		if _, err := strconv.ParseUint(hex, 16, 64); err != nil {
			return gg.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return gg.Hex(hex), nil
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	}
	if hex, ok := named[s]; ok {
		return gg.Hex(hex), nil
	}
	return gg.RGBA{}, fmt.Errorf("unknown color %q", s)
}

// parseRGBFunc handles rgb(r, g, b), rgba(r, g, b, a) and the space
// separated rgb(r g b / a) form.
func parseRGBFunc(s string) (gg.RGBA, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return gg.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	body := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : end])
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return gg.RGBA{}, fmt.Errorf("invalid color %q: want 3 or 4 components", s)
	}

	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		v, pct, err := parseNumber(p)
		if err != nil {
			return gg.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		switch {
		case i == 3 && pct:
			ch[i] = v / 100
		case i == 3:
			ch[i] = v
		case pct:
			ch[i] = v / 100
		default:
			ch[i] = v / 255
		}
		ch[i] = math.Max(0, math.Min(1, ch[i]))
	}
	return gg.RGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

func parseNumber(s string) (float64, bool, error) {
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	return v, pct, err
}

// toNRGBA converts c to 8-bit straight alpha, scaling alpha by opacity.
func toNRGBA(c gg.RGBA, opacity float64) color.NRGBA {
	return color.NRGBA{
		R: unit8(c.R),
		G: unit8(c.G),
		B: unit8(c.B),
		A: unit8(c.A * opacity),
	}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ── Paints ──

// paint is a parsed background: a solid color or a linear gradient.
type paint struct {
	solid    gg.RGBA
	gradient *gradient
}

// ParsePaint parses a CSS color or linear-gradient() value.
func ParsePaint(s string) (paint, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "linear-gradient(") {
		g, err := parseGradient(s)
		if err != nil {
			return paint{}, err
		}
		return paint{gradient: g}, nil
	}
	c, err := ParseColor(s)
	if err != nil {
		return paint{}, err
	}
	return paint{solid: c}, nil
}

// ink returns a single color for text drawn with p. Gradients use their
// first stop.
func (p paint) ink() gg.RGBA {
	if p.gradient != nil {
		return p.gradient.stops[0].color
	}
	return p.solid
}

// source returns an image usable as a draw source over r, with opacity
// applied.
func (p paint) source(r image.Rectangle, opacity float64) image.Image {
	if p.gradient == nil {
		return image.NewUniform(toNRGBA(p.solid, opacity))
	}
	return p.gradient.render(r, opacity)
}

// ── Gradients ──

type stop struct {
	color  gg.RGBA
	offset float64 // NaN until positions are resolved
}

type gradient struct {
	dirX, dirY float64 // unit direction; zero for a corner keyword resolved per box
	corner     [2]int  // sign of x and y for "to <corner>" forms
	stops      []stop
}

const lutSize = 1024

// parseGradient parses linear-gradient(<angle>|to <side>, <color> [<pos>], ...).
func parseGradient(s string) (*gradient, error) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, fmt.Errorf("invalid gradient %q", s)
	}
	args := splitTopLevel(s[open+1 : end])
	if len(args) == 0 {
		return nil, fmt.Errorf("invalid gradient %q: no arguments", s)
	}

	g := &gradient{dirX: 0, dirY: 1}
	if ok, err := g.parseDirection(strings.ToLower(strings.TrimSpace(args[0]))); err != nil {
		return nil, fmt.Errorf("invalid gradient %q: %w", s, err)
	} else if ok {
		args = args[1:]
	}
	if len(args) < 1 {
		return nil, fmt.Errorf("invalid gradient %q: no color stops", s)
	}

	for _, a := range args {
		st, err := parseStop(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("invalid gradient %q: %w", s, err)
		}
		g.stops = append(g.stops, st)
	}
	resolveOffsets(g.stops)
	return g, nil
}

// parseDirection reports whether arg is a direction and applies it.
func (g *gradient) parseDirection(arg string) (bool, error) {
	if rest, ok := strings.CutPrefix(arg, "to "); ok {
		var sx, sy int
		for _, word := range strings.Fields(rest) {
			switch word {
			case "left":
				sx = -1
			case "right":
				sx = 1
			case "top":
				sy = -1
			case "bottom":
				sy = 1
			default:
				return false, fmt.Errorf("unknown side %q", word)
			}
		}
		if sx == 0 && sy == 0 {
			return false, fmt.Errorf("empty side")
		}
		if sx != 0 && sy != 0 {
			g.corner = [2]int{sx, sy}
			g.dirX, g.dirY = 0, 0
			return true, nil
		}
		g.dirX, g.dirY = float64(sx), float64(sy)
		return true, nil
	}

	var deg float64
	switch {
	case strings.HasSuffix(arg, "deg"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "deg"), 64)
		if err != nil {
			return false, err
		}
		deg = v
	case strings.HasSuffix(arg, "turn"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "turn"), 64)
		if err != nil {
			return false, err
		}
		deg = v * 360
	case strings.HasSuffix(arg, "rad") && !strings.HasSuffix(arg, "grad"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "rad"), 64)
		if err != nil {
			return false, err
		}
		deg = v * 180 / math.Pi
	default:
		return false, nil
	}
	rad := deg * math.Pi / 180
	g.dirX, g.dirY = math.Sin(rad), -math.Cos(rad)
	return true, nil
}

func parseStop(s string) (stop, error) {
	st := stop{offset: math.NaN()}
	colorPart := s
	if i := strings.LastIndexByte(s, ' '); i > 0 && !strings.HasSuffix(s, ")") {
		pos := strings.TrimSpace(s[i+1:])
		v, pct, err := parseNumber(strings.TrimSuffix(pos, "px"))
		if err != nil {
			return st, fmt.Errorf("bad stop position %q", pos)
		}
		if !pct {
			return st, fmt.Errorf("stop position %q must be a percentage", pos)
		}
		st.offset = v / 100
		colorPart = strings.TrimSpace(s[:i])
	}
	c, err := ParseColor(colorPart)
	if err != nil {
		return st, err
	}
	st.color = c
	return st, nil
}

// resolveOffsets fills missing stop positions the way CSS does: the ends
// default to 0 and 1, gaps are spread evenly, and positions never decrease.
func resolveOffsets(stops []stop) {
	n := len(stops)
	if math.IsNaN(stops[0].offset) {
		stops[0].offset = 0
	}
	if n > 1 && math.IsNaN(stops[n-1].offset) {
		stops[n-1].offset = 1
	}
	for i := 1; i < n; i++ {
		if !math.IsNaN(stops[i].offset) {
			stops[i].offset = math.Max(stops[i].offset, stops[i-1].offset)
			continue
		}
		j := i + 1
		for math.IsNaN(stops[j].offset) {
			j++
		}
		from, to := stops[i-1].offset, math.Max(stops[j].offset, stops[i-1].offset)
		for k := i; k < j; k++ {
			stops[k].offset = from + (to-from)*float64(k-i+1)/float64(j-i+1)
		}
	}
}

// splitTopLevel splits s on commas that are not inside parentheses.
func splitTopLevel(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		out = append(out, s[start:])
	}
	return out
}

// line returns the gradient line endpoints for a w×h box at the origin.
func (g *gradient) line(w, h float64) (x0, y0, x1, y1 float64) {
	dx, dy := g.dirX, g.dirY
	if g.corner != [2]int{} {
		// The gradient line is perpendicular to the diagonal joining the
		// two corners adjacent to the target corner.
		n := math.Hypot(w, h)
		dx, dy = float64(g.corner[0])*h/n, float64(g.corner[1])*w/n
	}
	length := math.Abs(w*dx) + math.Abs(h*dy)
	cx, cy := w/2, h/2
	return cx - dx*length/2, cy - dy*length/2, cx + dx*length/2, cy + dy*length/2
}

// render fills an RGBA image covering r with the gradient sized to r.
func (g *gradient) render(r image.Rectangle, opacity float64) *image.RGBA {
	img := image.NewRGBA(r)
	w, h := float64(r.Dx()), float64(r.Dy())
	if w <= 0 || h <= 0 {
		return img
	}

	x0, y0, x1, y1 := g.line(w, h)
	brush := gg.NewLinearGradientBrush(0, 0, 1, 0)
	for _, s := range g.stops {
		brush.AddColorStop(s.offset, s.color)
	}
	var lut [lutSize]color.RGBA
	for i := range lut {
		c := brush.ColorAt(float64(i)/(lutSize-1), 0)
		a := c.A * opacity
		lut[i] = color.RGBA{R: unit8(c.R * a), G: unit8(c.G * a), B: unit8(c.B * a), A: unit8(a)}
	}

	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	for y := 0; y < r.Dy(); y++ {
		py := float64(y) + 0.5 - y0
		row := img.Pix[y*img.Stride:]
		for x := 0; x < r.Dx(); x++ {
			t := 0.0
			if lenSq > 0 {
				t = ((float64(x)+0.5-x0)*dx + py*dy) / lenSq
			}
			i := int(math.Round(math.Max(0, math.Min(1, t)) * (lutSize - 1)))
			c := lut[i]
			row[x*4+0], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
		}
	}
	return img
}
