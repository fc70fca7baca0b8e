package generator

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/xob0t/ogpix/pkg/layout"
)

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	fm, err := NewFontManager("")
	if err != nil {
		t.Fatalf("NewFontManager: %v", err)
	}
	return NewRasterizer(fm)
}

func rgba(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#112233", color.NRGBA{0x11, 0x22, 0x33, 0xff}},
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}},
		{"rgba(255,255,255,0.3)", color.NRGBA{255, 255, 255, 77}},
		{"rgb(0, 128, 255)", color.NRGBA{0, 128, 255, 255}},
		{"rgb(0 0 0 / 50%)", color.NRGBA{0, 0, 0, 128}},
		{"White", color.NRGBA{255, 255, 255, 255}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got := toNRGBA(c, 1); got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "#12", "#ggg", "rgb(1,2)", "notacolor", "rgba(a,b,c,d)"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

func TestParseGradient(t *testing.T) {
	p, err := ParsePaint("linear-gradient(135deg, #0f0f23 0%, #1a1a3e 50%, #2d1b69 100%)")
	if err != nil {
		t.Fatal(err)
	}
	g := p.gradient
	if g == nil || len(g.stops) != 3 {
		t.Fatalf("gradient = %+v", g)
	}
	if math.Abs(g.dirX-math.Sqrt2/2) > 1e-9 || math.Abs(g.dirY-math.Sqrt2/2) > 1e-9 {
		t.Errorf("direction = (%v, %v)", g.dirX, g.dirY)
	}

	p, err = ParsePaint("linear-gradient(to right, #3b82f6, #8b5cf6, #ec4899)")
	if err != nil {
		t.Fatal(err)
	}
	offsets := []float64{p.gradient.stops[0].offset, p.gradient.stops[1].offset, p.gradient.stops[2].offset}
	if offsets[0] != 0 || offsets[1] != 0.5 || offsets[2] != 1 {
		t.Errorf("offsets = %v", offsets)
	}
	x0, y0, x1, y1 := p.gradient.line(1200, 4)
	if x0 != 0 || x1 != 1200 || y0 != 2 || y1 != 2 {
		t.Errorf("line = (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}
	if got := toNRGBA(p.ink(), 1); got != (color.NRGBA{0x3b, 0x82, 0xf6, 0xff}) {
		t.Errorf("ink = %v", got)
	}

	p, err = ParsePaint("linear-gradient(to bottom right, rgba(0,0,0,0.5), #ffffff)")
	if err != nil {
		t.Fatal(err)
	}
	x0, y0, x1, y1 = p.gradient.line(200, 100)
	if x0 >= x1 || y0 >= y1 {
		t.Errorf("corner gradient runs the wrong way: (%v,%v)-(%v,%v)", x0, y0, x1, y1)
	}

	for _, bad := range []string{"linear-gradient()", "linear-gradient(to nowhere, red)", "linear-gradient(90deg, #zzz)"} {
		if _, err := ParsePaint(bad); err == nil {
			t.Errorf("ParsePaint(%q) succeeded", bad)
		}
	}
}

func TestGradientEndpoints(t *testing.T) {
	p, err := ParsePaint("linear-gradient(to right, #000000, #ffffff)")
	if err != nil {
		t.Fatal(err)
	}
	img := p.gradient.render(image.Rect(0, 0, 100, 1), 1)
	left, right := rgba(img, 0, 0), rgba(img, 99, 0)
	if left.R > 40 || right.R < 240 {
		t.Errorf("left=%v right=%v", left, right)
	}
}

func TestRasterizeBoxes(t *testing.T) {
	bar := &layout.Node{Kind: layout.Box, Position: layout.Absolute, Top: layout.Px(0), Left: layout.Px(0), Right: layout.Px(0), Height: 6, Background: "#112233"}
	disc := &layout.Node{Kind: layout.Box, Position: layout.Absolute, Left: layout.Px(100), Top: layout.Px(100), Width: 40, Height: 40, Radius: 20, Background: "#ff0000"}
	faded := &layout.Node{Kind: layout.Box, Position: layout.Absolute, Left: layout.Px(200), Top: layout.Px(100), Width: 10, Height: 10, Background: "#000000", Opacity: 0.5}
	root := &layout.Node{Kind: layout.Box, Width: 300, Height: 200, Background: "#ffffff", Children: []*layout.Node{bar, disc, faded}}

	img, err := newRasterizer(t).Rasterize(&layout.Document{Width: 300, Height: 200, Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 300, 200) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := rgba(img, 10, 3); got != (color.RGBA{0x11, 0x22, 0x33, 0xff}) {
		t.Errorf("bar pixel = %v", got)
	}
	if got := rgba(img, 120, 120); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("disc center = %v", got)
	}
	if got := rgba(img, 101, 101); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("disc corner should stay white, got %v", got)
	}
	if got := rgba(img, 205, 105); got.R < 120 || got.R > 135 {
		t.Errorf("half-transparent black over white = %v", got)
	}
}

func TestRasterizePatterns(t *testing.T) {
	for _, tt := range []struct {
		pattern layout.Pattern
		on, off image.Point
	}{
		{layout.Grid, image.Pt(60, 31), image.Pt(59, 31)},
		{layout.Dots, image.Pt(15, 15), image.Pt(5, 5)},
	} {
		overlay := &layout.Node{
			Kind: layout.PatternFill, Position: layout.Absolute,
			Top: layout.Px(0), Right: layout.Px(0), Bottom: layout.Px(0), Left: layout.Px(0),
			Pattern: tt.pattern, PatternColor: "#ffffff",
		}
		root := &layout.Node{Kind: layout.Box, Background: "#000000", Children: []*layout.Node{overlay}}
		img, err := newRasterizer(t).Rasterize(&layout.Document{Width: 120, Height: 120, Root: root}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := rgba(img, tt.on.X, tt.on.Y); got.R < 128 {
			t.Errorf("%v: %v should be inked, got %v", tt.pattern, tt.on, got)
		}
		if got := rgba(img, tt.off.X, tt.off.Y); got.R != 0 {
			t.Errorf("%v: %v should be background, got %v", tt.pattern, tt.off, got)
		}
	}
}

func TestDiagonalStripePeriod(t *testing.T) {
	cov := diagonalCoverage(120, 120)
	stripes, inside := 0, false
	for x := 0; x < 120; x++ {
		on := cov(float64(x)+0.5, 60.5) > 0
		if on && !inside {
			stripes++
		}
		inside = on
	}
	// A horizontal scanline crosses a 45° stripe every 21·√2 units.
	period := float64(layout.StripePeriod)
	want := int(120 / (period * math.Sqrt2))
	if stripes < want-1 || stripes > want+1 {
		t.Errorf("crossed %d stripes on a scanline, want about %d", stripes, want)
	}
}

func TestRasterizeText(t *testing.T) {
	text := &layout.Node{Kind: layout.Text, Text: "Hello", FontSize: 40, FontWeight: 800, Color: "#000000"}
	root := &layout.Node{Kind: layout.Box, Background: "#ffffff", Padding: layout.All(10), Children: []*layout.Node{text}}
	img, err := newRasterizer(t).Rasterize(&layout.Document{Width: 200, Height: 80, Root: root}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dark := countDark(img, text.Frame); dark == 0 {
		t.Error("no text pixels were drawn")
	}
	if len(text.Lines) != 1 {
		t.Errorf("lines = %q", text.Lines)
	}
}

func TestRasterizeRotationIsDeterministic(t *testing.T) {
	build := func() *layout.Document {
		mark := &layout.Node{Kind: layout.Text, Text: "ogpix.dev", FontSize: 24, FontWeight: 900, Rotate: -25, Opacity: 0.9, Color: "#000000"}
		return &layout.Document{Width: 200, Height: 100, Root: &layout.Node{
			Kind: layout.Box, Background: "#ffffff", Justify: layout.JustifyCenter, Align: layout.AlignCenter,
			Children: []*layout.Node{mark},
		}}
	}
	r := newRasterizer(t)
	a, err := r.Rasterize(build(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Rasterize(build(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("rotated renders differ")
	}
	if countDark(a, layout.Rect{W: 200, H: 100}) == 0 {
		t.Error("rotated text is missing")
	}
}

func TestRasterizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 0xff
		if i%4 == 1 || i%4 == 2 {
			src.Pix[i] = 0
		}
	}
	logo := &layout.Node{Kind: layout.Image, Src: "mem://red", Width: 40, Height: 40}
	root := &layout.Node{Kind: layout.Box, Background: "#ffffff", Children: []*layout.Node{logo}}
	img, err := newRasterizer(t).Rasterize(&layout.Document{Width: 100, Height: 100, Root: root}, map[string]image.Image{"mem://red": src})
	if err != nil {
		t.Fatal(err)
	}
	if got := rgba(img, 20, 20); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("image pixel = %v", got)
	}
}

func TestRasterizeRejectsInvalidTree(t *testing.T) {
	if _, err := newRasterizer(t).Rasterize(&layout.Document{Width: 10, Height: 10}, nil); err == nil {
		t.Error("expected an error for an empty document")
	}
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 12, 7))
	data, err := EncodePNG(img)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width != 12 || cfg.Height != 7 {
		t.Errorf("decoded %+v, %v", cfg, err)
	}
	if _, _, err := DecodeImage(data); err != nil {
		t.Errorf("DecodeImage: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, ".gif"); err == nil {
		t.Error("gif output should be unsupported")
	}
	for _, ext := range []string{".jpg", ".bmp"} {
		buf.Reset()
		if err := Encode(&buf, img, ext); err != nil || buf.Len() == 0 {
			t.Errorf("Encode %s: %v", ext, err)
		}
	}
}

func countDark(img *image.RGBA, r layout.Rect) int {
	n := 0
	b := pixelBounds(r).Intersect(img.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).R < 128 {
				n++
			}
		}
	}
	return n
}
