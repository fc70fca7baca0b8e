package template

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xob0t/ogpix/pkg/layout"
)

func full() ContentFields {
	return ContentFields{
		Title:    "Shipping a card renderer",
		Subtitle: "Notes from the field",
		Author:   "alex",
		Date:     "Oct 19, 2026",
		Site:     "example.dev",
		Handle:   "alexdev",
		Logo:     "https://example.dev/logo.png",
	}
}

func TestResolveStyleDefaultsAndOverrides(t *testing.T) {
	s := ResolveStyle(Minimal, Light, CustomStyle{})
	if s.Background != "#ffffff" || s.TextColor != "#000000" || s.Accent != "#000000" {
		t.Errorf("minimal light defaults = %+v", s)
	}
	if s.FontSize != 0 || s.Pattern != layout.NoPattern {
		t.Errorf("unexpected overrides in %+v", s)
	}

	s = ResolveStyle(Blog, Dark, CustomStyle{
		Background: "#000",
		Color:      "#ff0000",
		Accent:     "#112233",
		FontSize:   "80",
		Logo:       "https://x/logo.png",
		Tag:        "news",
		Pattern:    "grid",
	})
	want := ResolvedStyle{
		Background:   "#000",
		TextColor:    "#ff0000",
		Accent:       "#112233",
		FontSize:     80,
		Pattern:      layout.Grid,
		PatternColor: "#ff0000",
		PatternAlpha: 0.06,
		Logo:         "https://x/logo.png",
		Tag:          "news",
	}
	if s != want {
		t.Errorf("got %+v\nwant %+v", s, want)
	}
}

func TestResolveStyleMalformedFontSize(t *testing.T) {
	for _, v := range []string{"", "abc", "12.5", "-4", "0", " ", "301", "100000", "99999999999999999999"} {
		if s := ResolveStyle(Social, Dark, CustomStyle{FontSize: v}); s.FontSize != 0 {
			t.Errorf("fontSize %q resolved to %d, want 0", v, s.FontSize)
		}
	}
}

func TestResolveStyleFontSizeCeiling(t *testing.T) {
	if s := ResolveStyle(Blog, Dark, CustomStyle{FontSize: "300"}); s.FontSize != MaxFontSize {
		t.Errorf("fontSize 300 resolved to %d", s.FontSize)
	}
	if w := Validate(Params{"fontSize": "100000"}); len(w) != 1 {
		t.Errorf("warnings = %q, want one", w)
	}
}

func TestEveryKindAndThemeHasDistinctDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds {
		for _, th := range []Theme{Dark, Light} {
			s := ResolveStyle(k, th, CustomStyle{})
			if s.Background == "" || s.TextColor == "" || s.Accent == "" {
				t.Errorf("%s/%s has empty defaults: %+v", k, th, s)
			}
			seen[s.Background] = true
		}
	}
	if len(seen) != 8 {
		t.Errorf("got %d distinct backgrounds, want 8", len(seen))
	}
}

func titleNode(t *testing.T, doc *layout.Document) *layout.Node {
	t.Helper()
	n := layout.Find(doc.Root, "title")
	if n == nil {
		t.Fatal("document has no title node")
	}
	return n
}

func TestTitleSizeTiers(t *testing.T) {
	tests := []struct {
		kind  Kind
		chars int
		want  float64
	}{
		{Blog, 60, 64}, {Blog, 61, 48},
		{Product, 40, 68}, {Product, 41, 52},
		{Social, 40, 62}, {Social, 41, 54}, {Social, 60, 54}, {Social, 61, 46},
		{Minimal, 50, 72}, {Minimal, 51, 52}, {Minimal, 71, 52},
	}
	for _, tt := range tests {
		req := RenderRequest{Kind: tt.kind, Fields: ContentFields{Title: strings.Repeat("x", tt.chars)}}
		if got := titleNode(t, Compose(req)).FontSize; got != tt.want {
			t.Errorf("%s with %d chars: size %v, want %v", tt.kind, tt.chars, got, tt.want)
		}
	}
}

func TestFontSizeOverrideBeatsLengthRule(t *testing.T) {
	for _, k := range Kinds {
		for _, n := range []int{10, 90} {
			req := RenderRequest{
				Kind:   k,
				Fields: ContentFields{Title: strings.Repeat("a", n)},
				Custom: CustomStyle{FontSize: "80"},
			}
			if got := titleNode(t, Compose(req)).FontSize; got != 80 {
				t.Errorf("%s with %d chars: size %v, want 80", k, n, got)
			}
		}
	}
}

func TestOptionalFieldsAreOmitted(t *testing.T) {
	type field struct {
		name  string
		clear func(*ContentFields, *CustomStyle)
		ids   []string
	}
	fields := []field{
		{"subtitle", func(f *ContentFields, _ *CustomStyle) { f.Subtitle = "" }, []string{"subtitle"}},
		{"author", func(f *ContentFields, _ *CustomStyle) { f.Author = "" }, []string{"author"}},
		{"date", func(f *ContentFields, _ *CustomStyle) { f.Date = "" }, []string{"date"}},
		{"site", func(f *ContentFields, _ *CustomStyle) { f.Site = "" }, []string{"site"}},
		{"handle", func(f *ContentFields, _ *CustomStyle) { f.Handle = "" }, []string{"handle"}},
		{"logo", func(f *ContentFields, c *CustomStyle) { f.Logo = ""; c.Logo = "" }, []string{"logo"}},
		{"tag", func(_ *ContentFields, c *CustomStyle) { c.Tag = "" }, []string{"tag"}},
	}

	for _, k := range Kinds {
		for _, fd := range fields {
			f, c := full(), CustomStyle{Tag: "launch", Logo: "https://example.dev/mark.png"}
			with := Compose(RenderRequest{Kind: k, Fields: f, Custom: c})
			fd.clear(&f, &c)
			without := Compose(RenderRequest{Kind: k, Fields: f, Custom: c})

			for _, id := range fd.ids {
				if layout.Find(without.Root, id) != nil {
					t.Errorf("%s without %s still has node %q", k, fd.name, id)
				}
				if layout.Find(with.Root, id) != nil && layout.Count(with.Root) <= layout.Count(without.Root) {
					t.Errorf("%s: removing %s did not reduce the node count", k, fd.name)
				}
			}
			for _, n := range layout.Collect(without.Root, func(n *layout.Node) bool { return n.Kind == layout.Text }) {
				if strings.TrimSpace(n.Text) == "" {
					t.Errorf("%s without %s has an empty text node %q", k, fd.name, n.ID)
				}
			}
		}
	}
}

func TestBlogFooterGating(t *testing.T) {
	doc := Compose(RenderRequest{Kind: Blog, Fields: ContentFields{Title: "Hello World"}})
	for _, id := range []string{"footer", "avatar", "author", "date", "separator", "site", "subtitle"} {
		if layout.Find(doc.Root, id) != nil {
			t.Errorf("bare blog card has %q", id)
		}
	}

	doc = Compose(RenderRequest{Kind: Blog, Fields: ContentFields{Title: "x", Date: "today"}})
	if layout.Find(doc.Root, "separator") != nil || layout.Find(doc.Root, "avatar") != nil {
		t.Error("date-only footer has a separator or avatar")
	}
	doc = Compose(RenderRequest{Kind: Blog, Fields: ContentFields{Title: "x", Author: "bo", Date: "today"}})
	if layout.Find(doc.Root, "separator") == nil {
		t.Error("author and date footer lacks the separator")
	}
}

func TestSocialAvatarAndHandle(t *testing.T) {
	doc := Compose(RenderRequest{Kind: Social, Fields: ContentFields{Title: "Launch!", Author: "Alex", Handle: "alexdev"}})
	if got := layout.Find(doc.Root, "avatar-letter").Text; got != "A" {
		t.Errorf("avatar letter = %q, want A", got)
	}
	if got := layout.Find(doc.Root, "handle").Text; got != "@alexdev" {
		t.Errorf("handle = %q, want @alexdev", got)
	}

	doc = Compose(RenderRequest{Kind: Social, Fields: ContentFields{Title: "Launch!"}})
	if got := layout.Find(doc.Root, "avatar-letter").Text; got != "U" {
		t.Errorf("anonymous avatar letter = %q, want U", got)
	}
}

func TestInitial(t *testing.T) {
	for in, want := range map[string]string{"alex": "A", "": "U", "  ": "U", "élodie": "É", "42": "4"} {
		if got := Initial(in); got != want {
			t.Errorf("Initial(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnknownTemplateFallsBackToBlog(t *testing.T) {
	p := Params{"title": "Same", "subtitle": "fields", "author": "x"}
	a, _ := ParseParams(p.Merge(Params{"template": "nonexistent"}))
	b, _ := ParseParams(p.Merge(Params{"template": "blog"}))
	if !reflect.DeepEqual(Build(a), Build(b)) {
		t.Error("nonexistent template differs from blog")
	}
	if ParseKind("Blog") != Blog || ParseKind("PRODUCT") != Blog {
		t.Error("template matching must be case-sensitive")
	}
}

func TestUnknownPatternMatchesNone(t *testing.T) {
	for _, k := range Kinds {
		a := Compose(RenderRequest{Kind: k, Fields: full(), Custom: CustomStyle{Pattern: "not-a-real-pattern"}})
		b := Compose(RenderRequest{Kind: k, Fields: full(), Custom: CustomStyle{Pattern: "none"}})
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: unknown pattern differs from none", k)
		}
		if layout.Find(a.Root, "pattern") != nil {
			t.Errorf("%s: unknown pattern produced an overlay", k)
		}
	}
}

func TestPatternOverlayIsFirstLayer(t *testing.T) {
	for _, k := range Kinds {
		doc := Compose(RenderRequest{Kind: k, Fields: full(), Custom: CustomStyle{Pattern: "dots"}})
		first := doc.Root.Children[0]
		if first.ID != "pattern" || first.Pattern != layout.Dots || first.Position != layout.Absolute {
			t.Errorf("%s: first child = %q", k, first.ID)
		}
	}
	if PatternOverlay(layout.NoPattern, "#fff", 1) != nil {
		t.Error("NoPattern produced an overlay")
	}
}

func TestDocumentsAreFixedSize(t *testing.T) {
	for _, k := range Kinds {
		for _, wm := range []bool{false, true} {
			doc := Build(RenderRequest{Kind: k, Fields: full(), Watermarked: wm})
			if doc.Width != 1200 || doc.Height != 630 || doc.Root.Width != 1200 || doc.Root.Height != 630 {
				t.Errorf("%s watermarked=%v: size %vx%v", k, wm, doc.Width, doc.Height)
			}
		}
	}
}

func TestWatermark(t *testing.T) {
	base := Compose(RenderRequest{Kind: Social, Fields: full()})
	if ApplyWatermark(base, false) != base {
		t.Fatal("unwatermarked document was not passed through")
	}

	marked := ApplyWatermark(base, true)
	if !HasWatermark(marked) || HasWatermark(base) {
		t.Fatal("HasWatermark mismatch")
	}
	mark := layout.Find(marked.Root, "watermark-text")
	if mark.Text != WatermarkText || mark.FontSize != 72 || mark.Rotate != -25 || mark.Opacity != 0.15 {
		t.Errorf("watermark text node = %+v", mark)
	}
	if stripped := StripWatermark(marked); stripped.Root != base.Root {
		t.Error("StripWatermark did not return the original root")
	}
	if StripWatermark(base) != base {
		t.Error("StripWatermark changed an unmarked document")
	}
}

func TestParseParams(t *testing.T) {
	req, warnings := ParseParams(Params{
		"template":    "Social",
		"theme":       "sepia",
		"pattern":     "waves",
		"fontSize":    "big",
		"watermarked": "yes",
		"extra":       "1",
	})
	if req.Kind != Blog || req.Theme != Dark || req.Fields.Title != DefaultTitle || req.Watermarked {
		t.Errorf("request = %+v", req)
	}
	if len(warnings) != 6 {
		t.Errorf("got %d warnings, want 6: %q", len(warnings), warnings)
	}

	req, warnings = ParseParams(Params{"template": "minimal", "theme": "light", "watermarked": "true", "brandLogo": "u"})
	if req.Kind != Minimal || req.Theme != Light || !req.Watermarked || req.Custom.Logo != "u" || len(warnings) != 0 {
		t.Errorf("request = %+v warnings = %q", req, warnings)
	}
}

func TestLogoParamOnlyReachesProduct(t *testing.T) {
	for _, k := range Kinds {
		req, _ := ParseParams(Params{"template": k.String(), "title": "X", "logo": "https://x.test/l.png"})
		got := layout.Find(Build(req).Root, "logo") != nil
		if want := k == Product; got != want {
			t.Errorf("%s: logo node present = %v, want %v", k, got, want)
		}
	}
	for _, k := range Kinds {
		req, _ := ParseParams(Params{"template": k.String(), "title": "X", "brandLogo": "https://x.test/l.png"})
		if layout.Find(Build(req).Root, "logo") == nil {
			t.Errorf("%s: brandLogo did not draw a logo", k)
		}
	}
}

func TestCanonicalIsOrderIndependent(t *testing.T) {
	a := Params{"title": "x", "template": "blog", "ignored": "1"}
	b := Params{"template": "blog", "title": " x "}
	if a.Canonical() != b.Canonical() {
		t.Errorf("%q != %q", a.Canonical(), b.Canonical())
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	body := `{"defaults": {"theme": "light", "site": "a.dev"},
	  "cards": [{"output": "one.png", "params": {"title": "One", "site": ""}},
	            {"params": {"title": "lost"}},
	            {"output": "two.png", "params": {"title": "Two", "theme": "dark"}}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	m, warnings, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if len(m.Cards) != 2 || len(warnings) != 1 {
		t.Fatalf("cards=%d warnings=%q", len(m.Cards), warnings)
	}
	resolved := m.Resolved()
	if resolved[0]["site"] != "a.dev" || resolved[0]["theme"] != "light" {
		t.Errorf("first card = %v", resolved[0])
	}
	if resolved[1]["theme"] != "dark" {
		t.Errorf("second card = %v", resolved[1])
	}

	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadManifest(path); err == nil {
		t.Error("malformed manifest did not fail")
	}
}

func TestExampleManifestParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ogpix.json")
	if err := os.WriteFile(path, []byte(ExampleManifest()), 0o644); err != nil {
		t.Fatal(err)
	}
	m, warnings, err := LoadManifest(path)
	if err != nil || len(warnings) != 0 || len(m.Cards) != 4 {
		t.Fatalf("example manifest: %v %q", err, warnings)
	}
	if !strings.Contains(FormatTemplates(), "minimal") {
		t.Error("FormatTemplates misses a template")
	}
}
