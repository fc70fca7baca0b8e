package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	if cfg.Width != 1200 || cfg.Height != 630 {
		t.Errorf("%s is %dx%d", path, cfg.Width, cfg.Height)
	}
}

func TestRunWritesCard(t *testing.T) {
	out := filepath.Join(t.TempDir(), "card.png")
	err := run([]string{"-o", out, "-template", "social", "-title", "Launch!", "-author", "Alex", "-font-size", "60", "-watermarked"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	assertPNG(t, out)
}

func TestRunRequiresOutput(t *testing.T) {
	if err := run([]string{"-title", "x"}); err == nil {
		t.Error("expected an error without -o")
	}
}

func TestInitThenBatch(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "cards.json")
	if err := runInit([]string{"-o", manifest}); err != nil {
		t.Fatalf("init: %v", err)
	}

	out := filepath.Join(dir, "out")
	if err := runBatch([]string{"-manifest", manifest, "-dir", out, "-parallel", "2"}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	for _, name := range []string{"blog.png", "product.png", "social.png", "minimal.png"} {
		assertPNG(t, filepath.Join(out, name))
	}
}

func TestBatchCreatesNestedOutputDirs(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "cards.json")
	body := `{"cards": [
  {"output": "social/a.png", "params": {"template": "social", "title": "A"}},
  {"output": "deep/er/b.png", "params": {"title": "B"}}
]}`
	if err := os.WriteFile(manifest, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	if err := runBatch([]string{"-manifest", manifest, "-dir", out}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	assertPNG(t, filepath.Join(out, "social", "a.png"))
	assertPNG(t, filepath.Join(out, "deep", "er", "b.png"))
}
