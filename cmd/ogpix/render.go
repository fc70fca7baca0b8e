package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
	"github.com/xob0t/ogpix/pkg/template"
)

func run(args []string) error {
	fs := flag.NewFlagSet("ogpix", flag.ExitOnError)

	var (
		output      string
		configPath  string
		fontSize    int
		watermarked bool
	)
	p := template.Params{}
	str := func(name, param, usage string) {
		fs.Func(name, usage, func(v string) error {
			p[param] = v
			return nil
		})
	}

	fs.StringVar(&output, "o", "", "Output file path (.png, .jpg or .bmp)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .jpg or .bmp)")
	fs.StringVar(&configPath, "config", "", "Config file path")
	str("template", "template", "Template: blog, product, social or minimal")
	str("theme", "theme", "Theme: dark or light")
	for _, name := range []string{"title", "subtitle", "author", "date", "site", "handle", "logo", "brandLogo", "bg", "color", "accent", "tag", "pattern"} {
		str(name, name, "Card "+name)
	}
	fs.IntVar(&fontSize, "font-size", 0, "Title size override")
	fs.BoolVar(&watermarked, "watermarked", false, "Add the preview watermark")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}
	if fontSize > 0 {
		p["fontSize"] = strconv.Itoa(fontSize)
	}
	if watermarked {
		p["watermarked"] = "true"
	}

	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req, warnings := template.ParseParams(p)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	degraded, err := renderTo(ctx, engine, req, output)
	if err != nil {
		return err
	}
	if degraded {
		fmt.Fprintln(os.Stderr, "Warning: logo could not be fetched and was omitted")
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

// renderTo renders req and writes it to path in the format its extension
// names.
func renderTo(ctx context.Context, engine *render.Engine, req template.RenderRequest, path string) (bool, error) {
	frame, err := engine.Image(ctx, req)
	if err != nil {
		return false, err
	}
	if err := generator.WriteFile(path, frame.Image); err != nil {
		return false, err
	}
	return frame.Degraded, nil
}

func runBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	var (
		manifestPath string
		dir          string
		configPath   string
		parallel     int
	)
	fs.StringVar(&manifestPath, "manifest", "cards.json", "Path to the batch manifest")
	fs.StringVar(&dir, "dir", ".", "Output directory for relative paths")
	fs.StringVar(&configPath, "config", "", "Config file path")
	fs.IntVar(&parallel, "parallel", 4, "Cards rendered concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}
	manifest, warnings, err := template.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var done, degraded atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, params := range manifest.Resolved() {
		card := manifest.Cards[i]
		g.Go(func() error {
			out := card.Output
			if !filepath.IsAbs(out) {
				out = filepath.Join(dir, out)
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("%s: %w", card.Output, err)
			}
			req, warnings := template.ParseParams(params)
			for _, w := range warnings {
				logger.Warn("card parameter normalized", "output", card.Output, "warning", w)
			}
			d, err := renderTo(gctx, engine, req, out)
			if err != nil {
				return fmt.Errorf("%s: %w", card.Output, err)
			}
			if d {
				degraded.Add(1)
			}
			done.Add(1)
			fmt.Printf("Rendered: %s\n", out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Done: %d cards (%d without logo)\n", done.Load(), degraded.Load())
	return nil
}
