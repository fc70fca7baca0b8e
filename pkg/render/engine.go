// Package render is the single entry point that turns a RenderRequest into
// a 1200×630 PNG. It selects and runs the template, fetches logos with a
// time bound, applies the watermark and rasterizes under a worker bound.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/layout"
	"github.com/xob0t/ogpix/pkg/template"
)

// ErrRenderFailed is returned for any failure inside the pipeline. Callers
// never receive partial output alongside it.
var ErrRenderFailed = errors.New("failed to generate image")

// Observer receives render outcomes, typically for metrics.
type Observer interface {
	ObserveRender(kind string, d time.Duration, err error)
	ObserveLogo(outcome string)
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Workers     int
	LogoTimeout time.Duration
	MaxLogos    int
	Fetcher     Fetcher
	Logger      *slog.Logger
	Observer    Observer
}

// Engine renders cards. It holds only immutable shared state and is safe
// for concurrent use.
type Engine struct {
	raster      *generator.Rasterizer
	sem         *semaphore.Weighted
	fetcher     Fetcher
	logoTimeout time.Duration
	maxLogos    int
	log         *slog.Logger
	observer    Observer
}

// Result is one rendered card.
type Result struct {
	PNG  []byte
	Kind template.Kind
	// Degraded reports that a logo could not be fetched and was left out.
	// Degraded output should not be cached.
	Degraded bool
}

// Frame is a rendered card before encoding.
type Frame struct {
	Image    *image.RGBA
	Kind     template.Kind
	Degraded bool
}

// New creates an Engine drawing text with fonts.
func New(fonts *generator.FontManager, opts Options) *Engine {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.LogoTimeout <= 0 {
		opts.LogoTimeout = 3 * time.Second
	}
	if opts.MaxLogos <= 0 {
		opts.MaxLogos = 4
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewHTTPFetcher(opts.LogoTimeout, 2<<20)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Engine{
		raster:      generator.NewRasterizer(fonts),
		sem:         semaphore.NewWeighted(int64(opts.Workers)),
		fetcher:     opts.Fetcher,
		logoTimeout: opts.LogoTimeout,
		maxLogos:    opts.MaxLogos,
		log:         opts.Logger,
		observer:    opts.Observer,
	}
}

// Render produces the PNG for req.
func (e *Engine) Render(ctx context.Context, req template.RenderRequest) (*Result, error) {
	frame, err := e.Image(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := generator.EncodePNG(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return &Result{PNG: data, Kind: frame.Kind, Degraded: frame.Degraded}, nil
}

// Image renders req to pixels. Every error wraps ErrRenderFailed.
func (e *Engine) Image(ctx context.Context, req template.RenderRequest) (frame *Frame, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			frame, err = nil, fmt.Errorf("%w: panic: %v", ErrRenderFailed, r)
		}
		if err != nil {
			e.log.Error("render failed", "template", req.Kind.String(), "error", err)
		}
		if e.observer != nil {
			e.observer.ObserveRender(req.Kind.String(), time.Since(start), err)
		}
	}()

	doc := template.Compose(req)
	images, degraded := e.fetchImages(ctx, doc)
	doc = template.ApplyWatermark(doc, req.Watermarked)

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	img, err := e.raster.Rasterize(doc, images)
	e.sem.Release(1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	if b := img.Bounds(); b.Dx() != template.Width || b.Dy() != template.Height {
		return nil, fmt.Errorf("%w: rendered %dx%d", ErrRenderFailed, b.Dx(), b.Dy())
	}

	return &Frame{Image: img, Kind: req.Kind, Degraded: degraded}, nil
}

// fetchImages downloads every image the document references, each bounded
// by the logo timeout, and prunes the nodes whose fetch failed so the layout
// flows as if the field were absent.
func (e *Engine) fetchImages(ctx context.Context, doc *layout.Document) (map[string]image.Image, bool) {
	nodes := layout.Collect(doc.Root, func(n *layout.Node) bool { return n.Kind == layout.Image })
	if len(nodes) == 0 {
		return nil, false
	}

	var (
		mu     sync.Mutex
		images = make(map[string]image.Image, len(nodes))
		seen   = make(map[string]bool, len(nodes))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxLogos)
	for _, n := range nodes {
		src := n.Src
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, e.logoTimeout)
			defer cancel()

			img, err := e.fetcher.Fetch(fctx, src)
			if err != nil {
				e.log.Warn("logo fetch failed, omitting image", "src", src, "error", err)
				e.observeLogo("failed")
				return nil
			}
			e.observeLogo("ok")
			mu.Lock()
			images[src] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	removed := layout.Prune(doc.Root, func(n *layout.Node) bool {
		return n.Kind == layout.Image && images[n.Src] == nil
	})
	return images, removed > 0
}

func (e *Engine) observeLogo(outcome string) {
	if e.observer != nil {
		e.observer.ObserveLogo(outcome)
	}
}
