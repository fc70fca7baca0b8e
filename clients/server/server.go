// Package server provides the ogpix HTTP API: on-demand card rendering,
// stored snapshots and logo uploads.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/xob0t/ogpix/internal/cache"
	"github.com/xob0t/ogpix/internal/metrics"
	"github.com/xob0t/ogpix/internal/storage"
	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
)

// Options configures a Server. Cache and Storage may be nil.
type Options struct {
	Fonts        *generator.FontManager
	Render       render.Options
	LogoMaxBytes int64
	Cache        *cache.ImageCache
	Storage      *storage.Client
	APIKeys      []string
	// RateLimit is the per-key request rate. Zero selects 10 per second.
	RateLimit rate.Limit
	Burst     int
	// MaxAssets caps the number of uploaded logos held in memory. Zero
	// selects 256.
	MaxAssets int
	Logger    *slog.Logger
}

// Server serves the HTTP API.
type Server struct {
	engine  *render.Engine
	cache   *cache.ImageCache
	storage *storage.Client
	assets  *assetManager
	keys    map[string]struct{}
	limiter *keyLimiter
	maxLogo int64
	log     *slog.Logger
}

// New creates a Server. The render engine resolves uploaded assets before
// falling back to the configured fetcher.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.LogoMaxBytes <= 0 {
		opts.LogoMaxBytes = 2 << 20
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.MaxAssets <= 0 {
		opts.MaxAssets = 256
	}

	assets := newAssetManager(opts.MaxAssets)
	next := opts.Render.Fetcher
	if next == nil {
		timeout := opts.Render.LogoTimeout
		if timeout <= 0 {
			timeout = 3 * time.Second
		}
		next = render.NewHTTPFetcher(timeout, opts.LogoMaxBytes)
	}
	ropts := opts.Render
	ropts.Fetcher = assetFetcher{assets: assets, next: next}
	if ropts.Logger == nil {
		ropts.Logger = opts.Logger
	}
	if ropts.Observer == nil {
		ropts.Observer = metrics.RenderObserver{}
	}

	keys := make(map[string]struct{}, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		keys[k] = struct{}{}
	}

	return &Server{
		engine:  render.New(opts.Fonts, ropts),
		cache:   opts.Cache,
		storage: opts.Storage,
		assets:  assets,
		keys:    keys,
		limiter: newKeyLimiter(opts.RateLimit, opts.Burst),
		maxLogo: opts.LogoMaxBytes,
		log:     opts.Logger,
	}
}

// Handler returns the router with every route and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(correlationID)
	r.Use(requestLogger(s.log))
	r.Use(recoverer)
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", s.handleTemplates)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Get("/og", s.handleOG)
			r.Post("/render", s.handleRender)
			r.Post("/og/snapshot", s.handleSnapshot)

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", s.handleListAssets)
				r.Post("/", s.handleUploadAsset)
				r.Get("/{id}", s.handleGetAsset)
				r.Delete("/{id}", s.handleDeleteAsset)
			})
		})
	})
	return r
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("ogpix server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
