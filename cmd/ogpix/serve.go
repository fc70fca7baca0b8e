package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/xob0t/ogpix/clients/server"
	"github.com/xob0t/ogpix/internal/cache"
	"github.com/xob0t/ogpix/internal/storage"
	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var configPath, addr string
	fs.StringVar(&configPath, "config", "", "Config file path")
	fs.StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fonts, err := generator.NewFontManager(cfg.Render.FontPath)
	if err != nil {
		return err
	}

	var imageCache *cache.ImageCache
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("image cache disabled", "error", err)
		} else {
			defer client.Close()
			imageCache = cache.New(client, cfg.Redis.TTL)
		}
	}

	var store *storage.Client
	if cfg.MinIO.Enabled() {
		store, err = storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			logger.Warn("snapshot storage disabled", "error", err)
			store = nil
		}
	}

	srv := server.New(server.Options{
		Fonts: fonts,
		Render: render.Options{
			Workers:     cfg.Render.Workers,
			LogoTimeout: cfg.Render.LogoTimeout,
		},
		LogoMaxBytes: cfg.Render.LogoMaxBytes,
		Cache:        imageCache,
		Storage:      store,
		APIKeys:      cfg.Auth.APIKeys,
		Logger:       logger,
	})
	logger.Info("starting ogpix",
		"addr", cfg.Server.Addr,
		"cache", imageCache != nil,
		"storage", store != nil,
		"api_keys", len(cfg.Auth.APIKeys),
	)
	return srv.Run(ctx, cfg.Server.Addr)
}
