// ogpix: parametric Open Graph card rendering.
//
// Usage:
//
//	ogpix -o <file> [-template blog] [-title ...] [options]
//	ogpix batch -manifest <path> [-dir <out>]
//	ogpix serve [-addr :8080]
//	ogpix templates
//	ogpix init
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/xob0t/ogpix/internal/config"
	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
	"github.com/xob0t/ogpix/pkg/template"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "batch":
		err = runBatch(os.Args[2:])
	case "serve":
		err = runServe(os.Args[2:])
	case "init":
		err = runInit(os.Args[2:])
	case "templates":
		fmt.Print(template.FormatTemplates())
	case "help", "-h", "--help":
		printUsage()
	default:
		// Default: render one card (all flags on root).
		err = run(os.Args[1:])
	}
	if err != nil {
		fatal(err)
	}
}

// setup loads configuration and installs the JSON log handler.
func setup(configPath string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stderr, opts)
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newEngine builds a render engine from configuration.
func newEngine(cfg *config.Config, logger *slog.Logger) (*render.Engine, error) {
	fonts, err := generator.NewFontManager(cfg.Render.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	engine := render.New(fonts, render.Options{
		Workers:     cfg.Render.Workers,
		LogoTimeout: cfg.Render.LogoTimeout,
		Fetcher:     render.NewHTTPFetcher(cfg.Render.LogoTimeout, cfg.Render.LogoMaxBytes),
		Logger:      logger,
	})
	return engine, nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "cards.json", "Output path for the sample manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(template.ExampleManifest()), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("Created: %s\n", out)
	fmt.Printf("Run: ogpix batch -manifest %s -dir out\n", out)
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`ogpix: Open Graph card renderer (1200x630 PNG)

USAGE:
    ogpix -o <file> [options]
    ogpix batch -manifest <path> [-dir <out>] [-parallel N]
    ogpix serve [-addr :8080] [-config <path>]
    ogpix templates
    ogpix init [-o cards.json]

RENDER:
    -o, -output <path>     Output file (.png, .jpg or .bmp)
    -template <name>       blog, product, social or minimal (default: blog)
    -theme <name>          dark or light (default: dark)
    -title, -subtitle, -author, -date, -site, -handle, -logo <text>
    -bg, -color, -accent   Color or linear-gradient() overrides
    -font-size <n>         Title size override
    -tag <text>            Tag pill label
    -pattern <name>        dots, grid, diagonal or none
    -watermarked           Add the preview watermark
    -config <path>         Config file (YAML, JSON or TOML)

SERVER:
    ogpix serve            Start the HTTP API (GET /api/og, POST /api/render, ...)

EXAMPLES:
    ogpix -o card.png -template social -title "Launch day" -author Alex -handle alexdev
    ogpix -o card.png -template blog -pattern grid -accent "#112233"
    ogpix init && ogpix batch -manifest cards.json -dir out
`)
}
