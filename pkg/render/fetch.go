package render

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xob0t/ogpix/pkg/generator"
)

// Fetcher resolves an image URL to decoded pixels.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (image.Image, error)
}

// HTTPFetcher downloads images over HTTP(S) with a size cap.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher whose client gives up after timeout.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
	}
}

// Fetch downloads and decodes src.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = 2 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("image larger than %d bytes", limit)
	}

	img, _, err := generator.DecodeImage(data)
	return img, err
}

// StaticFetcher serves images from memory. It is used where the network is
// unavailable, such as the browser preview.
type StaticFetcher map[string]image.Image

// Fetch returns the registered image for src.
func (s StaticFetcher) Fetch(_ context.Context, src string) (image.Image, error) {
	if img, ok := s[src]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("no asset registered for %q", src)
}
