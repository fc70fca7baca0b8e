package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
)

// assetScheme prefixes logo values that refer to an uploaded asset.
const assetScheme = "asset:"

// errAssetLimit is returned by add once the manager is full.
var errAssetLimit = errors.New("asset limit reached")

type asset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Mime     string    `json:"mime"`
	Size     int       `json:"size"`
	Uploaded time.Time `json:"uploaded"`

	data  []byte
	image image.Image
}

// assetManager holds at most limit uploaded logo images in memory.
type assetManager struct {
	mu     sync.RWMutex
	assets map[string]*asset
	limit  int
}

func newAssetManager(limit int) *assetManager {
	return &assetManager{assets: make(map[string]*asset), limit: limit}
}

func (am *assetManager) full() bool {
	am.mu.RLock()
	defer am.mu.RUnlock()
	return len(am.assets) >= am.limit
}

// add decodes data and stores it. Data that is not a supported image is
// rejected, as is any upload once the manager is full.
func (am *assetManager) add(name string, data []byte) (*asset, error) {
	if am.full() {
		return nil, errAssetLimit
	}
	img, format, err := generator.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	a := &asset{
		ID:       uuid.NewString(),
		Name:     name,
		Mime:     "image/" + format,
		Size:     len(data),
		Uploaded: time.Now().UTC(),
		data:     bytes.Clone(data),
		image:    img,
	}
	am.mu.Lock()
	defer am.mu.Unlock()
	if len(am.assets) >= am.limit {
		return nil, errAssetLimit
	}
	am.assets[a.ID] = a
	return a, nil
}

func (am *assetManager) get(id string) (*asset, bool) {
	am.mu.RLock()
	a, ok := am.assets[id]
	am.mu.RUnlock()
	return a, ok
}

func (am *assetManager) list() []*asset {
	am.mu.RLock()
	out := make([]*asset, 0, len(am.assets))
	for _, a := range am.assets {
		out = append(out, a)
	}
	am.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Uploaded.Before(out[j].Uploaded) })
	return out
}

func (am *assetManager) remove(id string) bool {
	am.mu.Lock()
	defer am.mu.Unlock()
	if _, ok := am.assets[id]; !ok {
		return false
	}
	delete(am.assets, id)
	return true
}

// assetFetcher resolves asset references from the manager and hands every
// other source to next.
type assetFetcher struct {
	assets *assetManager
	next   render.Fetcher
}

var _ render.Fetcher = assetFetcher{}

func (f assetFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	id, ok := strings.CutPrefix(src, assetScheme)
	if !ok {
		return f.next.Fetch(ctx, src)
	}
	a, ok := f.assets.get(id)
	if !ok {
		return nil, fmt.Errorf("unknown asset %q", id)
	}
	return a.image, nil
}
