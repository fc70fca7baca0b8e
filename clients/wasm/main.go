//go:build js && wasm

// ogpix WASM: client-side card preview.
// Compiled with: GOOS=js GOARCH=wasm go build -o ogpix.wasm ./clients/wasm/
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"sync"
	"syscall/js"

	"github.com/xob0t/ogpix/pkg/generator"
	"github.com/xob0t/ogpix/pkg/render"
	"github.com/xob0t/ogpix/pkg/template"
)

// assetStore serves logos registered from JavaScript. The browser fetches
// remote logos itself and hands the bytes over, since the engine cannot
// reach the network from here.
type assetStore struct {
	mu     sync.RWMutex
	images render.StaticFetcher
}

func (s *assetStore) Fetch(ctx context.Context, src string) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.images.Fetch(ctx, src)
}

var (
	assets = &assetStore{images: render.StaticFetcher{}}
	engine *render.Engine
)

func main() {
	fonts, err := generator.NewFontManager("")
	if err != nil {
		fmt.Println("ogpix: load fonts:", err)
		return
	}
	engine = render.New(fonts, render.Options{Workers: 1, Fetcher: assets})
	fmt.Println("ogpix WASM loaded")

	js.Global().Set("goRenderImage", js.FuncOf(renderImage))
	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goValidate", js.FuncOf(validate))
	js.Global().Set("goTemplates", js.FuncOf(templates))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goRegisterAsset(url, base64Data, mime) stores a decoded logo under url.
func registerAsset(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("error: need url, base64Data")
	}
	url := args[0].String()
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}
	img, _, err := generator.DecodeImage(data)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	assets.mu.Lock()
	assets.images[url] = img
	assets.mu.Unlock()
	return js.ValueOf("ok")
}

// goRemoveAsset(url) forgets a registered logo.
func removeAsset(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need url")
	}
	assets.mu.Lock()
	delete(assets.images, args[0].String())
	assets.mu.Unlock()
	return js.ValueOf("ok")
}

func parseParams(args []js.Value) (template.Params, error) {
	p := template.Params{}
	if len(args) < 1 || args[0].IsUndefined() || args[0].IsNull() {
		return p, nil
	}
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return nil, fmt.Errorf("parse params: %w", err)
	}
	return p, nil
}

// goRenderImage(paramsJSON) renders a card and returns it as base64 PNG.
func renderImage(_ js.Value, args []js.Value) any {
	p, err := parseParams(args)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	req, _ := template.ParseParams(p)
	res, err := engine.Render(context.Background(), req)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	return js.ValueOf(base64.StdEncoding.EncodeToString(res.PNG))
}

// goValidate(paramsJSON) returns the normalization warnings as a JSON array.
func validate(_ js.Value, args []js.Value) any {
	p, err := parseParams(args)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}
	_, warnings := template.ParseParams(p)
	if warnings == nil {
		warnings = []string{}
	}
	out, _ := json.Marshal(warnings)
	return js.ValueOf(string(out))
}

// goTemplates() returns the template documentation as JSON.
func templates(_ js.Value, _ []js.Value) any {
	docs := make([]template.Schema, 0, len(template.Kinds))
	for _, k := range template.Kinds {
		docs = append(docs, template.Schemas[k])
	}
	out, _ := json.Marshal(map[string]any{"templates": docs, "style": template.StyleFields})
	return js.ValueOf(string(out))
}
