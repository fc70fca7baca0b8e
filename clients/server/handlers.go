package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xob0t/ogpix/internal/metrics"
	"github.com/xob0t/ogpix/internal/storage"
	"github.com/xob0t/ogpix/pkg/template"
)

const failedMessage = "Failed to generate image"

const maxBodyBytes = 64 << 10

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type templateDoc struct {
	Templates []template.Schema `json:"templates"`
	Style     []template.Field  `json:"style"`
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	doc := templateDoc{Style: template.StyleFields}
	for _, k := range template.Kinds {
		doc.Templates = append(doc.Templates, template.Schemas[k])
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleOG renders a card from query parameters.
func (s *Server) handleOG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	preview, _ := strconv.ParseBool(q.Get("preview"))
	s.serveCard(w, r, template.FromValues(q), preview)
}

// handleRender renders a card from a JSON object of parameters.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	p, preview, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.serveCard(w, r, p, preview)
}

// effectiveRequest applies the caller's entitlement to p: anonymous
// previews are always watermarked.
func effectiveRequest(r *http.Request, p template.Params, preview bool) (template.RenderRequest, template.Params, []string) {
	if preview && !callerFrom(r.Context()).Authorized {
		p = p.Merge(template.Params{"watermarked": "true"})
	}
	req, warnings := template.ParseParams(p)
	p = p.Merge(nil)
	if req.Watermarked {
		p["watermarked"] = "true"
	} else {
		delete(p, "watermarked")
	}
	return req, p, warnings
}

func (s *Server) serveCard(w http.ResponseWriter, r *http.Request, p template.Params, preview bool) {
	ctx := r.Context()
	log := loggerFrom(ctx)

	req, p, warnings := effectiveRequest(r, p, preview)
	for _, warn := range warnings {
		log.Debug("request parameter normalized", "warning", warn)
	}

	canonical := p.Canonical()
	if data, ok := s.cache.Get(ctx, canonical); ok {
		metrics.CacheLookup(true)
		writePNG(w, data, true, "HIT")
		return
	}
	if s.cache != nil {
		metrics.CacheLookup(false)
	}

	res, err := s.engine.Render(ctx, req)
	if err != nil {
		http.Error(w, failedMessage, http.StatusInternalServerError)
		return
	}
	if !res.Degraded {
		s.cache.Set(ctx, canonical, res.PNG)
	}
	writePNG(w, res.PNG, !res.Degraded, "MISS")
}

type snapshotResponse struct {
	*storage.Snapshot
	Template string `json:"template"`
	Degraded bool   `json:"degraded"`
}

// handleSnapshot renders a card and stores it, returning a download link.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		http.Error(w, storage.ErrDisabled.Error(), http.StatusServiceUnavailable)
		return
	}
	if !callerFrom(r.Context()).Authorized {
		http.Error(w, "API key required", http.StatusUnauthorized)
		return
	}

	p, preview, err := decodeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, _, _ := effectiveRequest(r, p, preview)

	ctx := r.Context()
	res, err := s.engine.Render(ctx, req)
	if err != nil {
		http.Error(w, failedMessage, http.StatusInternalServerError)
		return
	}

	key := storage.ObjectKey(res.Kind.String(), uuid.NewString())
	snap, err := s.storage.PutSnapshot(ctx, key, res.PNG)
	if err != nil {
		loggerFrom(ctx).Error("store snapshot", "key", key, "error", err)
		http.Error(w, "Failed to store image", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusCreated, snapshotResponse{Snapshot: snap, Template: res.Kind.String(), Degraded: res.Degraded})
}

// ── Assets ──

func (s *Server) handleUploadAsset(w http.ResponseWriter, r *http.Request) {
	if !callerFrom(r.Context()).Authorized {
		http.Error(w, "API key required", http.StatusUnauthorized)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxLogo+(1<<20))
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "no file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.maxLogo+1))
	if err != nil {
		http.Error(w, "read file: "+err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.maxLogo {
		http.Error(w, fmt.Sprintf("image larger than %d bytes", s.maxLogo), http.StatusRequestEntityTooLarge)
		return
	}

	a, err := s.assets.add(header.Filename, data)
	if errors.Is(err, errAssetLimit) {
		http.Error(w, err.Error(), http.StatusInsufficientStorage)
		return
	}
	if err != nil {
		http.Error(w, "unsupported image: "+err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":   a.ID,
		"name": a.Name,
		"logo": assetScheme + a.ID,
		"url":  "/api/assets/" + a.ID,
	})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	a, ok := s.assets.get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", a.Mime)
	w.Write(a.data)
}

func (s *Server) handleListAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.assets.list())
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if !callerFrom(r.Context()).Authorized {
		http.Error(w, "API key required", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if !s.assets.remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

// decodeParams reads a JSON object of parameters. Numbers and booleans are
// accepted and converted to their string form.
func decodeParams(r *http.Request) (template.Params, bool, error) {
	var raw map[string]any
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return template.Params{}, false, nil
		}
		return nil, false, fmt.Errorf("decode request: %w", err)
	}

	p := make(template.Params, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			p[k] = v
		case json.Number, bool:
			p[k] = fmt.Sprint(v)
		default:
			return nil, false, fmt.Errorf("parameter %q must be a string, number or boolean", k)
		}
	}
	preview, _ := strconv.ParseBool(p["preview"])
	delete(p, "preview")
	return p, preview, nil
}

func writePNG(w http.ResponseWriter, data []byte, cacheable bool, cacheStatus string) {
	h := w.Header()
	h.Set("Content-Type", "image/png")
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("X-Cache", cacheStatus)
	if cacheable {
		h.Set("Cache-Control", "public, immutable, no-transform, max-age=31536000")
	} else {
		h.Set("Cache-Control", "no-store")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
