// loader.go - Turn raw request parameters into a RenderRequest and load
// batch manifests.
package template

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
)

// DefaultTitle is used when a request carries no title.
const DefaultTitle = "Hello World"

// Params is a flat set of request parameters as they arrive from a query
// string, a JSON body or a manifest entry.
type Params map[string]string

// ParamNames lists every parameter the engine understands.
var ParamNames = []string{
	"template", "theme",
	"title", "subtitle", "author", "date", "site", "handle", "logo",
	"bg", "color", "accent", "fontSize", "brandLogo", "tag", "pattern",
	"watermarked",
}

// FromValues keeps the first value of every known parameter.
func FromValues(v url.Values) Params {
	p := make(Params, len(ParamNames))
	for _, name := range ParamNames {
		if val := v.Get(name); val != "" {
			p[name] = val
		}
	}
	return p
}

// Merge returns a copy of p with every non-empty value of over applied.
func (p Params) Merge(over Params) Params {
	out := make(Params, len(p)+len(over))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range over {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Canonical returns a stable encoding of the known parameters, suitable as a
// cache key.
func (p Params) Canonical() string {
	v := url.Values{}
	for _, name := range ParamNames {
		if val := strings.TrimSpace(p[name]); val != "" {
			v.Set(name, val)
		}
	}
	return v.Encode()
}

// ParseParams builds a RenderRequest from p. It never fails: malformed values
// are normalized and reported as warnings.
func ParseParams(p Params) (RenderRequest, []string) {
	get := func(name string) string { return strings.TrimSpace(p[name]) }

	req := RenderRequest{
		Kind:  ParseKind(get("template")),
		Theme: ParseTheme(get("theme")),
		Fields: ContentFields{
			Title:    get("title"),
			Subtitle: get("subtitle"),
			Author:   get("author"),
			Date:     get("date"),
			Site:     get("site"),
			Handle:   get("handle"),
			Logo:     get("logo"),
		},
		Custom: CustomStyle{
			Background: get("bg"),
			Color:      get("color"),
			Accent:     get("accent"),
			FontSize:   get("fontSize"),
			Logo:       get("brandLogo"),
			Tag:        get("tag"),
			Pattern:    get("pattern"),
		},
	}
	if req.Fields.Title == "" {
		req.Fields.Title = DefaultTitle
	}

	var warnings []string
	if raw := get("watermarked"); raw != "" {
		wm, err := strconv.ParseBool(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("watermarked=%q is not a boolean, using false", raw))
		}
		req.Watermarked = wm
	}
	warnings = append(warnings, Validate(p)...)

	return req, warnings
}

// ── Batch manifests ──

// Manifest describes a batch of cards rendered by `ogpix batch`.
type Manifest struct {
	Defaults Params `json:"defaults"`
	Cards    []Card `json:"cards"`
}

// Card is one manifest entry. Its params are merged over the defaults.
type Card struct {
	Output string `json:"output"`
	Params Params `json:"params"`
}

// LoadManifest reads and parses a manifest file. Entries without an output
// path are dropped with a warning.
func LoadManifest(path string) (*Manifest, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, nil, fmt.Errorf("parse manifest: %w", err)
	}

	var warnings []string
	seen := make(map[string]int, len(m.Cards))
	cards := m.Cards[:0]
	for i, c := range m.Cards {
		if c.Output == "" {
			warnings = append(warnings, fmt.Sprintf("card %d has no output path, skipped", i))
			continue
		}
		if prev, ok := seen[c.Output]; ok {
			warnings = append(warnings, fmt.Sprintf("card %d overwrites output %q of card %d", i, c.Output, prev))
		}
		seen[c.Output] = i
		cards = append(cards, c)
	}
	m.Cards = cards

	return &m, warnings, nil
}

// Resolved returns the merged params of every card, in manifest order.
func (m *Manifest) Resolved() []Params {
	out := make([]Params, len(m.Cards))
	for i, c := range m.Cards {
		out[i] = m.Defaults.Merge(c.Params)
	}
	return out
}

func sortedKeys(p Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
