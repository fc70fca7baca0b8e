// validator.go - Report parameter values that will be normalized.
package template

import (
	"fmt"
	"slices"
	"strings"

	"github.com/xob0t/ogpix/pkg/layout"
)

// Validate returns warnings (never fatal errors) for parameters that the
// engine will silently remap: unknown template, theme or pattern names,
// malformed font sizes and unknown keys.
func Validate(p Params) []string {
	var warnings []string
	get := func(name string) string { return strings.TrimSpace(p[name]) }

	if v := get("template"); v != "" && ParseKind(v).String() != v {
		warnings = append(warnings, fmt.Sprintf("unknown template %q, using blog", v))
	}
	if v := get("theme"); v != "" && v != "light" && v != "dark" {
		warnings = append(warnings, fmt.Sprintf("unknown theme %q, using dark", v))
	}
	if v := get("pattern"); v != "" && v != "none" && layout.ParsePattern(v) == layout.NoPattern {
		warnings = append(warnings, fmt.Sprintf("unknown pattern %q, drawing none", v))
	}
	if v := get("fontSize"); v != "" {
		if _, ok := parseFontSize(v); !ok {
			warnings = append(warnings, fmt.Sprintf("fontSize %q is not an integer between 1 and %d, using the title-length default", v, MaxFontSize))
		}
	}
	for _, k := range sortedKeys(p) {
		if !slices.Contains(ParamNames, k) {
			warnings = append(warnings, fmt.Sprintf("unknown parameter %q ignored", k))
		}
	}

	return warnings
}

// FormatTemplates returns a human-readable description of every template
// and the parameters it reads.
func FormatTemplates() string {
	var b strings.Builder
	for _, k := range Kinds {
		s := Schemas[k]
		fmt.Fprintf(&b, "%s - %s\n", k, s.Description)
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "    %-10s %s\n", f.Name+":", f.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("Style parameters (all templates):\n")
	for _, f := range StyleFields {
		fmt.Fprintf(&b, "    %-10s %s\n", f.Name+":", f.Description)
	}
	return b.String()
}
