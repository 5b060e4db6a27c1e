package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// DefaultThemeName is the built-in manifest shipped with the renderers.
	DefaultThemeName = "heights"
	// DarkVariant is the dark palette of the built-in manifest.
	DarkVariant = "dark"
)

// Partial keys understood by the renderers.
const (
	PartialPage   = "priceform.page"
	PartialResult = "priceform.result"
)

var (
	ErrUnknownTheme   = errors.New("render: unknown theme")
	ErrUnknownVariant = errors.New("render: unknown theme variant")
)

// DefaultThemeManifest returns the built-in "heights" manifest: a light base
// palette plus a dark variant.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":          "#2563eb",
			"brand-contrast": "#ffffff",
			"background":     "#eef2ff",
			"surface":        "#ffffff",
			"text":           "#0f172a",
			"muted":          "#64748b",
			"border":         "#cbd5e1",
			"success":        "#15803d",
			"success-soft":   "#dcfce7",
			"danger":         "#b91c1c",
			"danger-soft":    "#fee2e2",
			"radius":         "12px",
		},
		Templates: map[string]string{
			PartialPage:   "page",
			PartialResult: "result",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "priceform.css",
			},
		},
		Variants: map[string]theme.Variant{
			DarkVariant: {
				Tokens: map[string]string{
					"brand":        "#60a5fa",
					"background":   "#0b1120",
					"surface":      "#111827",
					"text":         "#e2e8f0",
					"muted":        "#94a3b8",
					"border":       "#334155",
					"success":      "#4ade80",
					"success-soft": "#052e16",
					"danger":       "#f87171",
					"danger-soft":  "#450a0a",
				},
			},
		},
	}
}

// ThemeSelector resolves theme/variant names against a fixed set of
// manifests. Empty names select the defaults.
type ThemeSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ThemeSelector)(nil)

// NewThemeSelector validates the manifests through a go-theme registry and
// returns a selector defaulting to defaultTheme/defaultVariant. With no
// manifests the built-in one is used.
func NewThemeSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ThemeSelector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultThemeManifest()}
	}
	registry := theme.NewRegistry()
	selector := &ThemeSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
		}
		selector.manifests[manifest.Name] = manifest
	}
	if selector.defaultTheme == "" {
		selector.defaultTheme = manifests[0].Name
	}
	if _, err := selector.Select("", ""); err != nil {
		return nil, err
	}
	return selector, nil
}

// Select implements theme.ThemeSelector.
func (s *ThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	variant = strings.TrimSpace(variant)
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}

	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q (theme %q)", ErrUnknownVariant, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ThemeConfig flattens a selection into renderer configuration. Variant
// tokens, templates and asset files override the base manifest; fallbacks
// fill partials neither defines.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	partials := mergeMaps(fallbacks, manifest.Templates, variant.Templates)
	tokens := mergeMaps(manifest.Tokens, variant.Tokens)
	files := mergeMaps(manifest.Assets.Files, variant.Assets.Files)

	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if strings.Contains(file, "://") || prefix == "" {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// CSSVarsStyle renders the CSS variables as a declaration list suitable for a
// :root block. Values containing characters that could end the block are
// skipped.
func CSSVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(cfg.CSSVars))
	for key := range cfg.CSSVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		value := cfg.CSSVars[key]
		if strings.ContainsAny(key+value, ";{}<>") {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(key + ": " + value + ";")
	}
	return b.String()
}

// Partial returns the template name configured for key, or fallback.
func Partial(cfg *theme.RendererConfig, key, fallback string) string {
	if cfg != nil {
		if name := strings.TrimSpace(cfg.Partials[key]); name != "" {
			return name
		}
	}
	return fallback
}

func mergeMaps(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}
