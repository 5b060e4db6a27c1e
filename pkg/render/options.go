package render

import (
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-priceform/pkg/model"
)

// RenderOptions carry the per-request data a renderer needs on top of the
// form model.
type RenderOptions struct {
	// Values holds the current input values keyed by field name. float64
	// values are printed the way an input control would show them.
	Values map[string]any
	// State is the request state of the latest submission and decides which
	// result panel, if any, is shown.
	State model.RequestState
	// Theme carries tokens, CSS variables and asset URLs resolved from a
	// go-theme selection. Nil falls back to the renderer's built-in styles.
	Theme *theme.RendererConfig
	// HiddenFields are emitted as hidden inputs (for example the CSRF token).
	HiddenFields map[string]string
	// Action overrides the form's submit target.
	Action string
}

// FeatureValues converts a FeatureSet into the Values shape.
func FeatureValues(features model.FeatureSet) map[string]any {
	return features.AnyValues()
}

// DisplayValue formats the value stored for name. Missing names fall back to
// the field default.
func (o RenderOptions) DisplayValue(field model.Field) string {
	raw, ok := o.Values[field.Name]
	if !ok || raw == nil {
		return model.FormatValue(field.Default)
	}
	switch value := raw.(type) {
	case float64:
		return model.FormatValue(value)
	case float32:
		return model.FormatValue(float64(value))
	case int:
		return model.FormatValue(float64(value))
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
