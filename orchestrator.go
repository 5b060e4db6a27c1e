package priceform

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-priceform/pkg/client"
	"github.com/goliatone/go-priceform/pkg/controller"
	"github.com/goliatone/go-priceform/pkg/model"
	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
	"github.com/goliatone/go-priceform/pkg/orchestrator"
	"github.com/goliatone/go-priceform/pkg/render"
)

// RenderOptions carries the values, request state and hidden fields a
// renderer draws.
type RenderOptions = render.RenderOptions

// FeatureSet is the thirteen-field record sent to the prediction service.
type FeatureSet = model.FeatureSet

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the OpenAPI source, builds the prediction form and
// renders it with default values using the named renderer. A nil source uses
// the embedded contract.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:        source,
		Renderer:      rendererName,
		RenderOptions: defaultRenderOptions(),
	})
}

// GenerateHTMLFromDocument renders the form from a pre-loaded document,
// bypassing the loader stage while still delegating to the orchestrator.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document:      &doc,
		Renderer:      rendererName,
		RenderOptions: defaultRenderOptions(),
	})
}

// NewController wires a Form Controller to the prediction service at baseURL.
func NewController(baseURL string, clientOptions []client.Option, options ...controller.Option) (*controller.Controller, error) {
	return controller.New(client.New(baseURL, clientOptions...), options...)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

func defaultRenderOptions() render.RenderOptions {
	return render.RenderOptions{
		Values: render.FeatureValues(model.DefaultFeatures()),
		State:  model.Idle(),
	}
}
