package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
	"github.com/goliatone/go-priceform/pkg/render"
)

func TestOrchestrator_GenerateWithDefaults(t *testing.T) {
	orch := New()

	output, err := orch.Generate(context.Background(), Request{
		RenderOptions: render.RenderOptions{
			Values: render.FeatureValues(pkgmodel.DefaultFeatures()),
			State:  pkgmodel.Succeeded(1, "$24,000.00"),
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	for _, want := range []string{
		"🏡 Heights Real Estate Price Predictor",
		"🔮 Predict House Price",
		"Location &amp; Environment",
		"$24,000.00",
		"--brand: #2563eb;",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}

	contentType, err := orch.ContentType("")
	if err != nil || contentType != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q (%v)", contentType, err)
	}
}

func TestOrchestrator_FormIsDecorated(t *testing.T) {
	form, err := New().Form(context.Background(), Request{})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.OperationID != pkgopenapi.DefaultOperationID {
		t.Fatalf("unexpected operation %q", form.OperationID)
	}
	if len(form.Fields) != 13 {
		t.Fatalf("expected 13 fields, got %d", len(form.Fields))
	}
	if form.Sections[0].Icon != "📍" || form.Sections[0].Title != "Location & Environment" {
		t.Fatalf("unexpected first section %+v", form.Sections[0])
	}

	plain, err := New(WithUISchemaFS(nil)).Form(context.Background(), Request{})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if plain.Sections[0].Title != "Location" {
		t.Fatalf("expected undecorated section title, got %q", plain.Sections[0].Title)
	}
}

func TestOrchestrator_TerminalRenderer(t *testing.T) {
	output, err := New().Generate(context.Background(), Request{Renderer: "tui"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), "📍 Location & Environment") {
		t.Fatalf("expected section heading in text output:\n%s", output)
	}
}

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "custom-variant",
		Manifest: manifest,
	}}

	renderer := &captureRenderer{}
	registry, err := render.NewRegistry(renderer)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	orch := New(
		WithParser(stubParser{operations: map[string]pkgopenapi.Operation{
			"predict": pkgopenapi.MustNewOperation("predict", "POST", "/predict", pkgopenapi.Schema{}, nil),
		}}),
		WithModelBuilder(stubBuilder{form: pkgmodel.FormModel{OperationID: "predict"}}),
		WithRegistry(registry),
		WithDefaultRenderer(renderer.Name()),
		WithThemeSelector(selector),
		WithThemeFallbacks(map[string]string{render.PartialPage: "page"}),
		WithUISchemaFS(nil),
	)

	doc := pkgopenapi.MustNewDocument(stubSource{}, []byte("{}"))
	output, err := orch.Generate(context.Background(), Request{
		Document:     &doc,
		ThemeName:    "custom-theme",
		ThemeVariant: "custom-variant",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(output) != "predict" {
		t.Fatalf("unexpected output %q", output)
	}

	if len(selector.calls) != 1 {
		t.Fatalf("expected selector called once, got %d", len(selector.calls))
	}
	if selector.calls[0] != (selectorCall{name: "custom-theme", variant: "custom-variant"}) {
		t.Fatalf("unexpected selector args: %+v", selector.calls[0])
	}

	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "custom-variant" {
		t.Fatalf("unexpected theme %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--brand"] != "#123456" {
		t.Fatalf("expected css var from tokens, got %v", cfg.CSSVars)
	}
	if cfg.Partials[render.PartialPage] != "page" {
		t.Fatalf("partials not merged with fallbacks: %v", cfg.Partials)
	}
}

func TestOrchestrator_DefaultThemeVariant(t *testing.T) {
	orch := New(WithDefaultTheme("", render.DarkVariant))

	cfg, err := orch.ThemeConfig("", "")
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg.Theme != render.DefaultThemeName || cfg.Variant != render.DarkVariant {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}

	if _, err := orch.ThemeConfig("missing", ""); !errors.Is(err, render.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := New().Form(ctx, Request{OperationID: "missing"}); err == nil || !strings.Contains(err.Error(), `operation "missing" not found`) {
		t.Fatalf("expected missing operation error, got %v", err)
	}
	if _, err := New().Generate(ctx, Request{Renderer: "preact"}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	buildErr := errors.New("boom")
	orch := New(
		WithParser(stubParser{operations: map[string]pkgopenapi.Operation{
			"predict": pkgopenapi.MustNewOperation("predict", "POST", "/predict", pkgopenapi.Schema{}, nil),
		}}),
		WithModelBuilder(stubBuilder{err: buildErr}),
	)
	if _, err := orch.Form(ctx, Request{}); !errors.Is(err, buildErr) {
		t.Fatalf("expected build error, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := New().Form(cancelled, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type stubSource struct{}

func (stubSource) Kind() pkgopenapi.SourceKind { return pkgopenapi.SourceKindFile }
func (stubSource) Location() string            { return "stub" }

type stubParser struct {
	operations map[string]pkgopenapi.Operation
	err        error
}

func (s stubParser) Operations(_ context.Context, _ pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.operations, nil
}

type stubBuilder struct {
	form pkgmodel.FormModel
	err  error
}

func (s stubBuilder) Build(pkgopenapi.Operation) (pkgmodel.FormModel, error) {
	if s.err != nil {
		return pkgmodel.FormModel{}, s.err
	}
	return s.form, nil
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, form pkgmodel.FormModel, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(form.OperationID), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
