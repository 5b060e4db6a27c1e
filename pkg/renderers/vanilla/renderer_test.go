package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/render"
	"github.com/goliatone/go-priceform/pkg/renderers/vanilla"
	"github.com/goliatone/go-priceform/pkg/testsupport"
)

func renderPage(t *testing.T, renderer *vanilla.Renderer, opts render.RenderOptions) string {
	t.Helper()

	out, err := renderer.Render(context.Background(), testsupport.MustPredictForm(t), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_IdlePage(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.RenderOptions{
		Values: render.FeatureValues(model.DefaultFeatures()),
		State:  model.Idle(),
	})

	for _, want := range []string{
		`<form method="post" action="/" novalidate>`,
		`name="crim" value="0.00632" step="0.00001" min="0"`,
		`name="rad" value="1" step="1" min="1" max="24"`,
		`name="tax" value="296" step="1" min="0"`,
		`<option value="0" selected>Not on River</option>`,
		`<option value="1">On River</option>`,
		`<button type="submit" class="pf-submit">Predict</button>`,
		`href="/assets/priceform.css"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Count(html, `type="number"`) != 12 {
		t.Fatalf("expected 12 number inputs, got %d", strings.Count(html, `type="number"`))
	}
	if strings.Contains(html, "data-panel=") {
		t.Fatalf("idle page should not show a result panel")
	}
	if strings.Contains(html, `http-equiv="refresh"`) {
		t.Fatalf("idle page should not auto refresh")
	}
}

func TestRenderer_PendingDisablesSubmit(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.RenderOptions{State: model.Pending(1)})

	if !strings.Contains(html, `disabled aria-busy="true"`) {
		t.Fatalf("expected disabled submit button")
	}
	if !strings.Contains(html, "Predicting...") {
		t.Fatalf("expected pending label")
	}
	if !strings.Contains(html, `<meta http-equiv="refresh" content="1">`) {
		t.Fatalf("expected refresh tag while pending")
	}
	if strings.Contains(html, "data-panel=") {
		t.Fatalf("pending page should not show a result panel")
	}

	quiet := renderPage(t, newRenderer(t, vanilla.WithRefreshSeconds(0)), render.RenderOptions{State: model.Pending(1)})
	if strings.Contains(quiet, `http-equiv="refresh"`) {
		t.Fatalf("refresh should be disabled")
	}
}

func TestRenderer_ExactlyOnePanel(t *testing.T) {
	tests := []struct {
		name    string
		state   model.RequestState
		panel   string
		content string
	}{
		{name: "price", state: model.Succeeded(2, "$24,000.00"), panel: `data-panel="price"`, content: "$24,000.00"},
		{name: "error", state: model.Failed(2, "Model not loaded"), panel: `data-panel="error"`, content: "Model not loaded"},
		{name: "escaped", state: model.Failed(3, "<script>x</script>"), panel: `data-panel="error"`, content: "&lt;script&gt;x&lt;/script&gt;"},
	}

	renderer := newRenderer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderPage(t, renderer, render.RenderOptions{State: tt.state})
			if got := strings.Count(html, "data-panel="); got != 1 {
				t.Fatalf("expected one panel, got %d", got)
			}
			if !strings.Contains(html, tt.panel) {
				t.Fatalf("expected %s", tt.panel)
			}
			if !strings.Contains(html, tt.content) {
				t.Fatalf("expected panel content %q", tt.content)
			}
		})
	}
}

func TestRenderer_ValuesAndHiddenFields(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.RenderOptions{
		Values:       map[string]any{model.FeatureRm: 7.5, model.FeatureChas: 1.0},
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("token-1")),
		Action:       "/submit",
	})

	for _, want := range []string{
		`name="rm" value="7.5"`,
		`<option value="1" selected>On River</option>`,
		`<input type="hidden" name="_csrf" value="token-1">`,
		`action="/submit"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestRenderer_ThemeVariables(t *testing.T) {
	selector, err := render.NewThemeSelector("", render.DarkVariant)
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}

	html := renderPage(t, newRenderer(t), render.RenderOptions{
		Theme: render.ThemeConfig(selection, nil),
	})
	for _, want := range []string{
		"--brand: #60a5fa;",
		`data-theme="heights" data-variant="dark"`,
		`href="/assets/priceform.css"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestRenderer_InfoCard(t *testing.T) {
	html := renderPage(t, newRenderer(t), render.RenderOptions{})
	if !strings.Contains(html, "About This Dataset") || !strings.Contains(html, "<strong>Boston Housing</strong>") {
		t.Fatalf("expected embedded info card")
	}

	custom := renderPage(t, newRenderer(t, vanilla.WithInfoMarkdown("**hi**\n\n<script>alert(1)</script>\n")), render.RenderOptions{})
	if !strings.Contains(custom, "<strong>hi</strong>") {
		t.Fatalf("expected custom markdown")
	}
	if strings.Contains(custom, "alert(1)") {
		t.Fatalf("expected script to be sanitised")
	}

	hidden := renderPage(t, newRenderer(t, vanilla.WithInfoMarkdown("")), render.RenderOptions{})
	if strings.Contains(hidden, "<aside") {
		t.Fatalf("expected info card to be hidden")
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.tmpl":   {Data: []byte("{{ title }}|{{ resultHTML|safe }}")},
		"result.tmpl": {Data: []byte("{{ result.panel }}")},
	}
	html := renderPage(t, newRenderer(t, vanilla.WithTemplatesFS(files)), render.RenderOptions{})
	if html != "Predict House Price|none" {
		t.Fatalf("unexpected output %q", html)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRenderer(t).Render(ctx, testsupport.MustPredictForm(t), render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestRenderer_AcceptsGoTemplateEngine(t *testing.T) {
	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(vanilla.TemplatesFS()),
		gotemplatepkg.WithExtension(".tmpl"),
	)
	if err != nil {
		t.Fatalf("go-template engine: %v", err)
	}
	renderer := newRenderer(t, vanilla.WithTemplateRenderer(engine), vanilla.WithRefreshSeconds(3))

	html := renderPage(t, renderer, render.RenderOptions{State: model.Pending(1)})
	for _, want := range []string{
		`<meta http-equiv="refresh" content="3">`,
		`disabled aria-busy="true"`,
		`name="crim"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in page rendered by go-template", want)
		}
	}

	idle := renderPage(t, renderer, render.RenderOptions{State: model.Succeeded(2, "$21,600.00")})
	if strings.Contains(idle, `http-equiv="refresh"`) || !strings.Contains(idle, "$21,600.00") {
		t.Fatalf("settled page should show the price without refreshing")
	}
}
