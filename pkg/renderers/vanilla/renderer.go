package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/render"
	rendertemplate "github.com/goliatone/go-priceform/pkg/render/template"
	gotemplate "github.com/goliatone/go-priceform/pkg/render/template/gotemplate"
)

const (
	// Name identifies the renderer in a render.Registry.
	Name = "vanilla"
	// DefaultRefreshSeconds is the reload interval of a page rendered while a
	// prediction is in flight.
	DefaultRefreshSeconds = 1

	defaultPageTemplate   = "page"
	defaultResultTemplate = "result"
	defaultStylesheetURL  = "/assets/" + StylesheetName
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	infoMarkdown     *string
	refreshSeconds   int
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithInfoMarkdown replaces the embedded info card. An empty string hides it.
func WithInfoMarkdown(source string) Option {
	return func(cfg *config) {
		cfg.infoMarkdown = &source
	}
}

// WithRefreshSeconds sets the auto-refresh interval used while pending. Zero
// disables the refresh tag.
func WithRefreshSeconds(seconds int) Option {
	return func(cfg *config) {
		if seconds >= 0 {
			cfg.refreshSeconds = seconds
		}
	}
}

// Renderer emits the prediction form as a complete HTML page that works
// without client side scripting. The refresh interval reaches the page
// template as the refreshSeconds global.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	infoHTML  string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), refreshSeconds: DefaultRefreshSeconds}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	globals := map[string]any{"refreshSeconds": cfg.refreshSeconds}
	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithGlobalData(globals),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	} else {
		gotemplate.RegisterDefaultFilters()
		if err := renderer.GlobalContext(globals); err != nil {
			return nil, fmt.Errorf("vanilla renderer: apply template globals: %w", err)
		}
	}

	info := defaultInfoMarkdown()
	if cfg.infoMarkdown != nil {
		info = *cfg.infoMarkdown
	}

	return &Renderer{
		templates: renderer,
		infoHTML:  renderMarkdown(info),
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the page for form, filling inputs from opts.Values and
// showing at most one result panel derived from opts.State.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := r.buildView(form, opts)

	resultHTML, err := r.templates.Render(render.Partial(opts.Theme, render.PartialResult, defaultResultTemplate), view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render result: %w", err)
	}
	view.ResultHTML = strings.TrimSpace(resultHTML)

	page, err := r.templates.Render(render.Partial(opts.Theme, render.PartialPage, defaultPageTemplate), view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(page), nil
}

func (r *Renderer) buildView(form model.FormModel, opts render.RenderOptions) pageView {
	pending := opts.State.IsPending()
	view := pageView{
		Title:        form.Title,
		Subtitle:     form.Subtitle,
		Action:       opts.Action,
		SubmitLabel:  form.SubmitLabel,
		PendingLabel: form.PendingLabel,
		Pending:      pending,
		Sections:     buildSections(form, opts),
		Hidden:       render.SortedHiddenFields(opts.HiddenFields),
		Result:       buildResult(opts.State),
		InfoHTML:     r.infoHTML,
		Stylesheet:   defaultStylesheetURL,
		Classes:      chromeClasses(),
	}
	if view.Action == "" {
		view.Action = "/"
	}
	if view.PendingLabel == "" {
		view.PendingLabel = "Predicting..."
	}

	if cfg := opts.Theme; cfg != nil {
		view.Theme = cfg.Theme
		view.Variant = cfg.Variant
		view.CSSVars = render.CSSVarsStyle(cfg)
		if cfg.AssetURL != nil {
			if url := cfg.AssetURL("stylesheet"); url != "" {
				view.Stylesheet = url
			}
		}
	}
	return view
}
