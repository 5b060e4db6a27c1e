package tui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-priceform/pkg/controller"
	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/render"
	rendertemplate "github.com/goliatone/go-priceform/pkg/render/template"
)

// Name identifies the renderer in a render.Registry.
const Name = "tui"

// Renderer drives the prediction form from a terminal. Render prints a text
// summary of the form and its result; Run prompts for every field through the
// PromptDriver and submits through a controller.
type Renderer struct {
	driver     PromptDriver
	theme      Theme
	repeat     bool
	templates  rendertemplate.TemplateRenderer
	templateFS fs.FS
}

type summaryView struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	Sections []summarySection `json:"sections"`
	Result   string           `json:"result"`
}

type summarySection struct {
	Heading string         `json:"heading"`
	Fields  []summaryField `json:"fields"`
}

type summaryField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer backed by survey unless another driver is
// supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{theme: DefaultTheme()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.templateFS == nil {
		r.templateFS = TemplatesFS()
	}
	engine, err := gotemplatepkg.NewRenderer(
		gotemplatepkg.WithFS(r.templateFS),
		gotemplatepkg.WithExtension(".tmpl"),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: configure summary template: %w", err)
	}
	r.templates = engine
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the current values grouped by section followed by the result
// panel, if any.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := summaryView{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Sections: make([]summarySection, 0, len(form.Sections)),
		Result:   r.resultText(opts.State, form.PendingLabel),
	}
	for _, section := range form.Sections {
		entry := summarySection{Heading: sectionHeading(section)}
		for _, field := range form.SectionFields(section) {
			entry.Fields = append(entry.Fields, summaryField{
				Label: field.Label,
				Value: displayValue(field, opts.DisplayValue(field)),
			})
		}
		view.Sections = append(view.Sections, entry)
	}

	out, err := r.templates.Render(summaryTemplate, view)
	if err != nil {
		return nil, fmt.Errorf("tui: render summary: %w", err)
	}
	return []byte(out), nil
}

// Run prompts for every field, routes each answer through UpdateField, submits
// and prints the result. With WithRepeat it offers another round until the
// user declines.
func (r *Renderer) Run(ctx context.Context, form model.FormModel, ctrl *controller.Controller) error {
	if ctrl == nil {
		return ErrNoController
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}

	if form.Title != "" {
		if err := r.driver.Info(ctx, form.Title); err != nil {
			return err
		}
	}

	for {
		if err := r.promptForm(ctx, form, ctrl); err != nil {
			return err
		}

		submission := ctrl.Submit(ctx)
		if err := r.driver.Info(ctx, pendingLabel(form.PendingLabel)); err != nil {
			return err
		}
		select {
		case <-submission.Done:
		case <-ctx.Done():
			return ctx.Err()
		}

		if err := r.driver.Info(ctx, r.resultText(ctrl.State(), form.PendingLabel)); err != nil {
			return err
		}
		if !r.repeat {
			return nil
		}
		again, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Predict another price?", Default: true})
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (r *Renderer) promptForm(ctx context.Context, form model.FormModel, ctrl *controller.Controller) error {
	for _, section := range form.Sections {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+sectionHeading(section)); err != nil {
			return err
		}
		for _, field := range form.SectionFields(section) {
			if err := r.promptField(ctx, field, ctrl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, ctrl *controller.Controller) error {
	current, _ := ctrl.Features().Get(field.Name)

	if field.Widget == model.WidgetSelect && len(field.Options) > 0 {
		labels := make([]string, len(field.Options))
		defaultIndex := 0
		for i, option := range field.Options {
			labels[i] = option.Label
			if option.Value == current {
				defaultIndex = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      field.Label,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         field.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(field.Options) {
			return nil
		}
		_, err = ctrl.UpdateField(field.Name, model.FormatValue(field.Options[idx].Value))
		return err
	}

	answer, err := r.driver.Input(ctx, InputConfig{
		Message: field.Label,
		Default: model.FormatValue(current),
		Help:    field.Description,
	})
	if err != nil {
		return err
	}
	_, err = ctrl.UpdateField(field.Name, answer)
	return err
}

func (r *Renderer) resultText(state model.RequestState, pending string) string {
	switch {
	case state.IsPending():
		return pendingLabel(pending)
	case state.Panel() == model.PanelPrice:
		return r.theme.PriceHeading + "\n" + state.Price
	case state.Panel() == model.PanelError:
		return r.theme.ErrorHeading + "\n" + state.Message
	default:
		return ""
	}
}

func pendingLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return "Predicting..."
	}
	return label
}

// sectionHeading drops markup icons, which only make sense in HTML.
func sectionHeading(section model.Section) string {
	icon := strings.TrimSpace(section.Icon)
	if icon == "" || strings.HasPrefix(icon, "<") {
		return section.Title
	}
	return icon + " " + section.Title
}

func displayValue(field model.Field, value string) string {
	if field.Widget != model.WidgetSelect {
		return value
	}
	parsed := model.ParseValue(value)
	for _, option := range field.Options {
		if option.Value == parsed {
			return option.Label
		}
	}
	return value
}
