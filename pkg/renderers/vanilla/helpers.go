package vanilla

import (
	"strings"

	"github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/render"
)

type pageView struct {
	Title        string               `json:"title"`
	Subtitle     string               `json:"subtitle"`
	Action       string               `json:"action"`
	SubmitLabel  string               `json:"submitLabel"`
	PendingLabel string               `json:"pendingLabel"`
	Pending      bool                 `json:"pending"`
	Sections     []sectionView        `json:"sections"`
	Hidden       []render.HiddenField `json:"hidden"`
	Result       resultView           `json:"result"`
	ResultHTML   string               `json:"resultHTML"`
	InfoHTML     string               `json:"infoHTML"`
	Stylesheet   string               `json:"stylesheet"`
	CSSVars      string               `json:"cssVars"`
	Theme        string               `json:"theme"`
	Variant      string               `json:"variant"`
	Classes      map[string]string    `json:"classes"`
}

type sectionView struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Icon   string      `json:"icon"`
	Fields []fieldView `json:"fields"`
}

type fieldView struct {
	Name    string       `json:"name"`
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Help    string       `json:"help"`
	Value   string       `json:"value"`
	Widget  string       `json:"widget"`
	Step    string       `json:"step"`
	Min     string       `json:"min"`
	Max     string       `json:"max"`
	Options []optionView `json:"options"`
}

type optionView struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type resultView struct {
	Panel   string `json:"panel"`
	Price   string `json:"price"`
	Message string `json:"message"`
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "pf-" + trimmed
}

func buildSections(form model.FormModel, opts render.RenderOptions) []sectionView {
	hidden := make(map[string]struct{}, len(opts.HiddenFields))
	for name := range opts.HiddenFields {
		hidden[name] = struct{}{}
	}

	sections := make([]sectionView, 0, len(form.Sections))
	for _, section := range form.Sections {
		view := sectionView{ID: section.ID, Title: section.Title, Icon: section.Icon}
		for _, field := range form.SectionFields(section) {
			if _, skip := hidden[field.Name]; skip {
				continue
			}
			view.Fields = append(view.Fields, buildField(field, opts))
		}
		if len(view.Fields) > 0 {
			sections = append(sections, view)
		}
	}
	return sections
}

func buildField(field model.Field, opts render.RenderOptions) fieldView {
	value := opts.DisplayValue(field)
	view := fieldView{
		Name:   field.Name,
		ID:     controlID(field.Name),
		Label:  field.Label,
		Help:   field.Description,
		Value:  value,
		Widget: field.Widget,
	}
	view.Step, _ = field.Rule(model.ValidationRuleStep)
	view.Min, _ = field.Rule(model.ValidationRuleMin)
	view.Max, _ = field.Rule(model.ValidationRuleMax)

	if field.Widget == model.WidgetSelect {
		current := model.ParseValue(value)
		for _, option := range field.Options {
			view.Options = append(view.Options, optionView{
				Label:    option.Label,
				Value:    model.FormatValue(option.Value),
				Selected: option.Value == current,
			})
		}
	}
	return view
}

func buildResult(state model.RequestState) resultView {
	result := resultView{Panel: string(state.Panel())}
	switch state.Panel() {
	case model.PanelPrice:
		result.Price = state.Price
	case model.PanelError:
		result.Message = state.Message
	}
	return result
}
