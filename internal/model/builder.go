package model

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
)

const extensionNamespace = "x-formgen"

const (
	defaultSubmitLabel  = "Predict"
	defaultPendingLabel = "Predicting..."
)

// Builder converts the prediction operation into a form model.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if strings.TrimSpace(options.DefaultSection) != "" {
		opts.DefaultSection = strings.TrimSpace(options.DefaultSection)
	}
	return &Builder{opts: opts}
}

// Build transforms an operation's request body into a FormModel. Every body
// property must be numeric since the form only ever submits numbers.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if err := validateOperation(op); err != nil {
		return FormModel{}, err
	}

	form := FormModel{
		OperationID:  op.ID,
		Endpoint:     op.Path,
		Method:       strings.ToUpper(op.Method),
		Title:        op.Summary,
		Subtitle:     op.Description,
		SubmitLabel:  defaultSubmitLabel,
		PendingLabel: defaultPendingLabel,
	}

	for _, ext := range []map[string]any{formgenExtension(op.Extensions), formgenExtension(op.RequestBody.Extensions)} {
		if value := stringValue(ext["submitLabel"]); value != "" {
			form.SubmitLabel = value
		}
		if value := stringValue(ext["pendingLabel"]); value != "" {
			form.PendingLabel = value
		}
		if value := stringValue(ext["title"]); value != "" {
			form.Title = value
		}
	}

	required := make(map[string]struct{}, len(op.RequestBody.Required))
	for _, name := range op.RequestBody.Required {
		required[name] = struct{}{}
	}

	fields := make([]Field, 0, len(op.RequestBody.Properties))
	for _, name := range op.RequestBody.PropertyNames() {
		_, isRequired := required[name]
		field, err := b.fieldFromProperty(name, op.RequestBody.Properties[name], isRequired)
		if err != nil {
			return FormModel{}, err
		}
		fields = append(fields, field)
	}
	sortFields(fields)
	form.Fields = fields
	form.Sections = b.sectionsFor(fields)

	if op.Summary != "" {
		form.Metadata = map[string]string{"summary": op.Summary}
	}
	return form, nil
}

func validateOperation(op pkgopenapi.Operation) error {
	if op.ID == "" {
		return errors.New("model builder: operation id is required")
	}
	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return fmt.Errorf("model builder: operation %q request body must be an object, got %q", op.ID, body.Type)
	}
	if len(body.Properties) == 0 {
		return fmt.Errorf("model builder: operation %q request body has no properties", op.ID)
	}
	return nil
}

func (b *Builder) fieldFromProperty(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	var fieldType FieldType
	switch schema.Type {
	case "number", "":
		fieldType = FieldTypeNumber
	case "integer":
		fieldType = FieldTypeInteger
	default:
		return Field{}, fmt.Errorf("model builder: property %q has unsupported type %q", name, schema.Type)
	}

	ext := formgenExtension(schema.Extensions)
	field := Field{
		Name:        name,
		Type:        fieldType,
		Label:       b.opts.Labeler(name, schema.Title),
		Description: schema.Description,
		Widget:      WidgetNumber,
		Section:     stringValue(ext["section"]),
		Order:       -1,
	}
	if value, ok := floatValue(schema.Default); ok {
		field.Default = value
	}
	if order, ok := floatValue(ext["order"]); ok {
		field.Order = int(order)
	}
	if field.Section == "" {
		field.Section = b.opts.DefaultSection
	}

	field.Options = optionsFromExtension(ext["options"])
	if len(field.Options) == 0 && len(schema.Enum) > 0 {
		for _, raw := range schema.Enum {
			if value, ok := floatValue(raw); ok {
				field.Options = append(field.Options, Option{Label: strconv.FormatFloat(value, 'f', -1, 64), Value: value})
			}
		}
	}
	if widget := stringValue(ext["widget"]); widget != "" {
		field.Widget = widget
	} else if len(field.Options) > 0 {
		field.Widget = WidgetSelect
	}

	if schema.Minimum != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMin, *schema.Minimum))
	}
	if schema.Maximum != nil {
		field.Validations = append(field.Validations, rule(ValidationRuleMax, *schema.Maximum))
	}
	if step := stepValue(ext["step"], fieldType); step != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleStep,
			Params: map[string]string{"value": step},
		})
	}

	if required {
		field.Metadata = map[string]string{"required": "true"}
	}
	return field, nil
}

func (b *Builder) sectionsFor(fields []Field) []Section {
	index := make(map[string]int)
	var sections []Section
	for _, field := range fields {
		pos, ok := index[field.Section]
		if !ok {
			pos = len(sections)
			index[field.Section] = pos
			sections = append(sections, Section{
				ID:    field.Section,
				Title: humanize(field.Section),
				Order: pos,
			})
		}
		sections[pos].Fields = append(sections[pos].Fields, field.Name)
	}
	return sections
}

// sortFields orders explicitly ordered fields first, then the rest by name.
func sortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		a, b := fields[i], fields[j]
		switch {
		case a.Order >= 0 && b.Order >= 0 && a.Order != b.Order:
			return a.Order < b.Order
		case a.Order >= 0 && b.Order < 0:
			return true
		case a.Order < 0 && b.Order >= 0:
			return false
		default:
			return a.Name < b.Name
		}
	})
}

func rule(kind string, value float64) ValidationRule {
	return ValidationRule{
		Kind:   kind,
		Params: map[string]string{"value": strconv.FormatFloat(value, 'f', -1, 64)},
	}
}

func stepValue(raw any, fieldType FieldType) string {
	if text := stringValue(raw); text != "" {
		return text
	}
	if value, ok := floatValue(raw); ok && value > 0 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}
	if fieldType == FieldTypeInteger {
		return "1"
	}
	return "any"
}

func optionsFromExtension(raw any) []Option {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []Option
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value, ok := floatValue(entry["value"])
		if !ok {
			continue
		}
		label := stringValue(entry["label"])
		if label == "" {
			label = strconv.FormatFloat(value, 'f', -1, 64)
		}
		out = append(out, Option{Label: label, Value: value})
	}
	return out
}

func formgenExtension(ext map[string]any) map[string]any {
	if len(ext) == 0 {
		return nil
	}
	out := make(map[string]any)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			out[key] = value
		}
	}
	for key, value := range ext {
		if suffix, ok := strings.CutPrefix(key, extensionNamespace+"-"); ok && suffix != "" {
			out[suffix] = value
		}
	}
	return out
}

func stringValue(raw any) string {
	if text, ok := raw.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func floatValue(raw any) (float64, bool) {
	var value float64
	switch typed := raw.(type) {
	case float64:
		value = typed
	case float32:
		value = float64(typed)
	case int:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		value = parsed
	default:
		return 0, false
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}
