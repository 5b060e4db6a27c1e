package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
)

// Widget names the control a renderer should emit for a field.
const (
	WidgetNumber = "number"
	WidgetSelect = "select"
)

const (
	ValidationRuleMin  = "min"
	ValidationRuleMax  = "max"
	ValidationRuleStep = "step"
)

// ValidationRule carries an advisory input hint. Min/max/step are surfaced as
// control attributes only; nothing enforces them before submission. The
// threshold travels as a string in Params["value"] to keep JSON snapshots
// stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Option is a selectable value for select widgets.
type Option struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Field models an individual input inside a generated form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     float64           `json:"default"`
	Widget      string            `json:"widget"`
	Options     []Option          `json:"options,omitempty"`
	Section     string            `json:"section,omitempty"`
	Order       int               `json:"order"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Section groups fields under a heading.
type Section struct {
	ID     string   `json:"id"`
	Title  string   `json:"title,omitempty"`
	Icon   string   `json:"icon,omitempty"`
	Order  int      `json:"order"`
	Fields []string `json:"fields"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	OperationID  string            `json:"operationId"`
	Endpoint     string            `json:"endpoint"`
	Method       string            `json:"method"`
	Title        string            `json:"title,omitempty"`
	Subtitle     string            `json:"subtitle,omitempty"`
	SubmitLabel  string            `json:"submitLabel,omitempty"`
	PendingLabel string            `json:"pendingLabel,omitempty"`
	Fields       []Field           `json:"fields"`
	Sections     []Section         `json:"sections,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Field returns the field named name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Rule returns the parameter value of the first rule of kind.
func (f Field) Rule(kind string) (string, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			value, ok := rule.Params["value"]
			return value, ok
		}
	}
	return "", false
}

// SectionFields resolves the fields of a section in section order.
func (f FormModel) SectionFields(section Section) []Field {
	out := make([]Field, 0, len(section.Fields))
	for _, name := range section.Fields {
		if field, ok := f.Field(name); ok {
			out = append(out, field)
		}
	}
	return out
}
