package uischema

import "strings"

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
}

// Operation describes the UI schema overrides for a specific OpenAPI operation.
type Operation struct {
	ID       string
	Source   string
	Form     FormConfig
	Sections []SectionConfig
	Fields   map[string]FieldConfig
}

// FormConfig captures the page heading and the submit button copy.
type FormConfig struct {
	Title        string            `json:"title" yaml:"title"`
	Subtitle     string            `json:"subtitle" yaml:"subtitle"`
	SubmitLabel  string            `json:"submitLabel" yaml:"submitLabel"`
	PendingLabel string            `json:"pendingLabel" yaml:"pendingLabel"`
	Metadata     map[string]string `json:"metadata" yaml:"metadata"`
}

// SectionConfig renames, decorates or reorders a section.
type SectionConfig struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Order *int   `json:"order,omitempty" yaml:"order,omitempty"`
}

// FieldConfig customises a single field.
type FieldConfig struct {
	Section     string            `json:"section,omitempty" yaml:"section,omitempty"`
	Order       *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NormalizeFieldName trims and lowercases a field key so "PTRATIO" and
// "ptratio" address the same feature.
func NormalizeFieldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
