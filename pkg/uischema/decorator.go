package uischema

import (
	"fmt"
	"sort"

	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
)

// Decorator applies UI schema overrides to a form model.
type Decorator struct {
	store *Store
}

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate augments the supplied form model with UI schema overrides. When no
// matching operation is found the form is left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store == nil || d.store.Empty() || form == nil {
		return nil
	}

	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}

	applyFormConfig(form, op.Form)
	if err := applyFieldConfig(form, op); err != nil {
		return err
	}
	applySectionConfig(form, op.Sections)
	return nil
}

func applyFormConfig(form *pkgmodel.FormModel, cfg FormConfig) {
	if cfg.Title != "" {
		form.Title = cfg.Title
	}
	if cfg.Subtitle != "" {
		form.Subtitle = cfg.Subtitle
	}
	if cfg.SubmitLabel != "" {
		form.SubmitLabel = cfg.SubmitLabel
	}
	if cfg.PendingLabel != "" {
		form.PendingLabel = cfg.PendingLabel
	}
	form.Metadata = mergeStringMap(form.Metadata, cfg.Metadata)
}

func applyFieldConfig(form *pkgmodel.FormModel, op Operation) error {
	moved := false
	for name, cfg := range op.Fields {
		idx := fieldIndex(form.Fields, name)
		if idx < 0 {
			return fmt.Errorf("uischema: operation %q (file %s) configures unknown field %q", op.ID, op.Source, name)
		}
		field := &form.Fields[idx]
		if cfg.Label != "" {
			field.Label = cfg.Label
		}
		if cfg.Description != "" {
			field.Description = cfg.Description
		}
		if cfg.Order != nil {
			field.Order = *cfg.Order
			moved = true
		}
		if cfg.Section != "" && cfg.Section != field.Section {
			field.Section = cfg.Section
			moved = true
		}
		field.Metadata = mergeStringMap(field.Metadata, cfg.Metadata)
	}
	if moved {
		sort.SliceStable(form.Fields, func(i, j int) bool {
			return form.Fields[i].Order < form.Fields[j].Order
		})
		form.Sections = regroupSections(form.Sections, form.Fields)
	}
	return nil
}

// regroupSections rebuilds section membership after fields moved, keeping the
// existing section order and appending sections that only the overlay names.
func regroupSections(existing []pkgmodel.Section, fields []pkgmodel.Field) []pkgmodel.Section {
	byID := make(map[string]int, len(existing))
	out := make([]pkgmodel.Section, 0, len(existing))
	for _, section := range existing {
		section.Fields = nil
		byID[section.ID] = len(out)
		out = append(out, section)
	}
	for _, field := range fields {
		idx, ok := byID[field.Section]
		if !ok {
			idx = len(out)
			byID[field.Section] = idx
			out = append(out, pkgmodel.Section{ID: field.Section, Title: field.Section, Order: idx})
		}
		out[idx].Fields = append(out[idx].Fields, field.Name)
	}
	kept := out[:0]
	for _, section := range out {
		if len(section.Fields) > 0 {
			kept = append(kept, section)
		}
	}
	return kept
}

func applySectionConfig(form *pkgmodel.FormModel, sections []SectionConfig) {
	if len(sections) == 0 {
		return
	}
	configured := make(map[string]SectionConfig, len(sections))
	for _, cfg := range sections {
		configured[cfg.ID] = cfg
	}
	for i := range form.Sections {
		section := &form.Sections[i]
		cfg, ok := configured[section.ID]
		if !ok {
			continue
		}
		if cfg.Title != "" {
			section.Title = cfg.Title
		}
		if cfg.Icon != "" {
			section.Icon = cfg.Icon
		}
		if cfg.Order != nil {
			section.Order = *cfg.Order
		}
	}
	sort.SliceStable(form.Sections, func(i, j int) bool {
		return form.Sections[i].Order < form.Sections[j].Order
	})
}

func fieldIndex(fields []pkgmodel.Field, name string) int {
	for i, field := range fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
