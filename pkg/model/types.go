package model

import internalmodel "github.com/goliatone/go-priceform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeInteger = internalmodel.FieldTypeInteger
)

const (
	WidgetNumber = internalmodel.WidgetNumber
	WidgetSelect = internalmodel.WidgetSelect
)

const (
	ValidationRuleMin  = internalmodel.ValidationRuleMin
	ValidationRuleMax  = internalmodel.ValidationRuleMax
	ValidationRuleStep = internalmodel.ValidationRuleStep
)

type ValidationRule = internalmodel.ValidationRule
type Option = internalmodel.Option
type Field = internalmodel.Field
type Section = internalmodel.Section
type FormModel = internalmodel.FormModel
