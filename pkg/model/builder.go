package model

import (
	"github.com/goliatone/go-priceform/internal/model"
	pkgopenapi "github.com/goliatone/go-priceform/pkg/openapi"
)

// Builder converts the prediction operation into a form model.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler        func(name, title string) string
	defaultSection string
}

// WithLabeler overrides the default label generation function. The labeler
// receives the property name and its schema title.
func WithLabeler(labeler func(name, title string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithDefaultSection names the section collecting fields without one.
func WithDefaultSection(id string) BuilderOption {
	return func(opts *builderOptions) {
		opts.defaultSection = id
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	return model.New(model.Options{
		Labeler:        cfg.labeler,
		DefaultSection: cfg.defaultSection,
	})
}
