// Package openapi exposes the contracts for loading and parsing the prediction
// service's OpenAPI description. Implementations live under internal/openapi
// to keep kin-openapi out of the public API. The embedded predictor.yaml
// describes the default POST /predict contract and carries the x-formgen
// hints (section, order, step, widget) the form builder reads.
package openapi
