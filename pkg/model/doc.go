// Package model defines the typed form model consumed by renderers together
// with the FeatureSet the form edits and the RequestState of a submission.
//
// Builders reside in internal/model but return the types re-exported here.
// Each field carries its advisory input hints (min, max and step) as
// validation rules with string parameters so renderers can copy them onto
// control attributes verbatim. Nothing enforces them: the only coercion the
// form performs is ParseValue, which maps unparsable input to zero.
package model
