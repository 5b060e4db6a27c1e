// Package uischema loads and applies UI schema overlays that restyle the
// prediction form: page title, submit copy, section titles and icons, and
// per-field labels or help text. The model builder stays unaware of the
// overlay; orchestrator callers opt into it through the Decorator.
package uischema
