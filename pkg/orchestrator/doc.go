// Package orchestrator wires the loader → parser → model builder → decorator
// → renderer pipeline behind a single entry point. Form builds the decorated
// form model once; Render draws it for a request, resolving the theme first.
package orchestrator
