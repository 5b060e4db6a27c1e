// Package render defines the Renderer contract, a name keyed Registry and
// the per-request RenderOptions. It also turns go-theme selections into the
// renderer configuration (tokens, CSS variables, partials and asset URLs)
// that the HTML renderer consumes.
package render
