package template

import "io"

// TemplateRenderer is the engine seam the HTML renderer depends on. Render
// executes a named template, RenderString an inline one; both also copy the
// output to any writers passed in.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
