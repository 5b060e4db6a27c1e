package tui

import "io/fs"

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PriceHeading string
	ErrorHeading string
	InfoPrefix   string
}

// DefaultTheme mirrors the headings of the web page.
func DefaultTheme() Theme {
	return Theme{
		PriceHeading: "💰 Predicted House Price",
		ErrorHeading: "⚠️ Error",
		InfoPrefix:   "",
	}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies optional headings and message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithRepeat asks whether to predict again after each result instead of
// returning after the first one.
func WithRepeat(repeat bool) Option {
	return func(r *Renderer) {
		r.repeat = repeat
	}
}

// WithTemplatesFS replaces the embedded summary template used by Render. The
// bundle must provide summary.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.templateFS = files
		}
	}
}
