package render

import (
	"context"

	"github.com/goliatone/go-priceform/pkg/model"
)

// Renderer converts the form model plus the live controller state into a byte
// representation (an HTML page, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
