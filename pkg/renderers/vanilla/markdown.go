package vanilla

import (
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	infoPolicyOnce sync.Once
	infoPolicy     *bluemonday.Policy
)

// renderMarkdown converts markdown into sanitised HTML. Raw HTML embedded in
// the source survives only when the UGC policy allows it.
func renderMarkdown(source string) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})
	unsafe := markdown.ToHTML([]byte(source), p, renderer)
	return strings.TrimSpace(string(markdownSanitizer().SanitizeBytes(unsafe)))
}

func markdownSanitizer() *bluemonday.Policy {
	infoPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		infoPolicy = policy
	})
	return infoPolicy
}
