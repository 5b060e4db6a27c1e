package uischema

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sectionIconOnce   sync.Once
	sectionIconPolicy *bluemonday.Policy
)

// sanitizeSectionIcon keeps a section icon that is plain text (usually a single
// emoji such as "📍") or one small inline <svg> built from shapes. Anything
// else is stripped, and an icon that sanitises to nothing is dropped.
func sanitizeSectionIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "<") {
		return sectionIcons().Sanitize(trimmed)
	}
	if !strings.HasPrefix(trimmed, "<svg") {
		return ""
	}
	return strings.TrimSpace(sectionIcons().Sanitize(trimmed))
}

func sectionIcons() *bluemonday.Policy {
	sectionIconOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("svg", "title", "path", "circle", "rect")
		policy.AllowAttrs("xmlns", "viewBox", "width", "height", "fill", "stroke", "stroke-width", "aria-hidden", "class").OnElements("svg")
		policy.AllowAttrs("d", "fill", "stroke", "stroke-width", "stroke-linecap", "stroke-linejoin").OnElements("path")
		policy.AllowAttrs("cx", "cy", "r", "fill", "stroke").OnElements("circle")
		policy.AllowAttrs("x", "y", "width", "height", "rx", "fill", "stroke").OnElements("rect")
		sectionIconPolicy = policy
	})
	return sectionIconPolicy
}
