package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

//go:embed content/*.md
var embeddedContent embed.FS

const (
	// StylesheetName is the stylesheet served under the assets prefix.
	StylesheetName = "priceform.css"
	// InfoCardName is the markdown shown below the form.
	InfoCardName = "about.md"
)

// TemplatesFS exposes the embedded page templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// AssetsFS exposes the embedded stylesheet so callers can serve it over HTTP.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}

func defaultInfoMarkdown() string {
	data, err := fs.ReadFile(embeddedContent, "content/"+InfoCardName)
	if err != nil {
		return ""
	}
	return string(data)
}
