package model

import (
	"strings"
	"unicode"
)

// DefaultLabeler turns a schema title and property name into a control label.
// Short dataset style names ("ptratio") are kept as an upper-case suffix so
// the label reads "Pupil-Teacher Ratio (PTRATIO)".
func DefaultLabeler(name, title string) string {
	title = strings.TrimSpace(title)
	code := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case title == "" && code == "":
		return ""
	case title == "":
		return humanize(name)
	case code == "" || strings.Contains(title, "("+code+")"):
		return title
	default:
		return title + " (" + code + ")"
	}
}

func humanize(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
