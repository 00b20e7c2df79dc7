package boletin

import "strings"

// xmlEntities is applied as a sequential pass. The ampersand MUST stay
// first, otherwise the '&' introduced by the other entities would be
// escaped again.
var xmlEntities = []struct {
	char   string
	entity string
}{
	{"&", "&amp;"},
	{"<", "&lt;"},
	{">", "&gt;"},
	{"\"", "&quot;"},
	{"'", "&apos;"},
}

// Escape replaces the five XML-significant characters with their named
// entities so that arbitrary user text can be embedded in an SVG template
// without corrupting the markup.
func Escape(text string) string {
	if text == "" {
		return ""
	}

	for _, e := range xmlEntities {
		text = strings.ReplaceAll(text, e.char, e.entity)
	}

	return text
}
