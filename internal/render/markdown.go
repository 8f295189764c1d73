package render

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// narrativeMD renders the generated narrative text. Tables and fenced code
// come from the extensions; raw HTML passthrough stays disabled so narrative
// text can never inject markup into the page.
var narrativeMD = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
	),
)

// renderNarrative converts constrained markdown into HTML. Conversion
// failures degrade to a single escaped paragraph.
func renderNarrative(text string) string {
	var buf bytes.Buffer
	if err := narrativeMD.Convert([]byte(text), &buf); err != nil {
		return "<p>" + html.EscapeString(text) + "</p>"
	}
	return buf.String()
}
