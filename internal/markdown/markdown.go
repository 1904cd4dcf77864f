// Package markdown renders model output (Markdown) to HTML for the chat UI.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
)

var md = goldmark.New()

// Render converts Markdown to HTML. On renderer failure the source text is
// returned unchanged so the chat always has something to display.
func Render(source string) string {
	var buf strings.Builder
	if err := md.Convert([]byte(source), &buf); err != nil {
		return source
	}
	return buf.String()
}
