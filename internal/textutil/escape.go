package textutil

import "strings"

// htmlReplacer escapes the characters YouTube's rich-text title rendering
// treats specially. Ampersand must be first so it doesn't re-escape entities.
var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes ampersands, angle brackets, and quotes for the video
// platform's title rendering.
func EscapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}

var markdownBreakReplacer = strings.NewReplacer(
	"<br/>", "\n",
	"<br />", "\n",
	"<br>", "\n",
)

// MarkdownToDescription down-converts a markdown-flavored CFP abstract into
// plain description text: double emphasis markers become single ones, inline
// HTML line breaks become literal newlines, and remaining angle brackets are
// escaped so they survive the platform's renderer.
func MarkdownToDescription(s string) string {
	s = strings.ReplaceAll(s, "**", "*")
	s = markdownBreakReplacer.Replace(s)
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
