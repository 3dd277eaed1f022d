// Package render turns user-authored text into something safe to store and
// display: meeting agendas are markdown rendered to sanitized HTML, chat
// message text is stripped of any markup before it is written.
package render

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var (
	agendaPolicy = bluemonday.UGCPolicy()
	textPolicy   = bluemonday.StrictPolicy()
)

// Agenda renders a meeting description written in markdown to sanitized HTML.
func Agenda(md string) string {
	html := blackfriday.Run([]byte(md))
	return strings.TrimSpace(agendaPolicy.Sanitize(string(html)))
}

// CleanText strips all markup from chat message text, leaving plain text.
// The sanitizer entity-escapes its output for HTML contexts; stored message
// text is plain, so the escaping is undone to keep the text lossless.
func CleanText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}
