package core

import (
	"html/template"
	"regexp"
	"strings"
)

// Highlight wraps every non-overlapping match of pattern in the text with
// <mark> tags. The output is HTML-safe: match offsets are found on the raw
// text, then each segment is escaped independently before the markers are
// inserted, so escaping can never corrupt a marker and unescaped input can
// never reach the output. A nil pattern or a pattern with no matches returns
// the escaped text without markers.
func Highlight(text string, pattern *regexp.Regexp) template.HTML {
	if pattern == nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	idxs := pattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return template.HTML(template.HTMLEscapeString(text))
	}

	var b strings.Builder
	last := 0
	for _, span := range idxs {
		b.WriteString(template.HTMLEscapeString(text[last:span[0]]))
		b.WriteString("<mark>")
		b.WriteString(template.HTMLEscapeString(text[span[0]:span[1]]))
		b.WriteString("</mark>")
		last = span[1]
	}
	b.WriteString(template.HTMLEscapeString(text[last:]))
	return template.HTML(b.String())
}
