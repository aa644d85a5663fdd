// Package sanitize cleans user-supplied text before it is stored. Catalog
// fields and account names are plain text, so every HTML tag is stripped
// using bluemonday's strict policy and surrounding whitespace is trimmed.
package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton strict policy. Initialized once via sync.Once for
// thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text removes all markup from input and returns trimmed plain text.
//
// bluemonday escapes the text it keeps ("&" becomes "&amp;"). Values are
// served as JSON, not HTML, so the entities are decoded again and clients
// receive exactly what the user typed minus the tags. A "<" that never
// closes into a tag (as in "A<B") is text, not markup, and is kept.
func Text(input string) string {
	if input == "" {
		return ""
	}
	cleaned := getPolicy().Sanitize(escapeUnclosed(input))
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// escapeUnclosed entity-encodes every "<" with no ">" before the next "<"
// or the end of input, so the HTML tokenizer reads it as text.
func escapeUnclosed(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '<' {
			rest := s[i+1:]
			end := strings.IndexByte(rest, '>')
			next := strings.IndexByte(rest, '<')
			if end < 0 || (next >= 0 && next < end) {
				b.WriteString("&lt;")
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
