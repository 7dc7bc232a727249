// Package htmlsanitize cleans user-supplied job descriptions and bid
// proposals before they are rendered as HTML.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugc() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return policy
}

// Sanitize strips anything unsafe (scripts, event handlers, javascript:
// links, iframes) and keeps ordinary formatting.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc().Sanitize(s)
}

// SanitizeToHTML is Sanitize typed for direct use in templates.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// Clean is applied before storing free text: plain text is kept as typed
// and markup is sanitized.
func Clean(s string) string {
	if IsPlainText(s) {
		return s
	}
	return Sanitize(s)
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}

// Render prepares free text for display. Plain text is escaped with line
// breaks preserved; markup goes through Sanitize.
func Render(s string) template.HTML {
	if IsPlainText(s) {
		escaped := html.EscapeString(strings.TrimSpace(s))
		escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	}
	return SanitizeToHTML(s)
}
