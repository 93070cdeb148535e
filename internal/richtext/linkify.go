package richtext

// linkify.go is the fallback renderer for plain strings without style
// metadata. The text is escaped first, then URL-, www-, and email-looking
// tokens are wrapped in anchors, so markup inserted by later steps is never
// re-escaped.

import (
	"regexp"
	"strings"
)

var (
	// schemeURL matches http/https/ftp URLs. ')' is excluded from the
	// token so a URL inside parentheses does not swallow the closing
	// paren; trailing '.' and ',' are trimmed after the match.
	schemeURL = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[^\s<)]+`)

	// wwwToken and emailToken anchor on a captured left boundary (start of
	// text, whitespace, or an open paren) that is re-emitted in front of
	// the replacement. The boundary requirement keeps both patterns from
	// matching inside anchors inserted by earlier steps.
	wwwToken   = regexp.MustCompile(`(?i)(^|[\s(])(www\.[^\s<)]+)`)
	emailToken = regexp.MustCompile(`(?i)(^|[\s(])([a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,})`)
)

// Linkify renders plain text as HTML. The raw text is body-escaped, then
// scheme URLs, www tokens (with https:// synthesized as the href scheme),
// and email tokens (mailto:) are wrapped in anchors, and finally newlines
// become <br>. Used when a cell has no styled text or its conversion
// failed.
func Linkify(text string) string {
	s := EscapeBody(text)

	s = schemeURL.ReplaceAllStringFunc(s, func(m string) string {
		url, rest := trimTrailingPunct(m)
		return anchor(url, url) + rest
	})

	s = wwwToken.ReplaceAllStringFunc(s, func(m string) string {
		boundary, token := splitBoundary(m)
		token, rest := trimTrailingPunct(token)
		return boundary + anchor("https://"+token, token) + rest
	})

	s = emailToken.ReplaceAllStringFunc(s, func(m string) string {
		boundary, token := splitBoundary(m)
		return boundary + anchor("mailto:"+token, token)
	})

	return strings.ReplaceAll(s, "\n", "<br>")
}

// anchor builds the standard anchor markup. The href arrives from already
// body-escaped text, so & is entity-encoded; only quotes need escaping for
// the attribute position.
func anchor(href, text string) string {
	return `<a href="` + strings.ReplaceAll(href, `"`, "&quot;") +
		`" target="_blank" rel="noopener noreferrer">` + text + `</a>`
}

// splitBoundary peels the single boundary character captured by wwwToken
// and emailToken, if any.
func splitBoundary(m string) (boundary, rest string) {
	if m == "" {
		return "", ""
	}
	switch m[0] {
	case ' ', '\t', '\n', '\r', '\f', '\v', '(':
		return m[:1], m[1:]
	}
	return "", m
}

// trimTrailingPunct moves trailing '.' and ',' characters out of a matched
// token so "visit x.com." does not link the period.
func trimTrailingPunct(s string) (token, rest string) {
	end := len(s)
	for end > 0 && (s[end-1] == '.' || s[end-1] == ',') {
		end--
	}
	return s[:end], s[end:]
}
