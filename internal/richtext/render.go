package richtext

// render.go renders run sequences into escaped, nested HTML.
//
// Escaping rules differ by position in the markup:
//   - body text escapes & < > (quotes stay literal)
//   - attribute values escape & " < (> stays literal)

import (
	"regexp"
	"strings"
)

var (
	bodyEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;")

	// colorStrip removes anything that could break out of a style
	// attribute. Not a CSS validator: named colors, hex values, and
	// rgb()/hsl() forms all pass through intact.
	colorStrip = regexp.MustCompile(`[^#a-zA-Z0-9(),.\s]`)
)

// EscapeBody escapes text for use between tags.
func EscapeBody(s string) string { return bodyEscaper.Replace(s) }

// EscapeAttr escapes text for use inside a double-quoted attribute value.
func EscapeAttr(s string) string { return attrEscaper.Replace(s) }

// SanitizeColor strips every character outside [#a-zA-Z0-9(),.\s] from a
// CSS color token.
func SanitizeColor(c string) string { return colorStrip.ReplaceAllString(c, "") }

// Render segments st and renders the runs over its text. It fails only
// when the adapter fails; callers substitute Linkify for that cell.
func Render(st StyledText) (string, error) {
	runs, err := Segment(st)
	if err != nil {
		return "", err
	}
	return RenderRuns(runs, st.Text()), nil
}

// RenderRuns renders an ordered run sequence over text into HTML.
//
// Each run's slice of text is body-escaped, then wrapped innermost-first in
// <u>, <em>, <strong>, a color span, and finally an anchor when the run
// carries a link. After all runs are concatenated, a single final pass
// replaces every newline with <br>; the final-pass order is part of the
// output contract.
func RenderRuns(runs []Run, text string) string {
	chars := []rune(text)

	var b strings.Builder
	for _, r := range runs {
		b.WriteString(renderRun(r, chars))
	}
	return strings.ReplaceAll(b.String(), "\n", "<br>")
}

func renderRun(r Run, chars []rune) string {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(chars) {
		end = len(chars)
	}
	if start >= end {
		return ""
	}

	out := EscapeBody(string(chars[start:end]))
	if r.Style.Underline {
		out = "<u>" + out + "</u>"
	}
	if r.Style.Italic {
		out = "<em>" + out + "</em>"
	}
	if r.Style.Bold {
		out = "<strong>" + out + "</strong>"
	}
	if c := SanitizeColor(r.Style.Color); c != "" {
		out = `<span style="color:` + c + `">` + out + `</span>`
	}
	if r.Link != "" {
		out = `<a href="` + EscapeAttr(r.Link) + `" target="_blank" rel="noopener noreferrer">` + out + `</a>`
	}
	return out
}
