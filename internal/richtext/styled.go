package richtext

// styled.go defines the styled-text contract and the span-backed
// implementation used by data sources and tests.

import (
	"fmt"
)

// Style holds the font attributes attached to a single character position.
// The zero value is unstyled text.
type Style struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // CSS color token, "" when absent
}

// StyledText exposes per-character link and style metadata for a text.
// Positions are rune indices in [0, Len()). Implementations are immutable.
type StyledText interface {
	// Text returns the raw text content.
	Text() string

	// Len returns the number of character (rune) positions.
	Len() int

	// StyleAt returns the style at position i.
	StyleAt(i int) (Style, error)

	// LinkAt returns the link target at position i, "" when absent.
	LinkAt(i int) (string, error)
}

// Run is a maximal contiguous range [Start, End) of positions sharing
// identical link and style attributes. Runs are derived per render, never
// stored.
type Run struct {
	Start int
	End   int
	Link  string
	Style Style
}

// Span is a half-open styled range as delivered by data sources, with rune
// offsets into the cell text. Overlapping spans merge per position: the
// boolean attributes combine with OR, and the last span covering a position
// wins for Link and Color.
type Span struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Link      string `json:"link,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
}

// SpanText implements StyledText over a string plus its spans.
type SpanText struct {
	text  string
	chars []rune
	spans []Span
}

// NewSpanText builds a SpanText for text with the given spans.
// Spans reaching outside the text are simply never consulted for the
// out-of-range positions.
func NewSpanText(text string, spans []Span) *SpanText {
	return &SpanText{
		text:  text,
		chars: []rune(text),
		spans: spans,
	}
}

// Text implements StyledText.
func (t *SpanText) Text() string { return t.text }

// Len implements StyledText.
func (t *SpanText) Len() int { return len(t.chars) }

// StyleAt implements StyledText.
func (t *SpanText) StyleAt(i int) (Style, error) {
	if i < 0 || i >= len(t.chars) {
		return Style{}, fmt.Errorf("style lookup: position %d out of range [0,%d)", i, len(t.chars))
	}

	var s Style
	for _, sp := range t.spans {
		if i < sp.Start || i >= sp.End {
			continue
		}
		s.Bold = s.Bold || sp.Bold
		s.Italic = s.Italic || sp.Italic
		s.Underline = s.Underline || sp.Underline
		if sp.Color != "" {
			s.Color = sp.Color
		}
	}
	return s, nil
}

// LinkAt implements StyledText.
func (t *SpanText) LinkAt(i int) (string, error) {
	if i < 0 || i >= len(t.chars) {
		return "", fmt.Errorf("link lookup: position %d out of range [0,%d)", i, len(t.chars))
	}

	link := ""
	for _, sp := range t.spans {
		if i >= sp.Start && i < sp.End && sp.Link != "" {
			link = sp.Link
		}
	}
	return link, nil
}
