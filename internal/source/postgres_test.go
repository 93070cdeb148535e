package source

import (
	"testing"
	"time"
)

func TestBaseColumnIndex(t *testing.T) {
	header := []string{"Date Submitted", "Content", "content_spans", "Notes_Spans", "notes", "orphan_spans"}

	tests := []struct {
		name     string
		column   string
		wantIdx  int
		wantSpan bool
	}{
		{name: "lowercase companion", column: "content_spans", wantIdx: 1, wantSpan: true},
		{name: "mixed case companion", column: "Notes_Spans", wantIdx: 4, wantSpan: true},
		{name: "no base column", column: "orphan_spans", wantSpan: false},
		{name: "regular column", column: "Content", wantSpan: false},
		{name: "suffix only", column: "_spans", wantSpan: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := baseColumnIndex(header, tt.column)
			if ok != tt.wantSpan {
				t.Fatalf("got companion = %v, want %v", ok, tt.wantSpan)
			}
			if ok && idx != tt.wantIdx {
				t.Errorf("got base index %d, want %d", idx, tt.wantIdx)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	stamp := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "hello", want: "hello"},
		{name: "bytes", value: []byte("raw"), want: "raw"},
		{name: "time", value: stamp, want: "2024-01-02T03:04:05Z"},
		{name: "int", value: int64(42), want: "42"},
		{name: "bool", value: true, want: "true"},
		{name: "float", value: 2.5, want: "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("got formatValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		ident string
		want  string
	}{
		{name: "plain", ident: "submissions", want: `"submissions"`},
		{name: "embedded quote", ident: `bad"name`, want: `"bad""name"`},
		{name: "spaces", ident: "My Table", want: `"My Table"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteIdentifier(tt.ident); got != tt.want {
				t.Errorf("got quoteIdentifier = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPostgresSource_Validation(t *testing.T) {
	if _, err := NewPostgresSource(nil, "submissions"); err == nil {
		t.Error("NewPostgresSource with nil pool did not return error")
	}
}
