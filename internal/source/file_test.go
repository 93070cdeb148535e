package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeSheetFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write sheet file: %v", err)
	}
	return path
}

func TestNewFileSource_RequiresPath(t *testing.T) {
	if _, err := NewFileSource("  "); err == nil {
		t.Fatal("NewFileSource with blank path did not return error")
	}
}

func TestFileSource_Load(t *testing.T) {
	path := writeSheetFile(t, `{
		"header": ["Date Submitted", "Title", "Content"],
		"rows": [
			{
				"cells": ["2024-01-02", "Hello", "AB"],
				"spans": {"2": [{"start": 0, "end": 1, "bold": true, "link": "http://x"}]}
			},
			{"cells": ["2024-01-03", "Plain", "no styling"]}
		]
	}`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource returned error: %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if got, want := len(sheet.Header), 3; got != want {
		t.Fatalf("got %d header columns, want %d", got, want)
	}
	if got, want := sheet.Header[0], "Date Submitted"; got != want {
		t.Errorf("got header[0] = %q, want %q", got, want)
	}
	if got, want := len(sheet.Rows), 2; got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}

	styled, ok := sheet.Rows[0].Styles[2]
	if !ok {
		t.Fatal("row 0 column 2 has no styled text")
	}
	if got, want := styled.Text(), "AB"; got != want {
		t.Errorf("got styled text %q, want %q", got, want)
	}
	style, err := styled.StyleAt(0)
	if err != nil {
		t.Fatalf("StyleAt(0) returned error: %v", err)
	}
	if !style.Bold {
		t.Error("got style.Bold = false at position 0, want true")
	}
	link, err := styled.LinkAt(0)
	if err != nil {
		t.Fatalf("LinkAt(0) returned error: %v", err)
	}
	if got, want := link, "http://x"; got != want {
		t.Errorf("got link %q, want %q", got, want)
	}

	if sheet.Rows[1].Styles != nil {
		t.Errorf("got styles on unstyled row: %v", sheet.Rows[1].Styles)
	}
}

func TestFileSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name:     "malformed json",
			contents: `{"header": [`,
		},
		{
			name:     "non numeric span column",
			contents: `{"header": ["A"], "rows": [{"cells": ["x"], "spans": {"first": []}}]}`,
		},
		{
			name:     "span column out of range",
			contents: `{"header": ["A"], "rows": [{"cells": ["x"], "spans": {"5": [{"start": 0, "end": 1}]}}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewFileSource(writeSheetFile(t, tt.contents))
			if err != nil {
				t.Fatalf("NewFileSource returned error: %v", err)
			}
			if _, err := src.Load(context.Background()); err == nil {
				t.Error("Load did not return error")
			}
		})
	}
}

func TestFileSource_LoadMissingFile(t *testing.T) {
	src, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("NewFileSource returned error: %v", err)
	}
	if _, err := src.Load(context.Background()); err == nil {
		t.Error("Load of missing file did not return error")
	}
}

func TestFileSource_LoadCancelledContext(t *testing.T) {
	src, err := NewFileSource(writeSheetFile(t, `{"header": ["A"], "rows": []}`))
	if err != nil {
		t.Fatalf("NewFileSource returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Load(ctx); err == nil {
		t.Error("Load with cancelled context did not return error")
	}
}

func TestFileSource_EmptySpanListIgnored(t *testing.T) {
	src, err := NewFileSource(writeSheetFile(t, `{
		"header": ["A"],
		"rows": [{"cells": ["x"], "spans": {"0": []}}]
	}`))
	if err != nil {
		t.Fatalf("NewFileSource returned error: %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if sheet.Rows[0].Styles != nil {
		t.Errorf("got styles from empty span list: %v", sheet.Rows[0].Styles)
	}
}
