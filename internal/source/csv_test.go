package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSVFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.csv")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing csv file: %v", err)
	}
	return path
}

func TestNewCSVSource_RequiresPath(t *testing.T) {
	if _, err := NewCSVSource("  "); err == nil {
		t.Fatal("NewCSVSource(blank) error = nil, want error")
	}
}

func TestCSVSource_Load(t *testing.T) {
	data := []byte("Date Submitted,Title,Content\n2024-01-02,Hello,\"see, www.x.com\"\n2024-01-03,Second,plain\n")
	src, err := NewCSVSource(writeCSVFile(t, data))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sheet.Header) != 3 || sheet.Header[0] != "Date Submitted" {
		t.Errorf("Header = %v, want 3 columns starting with Date Submitted", sheet.Header)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(sheet.Rows))
	}
	if got := sheet.Rows[0].Cells[2]; got != "see, www.x.com" {
		t.Errorf("Rows[0].Cells[2] = %q, want quoted cell preserved", got)
	}
	if sheet.Rows[0].Styles != nil {
		t.Errorf("Styles = %v, want nil for csv rows", sheet.Rows[0].Styles)
	}
}

func TestCSVSource_LoadSkipsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Title\nHello\n")...)
	src, err := NewCSVSource(writeCSVFile(t, data))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := sheet.Header[0]; got != "Title" {
		t.Errorf("Header[0] = %q, want %q (BOM should be stripped)", got, "Title")
	}
}

func TestCSVSource_LoadSanitizesInvalidUTF8(t *testing.T) {
	data := []byte("Title\nbad\xffbyte\n")
	src, err := NewCSVSource(writeCSVFile(t, data))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got := sheet.Rows[0].Cells[0]
	if !strings.Contains(got, "�") || strings.Contains(got, "\xff") {
		t.Errorf("cell = %q, want invalid byte replaced", got)
	}
}

func TestCSVSource_LoadRaggedAndEmptyRows(t *testing.T) {
	data := []byte("A,B,C\nx\n,,\nq,r,s,t\n")
	src, err := NewCSVSource(writeCSVFile(t, data))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// The all-blank record is dropped; ragged rows survive as-is.
	if len(sheet.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2: %v", len(sheet.Rows), sheet.Rows)
	}
	if len(sheet.Rows[0].Cells) != 1 || len(sheet.Rows[1].Cells) != 4 {
		t.Errorf("row widths = %d/%d, want 1/4",
			len(sheet.Rows[0].Cells), len(sheet.Rows[1].Cells))
	}
}

func TestCSVSource_LoadEmptyFile(t *testing.T) {
	src, err := NewCSVSource(writeCSVFile(t, nil))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	sheet, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sheet.Header) != 0 || len(sheet.Rows) != 0 {
		t.Errorf("empty file should produce empty sheet, got %+v", sheet)
	}
}

func TestCSVSource_LoadMissingFile(t *testing.T) {
	src, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}
	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestCSVSource_LoadCancelledContext(t *testing.T) {
	src, err := NewCSVSource(writeCSVFile(t, []byte("Title\n")))
	if err != nil {
		t.Fatalf("NewCSVSource() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Load(ctx); err == nil {
		t.Fatal("Load() error = nil, want context error")
	}
}
