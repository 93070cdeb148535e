package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// CSVSource reads a sheet from a CSV export. The first record is the
// header. CSV cells carry no styling, so every content cell renders through
// the plain text fallback.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source reading the CSV file at path.
func NewCSVSource(path string) (*CSVSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("csv source: path is required")
	}
	return &CSVSource{path: path}, nil
}

// Load reads and parses the whole file. Spreadsheet exports are small
// enough that streaming parse is not worth the complexity here.
func (s *CSVSource) Load(ctx context.Context) (Sheet, error) {
	if err := ctx.Err(); err != nil {
		return Sheet{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet file: %w", err)
	}

	// Windows exports often carry a UTF-8 BOM and stray invalid bytes.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Sheet{}, nil
	}

	sheet := Sheet{
		Header: records[0],
		Rows:   make([]Row, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		sheet.Rows = append(sheet.Rows, Row{Cells: rec})
	}
	return sheet, nil
}

// sanitizeUTF8 replaces invalid UTF-8 sequences with the Unicode
// replacement character so the CSV parser never sees broken runes.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
