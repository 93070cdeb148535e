package source

// file.go reads a sheet from a JSON file on disk. Span metadata sits next to
// the cells it decorates, keyed by column index:
//
//	{
//	  "header": ["Date Submitted", "Title", "Content"],
//	  "rows": [
//	    {
//	      "cells": ["2024-01-02", "Hello", "AB"],
//	      "spans": {"2": [{"start": 0, "end": 1, "bold": true, "link": "http://x"}]}
//	    }
//	  ]
//	}

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/JonMunkholm/richsheet/internal/richtext"
)

// FileSource loads a sheet from a JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading the JSON sheet at path.
func NewFileSource(path string) (*FileSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sheet path is required")
	}
	return &FileSource{path: path}, nil
}

type fileRow struct {
	Cells []string                   `json:"cells"`
	Spans map[string][]richtext.Span `json:"spans,omitempty"`
}

type fileSheet struct {
	Header []string  `json:"header"`
	Rows   []fileRow `json:"rows"`
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context) (Sheet, error) {
	if err := ctx.Err(); err != nil {
		return Sheet{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return Sheet{}, fmt.Errorf("read sheet file: %w", err)
	}

	var raw fileSheet
	if err := json.Unmarshal(data, &raw); err != nil {
		return Sheet{}, fmt.Errorf("parse sheet file: %w", err)
	}

	sheet := Sheet{Header: raw.Header, Rows: make([]Row, 0, len(raw.Rows))}
	for i, r := range raw.Rows {
		row := Row{Cells: r.Cells}
		for col, spans := range r.Spans {
			idx, err := strconv.Atoi(col)
			if err != nil || idx < 0 || idx >= len(r.Cells) {
				return Sheet{}, fmt.Errorf("row %d: invalid span column %q", i, col)
			}
			if len(spans) == 0 {
				continue
			}
			if row.Styles == nil {
				row.Styles = make(map[int]richtext.StyledText)
			}
			row.Styles[idx] = richtext.NewSpanText(r.Cells[idx], spans)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
