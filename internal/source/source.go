// Package source supplies tabular data to the pipeline: a header plus rows
// of display strings, with optional per-cell styled-text metadata.
//
// Three implementations exist: a JSON sheet file for development and tests,
// a CSV export, and a PostgreSQL table for production. A source may attach
// styled text to any cell; cells without metadata fall back to plain-text
// rendering downstream.
package source

import (
	"context"

	"github.com/JonMunkholm/richsheet/internal/richtext"
)

// Row is one data row: display cells plus styled text for any cell that
// carries style metadata, keyed by column index.
type Row struct {
	Cells  []string
	Styles map[int]richtext.StyledText
}

// Sheet is a source's raw header and rows before pipeline processing.
type Sheet struct {
	Header []string
	Rows   []Row
}

// Source loads a sheet from a backing system.
type Source interface {
	Load(ctx context.Context) (Sheet, error)
}
