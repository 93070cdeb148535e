// Package pipeline assembles the published table. It resolves the logical
// columns of a source sheet, converts each row's content cell to HTML,
// appends the computed column, and keeps the finished table warm in a
// two-tier cache.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JonMunkholm/richsheet/internal/cache"
	"github.com/JonMunkholm/richsheet/internal/richtext"
	"github.com/JonMunkholm/richsheet/internal/source"
)

const (
	// DefaultComputedColumn names the appended HTML column.
	DefaultComputedColumn = "Content HTML"

	// DefaultBatchSize is how many rows are converted between context
	// checks. Checking every row would be expensive; a hundred rows is
	// typically sub-millisecond of work.
	DefaultBatchSize = 100
)

// Config carries the collaborators and tuning for a Service.
type Config struct {
	Source         source.Source
	Cache          *cache.Manager
	Fields         []Field // nil means DefaultFields
	ComputedColumn string
	BatchSize      int
	Logger         *slog.Logger
}

// Service orchestrates source loading, per-cell conversion, table assembly
// and cache population.
type Service struct {
	source   source.Source
	cache    *cache.Manager
	fields   []Field
	content  int
	computed string
	batch    int
	log      *slog.Logger
}

// New validates cfg and builds a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if cfg.Cache == nil {
		return nil, fmt.Errorf("cache manager is required")
	}

	fields := cfg.Fields
	if fields == nil {
		fields = DefaultFields()
	}
	content := -1
	for i, f := range fields {
		if f.Key == FieldContent {
			content = i
			break
		}
	}
	if content < 0 {
		return nil, fmt.Errorf("fields must include the %s column", FieldContent)
	}

	computed := strings.TrimSpace(cfg.ComputedColumn)
	if computed == "" {
		computed = DefaultComputedColumn
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		source:   cfg.Source,
		cache:    cfg.Cache,
		fields:   fields,
		content:  content,
		computed: computed,
		batch:    batch,
		log:      logger,
	}, nil
}

/* ----------------------------------------
	Table retrieval
---------------------------------------- */

// GetTable returns the published table, serving it from cache when either
// tier holds a valid snapshot and recomputing otherwise. A failing or
// empty source yields an empty table, never an error; the only error
// returned is context cancellation.
func (s *Service) GetTable(ctx context.Context) (Table, error) {
	payload, outcome := s.cache.GetWithFallback(ctx)
	if outcome != cache.OutcomeMiss {
		snap, err := DecodeSnapshot(payload)
		if err == nil {
			s.log.Debug("serving cached table", "outcome", outcome, "rows", len(snap.Rows))
			return snap.Table, nil
		}
		s.log.Warn("cached snapshot unreadable, recomputing", "error", err)
	}

	table, err := s.compute(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Table{}, err
		}
		s.log.Warn("table recomputation failed", "error", err)
		return emptyTable(), nil
	}
	if len(table.Header) == 0 {
		return table, nil
	}

	s.writeThrough(ctx, table)
	return table, nil
}

// compute loads the sheet and assembles a fresh table. It does not touch
// the cache.
func (s *Service) compute(ctx context.Context) (Table, error) {
	sheet, err := s.source.Load(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("loading sheet: %w", err)
	}
	if len(sheet.Header) == 0 {
		return emptyTable(), nil
	}
	return s.buildTable(ctx, sheet)
}

func (s *Service) buildTable(ctx context.Context, sheet source.Sheet) (Table, error) {
	resolved := ResolveColumns(sheet.Header, s.fields)

	header := make([]string, len(s.fields))
	for i, f := range s.fields {
		header[i] = f.Label
		if idx := resolved[i]; idx >= 0 {
			if name := strings.TrimSpace(sheet.Header[idx]); name != "" {
				header[i] = name
			}
		}
	}
	header, computedIdx := EnsureComputedColumn(header, s.computed)

	contentIdx := resolved[s.content]

	rows := make([][]string, 0, len(sheet.Rows))
	for r, row := range sheet.Rows {
		// Check context periodically so long conversions stay cancellable.
		if r%s.batch == 0 {
			if err := ctx.Err(); err != nil {
				return Table{}, fmt.Errorf("conversion cancelled at row %d: %w", r+1, err)
			}
		}

		out := make([]string, len(header))
		for i := range s.fields {
			if idx := resolved[i]; idx >= 0 && idx < len(row.Cells) {
				out[i] = row.Cells[idx]
			}
		}

		var display string
		var styled richtext.StyledText
		if contentIdx >= 0 {
			if contentIdx < len(row.Cells) {
				display = row.Cells[contentIdx]
			}
			styled = row.Styles[contentIdx]
		}
		out[computedIdx] = s.renderContent(r, display, styled)

		rows = append(rows, out)
	}

	return Table{Header: header, Rows: rows}, nil
}

// renderContent converts one content cell. Whitespace-only cells produce
// empty HTML without touching the renderer; styled conversion failures
// fall back to the plain-text linkifier for that cell only.
func (s *Service) renderContent(row int, display string, styled richtext.StyledText) string {
	if strings.TrimSpace(display) == "" {
		return ""
	}
	if styled != nil {
		html, err := richtext.Render(styled)
		if err == nil {
			return html
		}
		s.log.Debug("styled conversion failed, using plain text", "row", row, "error", err)
	}
	return richtext.Linkify(display)
}

// writeThrough stores a freshly computed table in both cache tiers.
// Failures are logged and swallowed; caching never affects the response.
func (s *Service) writeThrough(ctx context.Context, table Table) {
	snap := NewSnapshot(table)
	payload, err := EncodeSnapshot(snap)
	if err != nil {
		s.log.Warn("snapshot encoding failed, skipping cache write", "error", err)
		return
	}
	s.cache.WriteThrough(ctx, payload)
	s.log.Info("table cached",
		"snapshotId", snap.SnapshotID,
		"rows", len(table.Rows),
		"columns", len(table.Header))
}

func emptyTable() Table {
	return Table{Header: []string{}, Rows: [][]string{}}
}

/* ----------------------------------------
	Operational surface
---------------------------------------- */

// ClearResult reports the outcome of a cache clear.
type ClearResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PreloadResult reports the outcome of a forced recomputation.
type PreloadResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DurationMs int64  `json:"durationMs"`
}

// Stats describes the current cache population.
type Stats struct {
	PrimaryPresent    bool   `json:"primaryPresent"`
	BackupPresent     bool   `json:"backupPresent"`
	RowCount          int    `json:"rowCount"`
	ColumnCount       int    `json:"columnCount"`
	Timestamp         string `json:"timestamp"`
	PrimaryTTLSeconds int    `json:"primaryTtlSeconds"`
	BackupTTLSeconds  int    `json:"backupTtlSeconds"`
}

// ClearCaches removes both cache tiers. Failures are reported in the
// result, never propagated.
func (s *Service) ClearCaches(ctx context.Context) ClearResult {
	if err := s.cache.Clear(ctx); err != nil {
		return ClearResult{Success: false, Message: fmt.Sprintf("clearing caches: %v", err)}
	}
	return ClearResult{Success: true, Message: "Both cache tiers cleared."}
}

// Preload forces a recomputation and populates both tiers regardless of
// what the cache currently holds.
func (s *Service) Preload(ctx context.Context) PreloadResult {
	start := time.Now()

	table, err := s.compute(ctx)
	if err != nil {
		return PreloadResult{
			Success:    false,
			Message:    fmt.Sprintf("recomputing table: %v", err),
			DurationMs: time.Since(start).Milliseconds(),
		}
	}
	if len(table.Header) == 0 {
		return PreloadResult{
			Success:    false,
			Message:    "source returned no columns; caches left unchanged",
			DurationMs: time.Since(start).Milliseconds(),
		}
	}

	s.writeThrough(ctx, table)
	elapsed := time.Since(start)
	return PreloadResult{
		Success:    true,
		Message:    fmt.Sprintf("Preloaded %d rows in %s.", len(table.Rows), elapsed.Round(time.Millisecond)),
		DurationMs: elapsed.Milliseconds(),
	}
}

// CacheStats reports tier presence, the cached table's dimensions, and the
// configured TTLs. It inspects without repopulating and never fails;
// unreadable payloads simply report zero dimensions.
func (s *Service) CacheStats(ctx context.Context) Stats {
	payload, primaryOK, backupOK := s.cache.Peek(ctx)

	stats := Stats{
		PrimaryPresent:    primaryOK,
		BackupPresent:     backupOK,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		PrimaryTTLSeconds: int(s.cache.PrimaryTTL().Seconds()),
		BackupTTLSeconds:  int(s.cache.BackupTTL().Seconds()),
	}
	if len(payload) > 0 {
		if snap, err := DecodeSnapshot(payload); err == nil {
			stats.RowCount = len(snap.Rows)
			stats.ColumnCount = len(snap.Header)
		}
	}
	return stats
}
