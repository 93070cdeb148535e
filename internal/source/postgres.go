package source

// postgres.go loads a sheet from a PostgreSQL table. A column named
// <base>_spans (matched case-insensitively) carries span JSON for the
// column named <base>: it is hidden from the visible header and its
// spans attach as styled text to the base column's cells. Span JSON that
// fails to parse leaves the cell unstyled; the display string still
// renders through the plain-text path downstream.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/richsheet/internal/richtext"
)

const spanColumnSuffix = "_spans"

// PostgresSource loads a sheet from a single database table.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource creates a source reading every row of table.
func NewPostgresSource(pool *pgxpool.Pool, table string) (*PostgresSource, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &PostgresSource{pool: pool, table: strings.TrimSpace(table)}, nil
}

// Load implements Source.
func (s *PostgresSource) Load(ctx context.Context) (Sheet, error) {
	query := fmt.Sprintf("SELECT * FROM %s", quoteIdentifier(s.table))

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return Sheet{}, fmt.Errorf("query table %s: %w", s.table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	rawHeader := make([]string, len(fields))
	for i, f := range fields {
		rawHeader[i] = f.Name
	}

	// Pair each span column with its base column; everything else is visible.
	spanFor := make(map[int]int, len(rawHeader))
	visible := make([]int, 0, len(rawHeader))
	for i, name := range rawHeader {
		if base, ok := baseColumnIndex(rawHeader, name); ok {
			spanFor[i] = base
			continue
		}
		visible = append(visible, i)
	}

	header := make([]string, len(visible))
	outIndex := make(map[int]int, len(visible))
	for out, raw := range visible {
		header[out] = rawHeader[raw]
		outIndex[raw] = out
	}

	sheet := Sheet{Header: header}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return Sheet{}, fmt.Errorf("read row values: %w", err)
		}

		row := Row{Cells: make([]string, len(visible))}
		for out, raw := range visible {
			row.Cells[out] = formatValue(values[raw])
		}
		for spanIdx, baseRaw := range spanFor {
			out, ok := outIndex[baseRaw]
			if !ok {
				continue
			}
			spanJSON := formatValue(values[spanIdx])
			if strings.TrimSpace(spanJSON) == "" {
				continue
			}
			var spans []richtext.Span
			if err := json.Unmarshal([]byte(spanJSON), &spans); err != nil || len(spans) == 0 {
				continue
			}
			if row.Styles == nil {
				row.Styles = make(map[int]richtext.StyledText)
			}
			row.Styles[out] = richtext.NewSpanText(row.Cells[out], spans)
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return Sheet{}, fmt.Errorf("rows error: %w", err)
	}
	return sheet, nil
}

// baseColumnIndex reports whether name is a span companion column, and if
// so the index of the base column it decorates.
func baseColumnIndex(header []string, name string) (int, bool) {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, spanColumnSuffix) {
		return 0, false
	}
	base := lower[:len(lower)-len(spanColumnSuffix)]
	if base == "" {
		return 0, false
	}
	for i, candidate := range header {
		if strings.EqualFold(candidate, base) {
			return i, true
		}
	}
	return 0, false
}

// quoteIdentifier safely quotes a PostgreSQL identifier.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// formatValue renders a driver value as the cell's display string.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
