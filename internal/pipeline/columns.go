package pipeline

import "strings"

// Keys identifying the logical columns of the output table.
const (
	FieldDateSubmitted = "date-submitted"
	FieldTitle         = "title"
	FieldContent       = "content"
	FieldCategories    = "categories"
	FieldPostBy        = "post-by"
	FieldPublished     = "published"
	FieldNotes         = "notes"
)

// Field describes one logical column: the header names that may carry it in
// a source sheet, and the position to assume when none of them match.
type Field struct {
	Key      string
	Label    string
	Aliases  []string
	Fallback int
}

// DefaultFields returns the standard logical columns in output order. Alias
// lists are configurable per deployment; these are the stock spellings.
func DefaultFields() []Field {
	return []Field{
		{Key: FieldDateSubmitted, Label: "Date Submitted", Fallback: 0,
			Aliases: []string{"date submitted", "date", "submitted", "timestamp"}},
		{Key: FieldTitle, Label: "Title", Fallback: 1,
			Aliases: []string{"title", "post title", "name"}},
		{Key: FieldContent, Label: "Content", Fallback: 2,
			Aliases: []string{"content", "body", "post content", "message"}},
		{Key: FieldCategories, Label: "Categories", Fallback: 3,
			Aliases: []string{"categories", "category", "tags"}},
		{Key: FieldPostBy, Label: "Post By", Fallback: 4,
			Aliases: []string{"post by", "author", "posted by", "submitter"}},
		{Key: FieldPublished, Label: "Published", Fallback: 5,
			Aliases: []string{"published", "is published", "live"}},
		{Key: FieldNotes, Label: "Notes", Fallback: 6,
			Aliases: []string{"notes", "note", "comments"}},
	}
}

// FieldsWithAliases returns DefaultFields with per-field alias overrides
// applied. Keys follow the Field* constants; fields without an override
// keep their stock aliases, and empty override lists are ignored.
func FieldsWithAliases(overrides map[string][]string) []Field {
	fields := DefaultFields()
	if len(overrides) == 0 {
		return fields
	}
	for i, f := range fields {
		if aliases := overrides[f.Key]; len(aliases) > 0 {
			fields[i].Aliases = append([]string(nil), aliases...)
		}
	}
	return fields
}

// ResolveColumns maps each field to a source column index, or -1 when the
// field cannot be located. Aliases are tried in order, case-insensitively;
// a field whose aliases all miss falls back to its fixed position when the
// header is wide enough.
func ResolveColumns(header []string, fields []Field) []int {
	idx := headerIndex(header)
	out := make([]int, len(fields))
	for i, f := range fields {
		out[i] = resolveField(idx, len(header), f)
	}
	return out
}

func resolveField(idx map[string]int, width int, f Field) int {
	for _, alias := range f.Aliases {
		if pos, ok := idx[normalizeHeader(alias)]; ok {
			return pos
		}
	}
	if f.Fallback >= 0 && f.Fallback < width {
		return f.Fallback
	}
	return -1
}

// headerIndex maps normalized column names to positions. The first
// occurrence wins for duplicate names.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := normalizeHeader(name)
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	return idx
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EnsureComputedColumn returns a header that contains name exactly once,
// along with its index. When the header already carries the name
// (case-insensitive), its position is reused; otherwise the name is
// appended. The input slice is never mutated, so repeated application is
// safe and cannot duplicate the column.
func EnsureComputedColumn(header []string, name string) ([]string, int) {
	target := strings.TrimSpace(name)
	for i, existing := range header {
		if strings.EqualFold(strings.TrimSpace(existing), target) {
			return append([]string(nil), header...), i
		}
	}
	out := make([]string, 0, len(header)+1)
	out = append(out, header...)
	out = append(out, name)
	return out, len(out) - 1
}
