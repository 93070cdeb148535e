package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Table is the assembled output: one header row and data rows of equal
// width. The computed HTML column appears in the header exactly once.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Snapshot is the cache payload envelope: a table plus provenance fields
// identifying when and under which identity it was computed.
type Snapshot struct {
	SnapshotID  uuid.UUID `json:"snapshotId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Table
}

// NewSnapshot wraps a table in a freshly identified envelope.
func NewSnapshot(table Table) Snapshot {
	return Snapshot{
		SnapshotID:  uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Table:       table,
	}
}

// EncodeSnapshot serializes a snapshot for cache storage.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return payload, nil
}

// DecodeSnapshot parses a cache payload. Header and rows are normalized to
// non-nil slices so callers always receive a well-formed table.
func DecodeSnapshot(payload []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Header == nil {
		snap.Header = []string{}
	}
	if snap.Rows == nil {
		snap.Rows = [][]string{}
	}
	return snap, nil
}

// ValidatePayload reports whether a cache payload decodes to a usable
// snapshot. A payload without header columns is as useless as a corrupt
// one, so both are rejected.
func ValidatePayload(payload []byte) error {
	snap, err := DecodeSnapshot(payload)
	if err != nil {
		return err
	}
	if len(snap.Header) == 0 {
		return fmt.Errorf("snapshot has no header columns")
	}
	return nil
}
