package pipeline

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	table := Table{
		Header: []string{"Title", "Content HTML"},
		Rows:   [][]string{{"Hello", "<strong>hi</strong>"}},
	}

	snap := NewSnapshot(table)
	if snap.SnapshotID == uuid.Nil {
		t.Error("got nil snapshot id")
	}
	if snap.GeneratedAt.IsZero() {
		t.Error("got zero generatedAt")
	}

	payload, err := EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("EncodeSnapshot returned error: %v", err)
	}
	if err := ValidatePayload(payload); err != nil {
		t.Fatalf("ValidatePayload returned error: %v", err)
	}

	decoded, err := DecodeSnapshot(payload)
	if err != nil {
		t.Fatalf("DecodeSnapshot returned error: %v", err)
	}
	if decoded.SnapshotID != snap.SnapshotID {
		t.Errorf("got snapshot id %s, want %s", decoded.SnapshotID, snap.SnapshotID)
	}
	if !reflect.DeepEqual(decoded.Table, table) {
		t.Errorf("got table %+v, want %+v", decoded.Table, table)
	}
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{name: "valid", payload: `{"header": ["A"], "rows": []}`, wantErr: false},
		{name: "not json", payload: `{{{`, wantErr: true},
		{name: "missing header", payload: `{"rows": [["x"]]}`, wantErr: true},
		{name: "empty header", payload: `{"header": [], "rows": []}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload([]byte(tt.payload))
			if (err != nil) != tt.wantErr {
				t.Errorf("got err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeSnapshot_NormalizesNilSlices(t *testing.T) {
	decoded, err := DecodeSnapshot([]byte(`{}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot returned error: %v", err)
	}
	if decoded.Header == nil {
		t.Error("got nil header, want empty slice")
	}
	if decoded.Rows == nil {
		t.Error("got nil rows, want empty slice")
	}
}
