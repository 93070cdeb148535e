package cache

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

// ============================================================================
// SQLiteStore Tests
// ============================================================================

func openTempStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSQLiteStore_PutGetRoundTrip(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	want := []byte(`{"header":["title"],"rows":[["x"]]}`)
	if err := store.Put(ctx, "table:v1", want, time.Minute); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "table:v1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("get ok = false, want true")
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("value = %q, want %q", got, want)
	}
}

func TestSQLiteStore_MissingKey(t *testing.T) {
	store := openTempStore(t)

	_, ok, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("get ok = true for absent key, want false")
	}
}

func TestSQLiteStore_ExpiredEntryReportsAbsent(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("put: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	_, ok, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("get ok = true after TTL elapsed, want false")
	}
}

func TestSQLiteStore_UpsertReplacesValue(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("old"), time.Minute); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("new"), time.Minute); err != nil {
		t.Fatalf("put new: %v", err)
	}

	got, ok, err := store.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != "new" {
		t.Fatalf("value = %q, want %q", got, "new")
	}
}

func TestSQLiteStore_RejectsEmptyKeyAndValue(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "", []byte("v"), time.Minute); err == nil {
		t.Error("put with empty key error = nil, want error")
	}
	if err := store.Put(ctx, "k", nil, time.Minute); err == nil {
		t.Error("put with empty value error = nil, want error")
	}
	if _, _, err := store.Get(ctx, ""); err == nil {
		t.Error("get with empty key error = nil, want error")
	}
}

func TestSQLiteStore_RemoveAbsentKey(t *testing.T) {
	store := openTempStore(t)

	if err := store.Remove(context.Background(), "absent"); err != nil {
		t.Fatalf("remove absent key: %v", err)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("survives"), time.Hour); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if !ok {
		t.Fatal("get ok = false after reopen, want true")
	}
	if string(got) != "survives" {
		t.Fatalf("value = %q, want %q", got, "survives")
	}
}
