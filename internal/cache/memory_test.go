package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

// ============================================================================
// MemoryStore Tests
// ============================================================================

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	want := []byte(`{"header":["a"],"rows":[]}`)
	if err := s.Put(ctx, "k", want, time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true before TTL elapses")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Get() = %q, want %q", got, want)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()

	_, ok, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for absent key, want false")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true after TTL elapsed, want false")
	}
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Error("Get() ok = false for zero-TTL entry, want true")
	}
}

func TestMemoryStore_Remove(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("Get() ok = true after Remove, want false")
	}

	// Removing an absent key is a no-op.
	if err := s.Remove(ctx, "absent"); err != nil {
		t.Errorf("Remove(absent) error = %v, want nil", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("abc"), time.Minute); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	first, _, _ := s.Get(ctx, "k")
	first[0] = 'X'

	second, _, _ := s.Get(ctx, "k")
	if !bytes.Equal(second, []byte("abc")) {
		t.Errorf("stored value mutated through returned slice: %q", second)
	}
}

func TestMemoryStore_SweepEvictsExpired(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	if err := s.Put(ctx, "k", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	s.mu.RLock()
	n := len(s.entries)
	s.mu.RUnlock()
	if n != 0 {
		t.Errorf("entries after sweep = %d, want 0", n)
	}
}
