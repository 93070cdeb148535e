package cache

// manager.go layers the two-tier semantics over a Store: a short-lived
// primary entry backed by a long-lived backup entry under a second key.
//
// Read path: primary, then backup. A valid backup hit is written back into
// primary under the primary TTL, which is the only way primary is
// resurrected without recomputation. Corrupt payloads and store errors are
// logged and treated as misses at every step.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Outcome reports where GetWithFallback found a valid payload.
type Outcome int

const (
	// OutcomeMiss means neither tier held a valid payload.
	OutcomeMiss Outcome = iota
	// OutcomePrimary means the primary tier answered.
	OutcomePrimary
	// OutcomeBackup means the backup tier answered and primary was
	// repopulated from it.
	OutcomeBackup
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomePrimary:
		return "primary"
	case OutcomeBackup:
		return "backup"
	default:
		return "miss"
	}
}

// ManagerConfig describes the two tiers of one logical dataset.
type ManagerConfig struct {
	PrimaryKey string
	BackupKey  string
	PrimaryTTL time.Duration
	BackupTTL  time.Duration

	// Validate reports whether a stored payload is usable. A nil Validate
	// accepts every payload. Validation failures count as absence.
	Validate func(payload []byte) error
}

// Manager implements the two-tier read/write protocol over a Store.
type Manager struct {
	store Store
	log   *slog.Logger
	cfg   ManagerConfig
}

// NewManager creates a Manager for one logical dataset.
func NewManager(store Store, cfg ManagerConfig, logger *slog.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if cfg.PrimaryKey == "" || cfg.BackupKey == "" {
		return nil, fmt.Errorf("cache keys are required")
	}
	if cfg.PrimaryKey == cfg.BackupKey {
		return nil, fmt.Errorf("primary and backup keys must differ")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, log: logger, cfg: cfg}, nil
}

// PrimaryTTL returns the primary tier's TTL.
func (m *Manager) PrimaryTTL() time.Duration { return m.cfg.PrimaryTTL }

// BackupTTL returns the backup tier's TTL.
func (m *Manager) BackupTTL() time.Duration { return m.cfg.BackupTTL }

// GetWithFallback returns the cached payload and where it came from.
// A backup hit repopulates the primary tier before returning.
func (m *Manager) GetWithFallback(ctx context.Context) ([]byte, Outcome) {
	if payload, ok := m.readTier(ctx, m.cfg.PrimaryKey, "primary"); ok {
		return payload, OutcomePrimary
	}

	payload, ok := m.readTier(ctx, m.cfg.BackupKey, "backup")
	if !ok {
		return nil, OutcomeMiss
	}

	if err := m.store.Put(ctx, m.cfg.PrimaryKey, payload, m.cfg.PrimaryTTL); err != nil {
		m.log.Warn("cache restore to primary failed", "key", m.cfg.PrimaryKey, "error", err)
	} else {
		m.log.Info("cache primary restored from backup", "key", m.cfg.PrimaryKey)
	}
	return payload, OutcomeBackup
}

// WriteThrough stores payload under both tiers. Failures are logged; the
// caller's response never depends on a cache write succeeding.
func (m *Manager) WriteThrough(ctx context.Context, payload []byte) {
	if err := m.store.Put(ctx, m.cfg.PrimaryKey, payload, m.cfg.PrimaryTTL); err != nil {
		m.log.Warn("cache write failed", "tier", "primary", "key", m.cfg.PrimaryKey, "error", err)
	}
	if err := m.store.Put(ctx, m.cfg.BackupKey, payload, m.cfg.BackupTTL); err != nil {
		m.log.Warn("cache write failed", "tier", "backup", "key", m.cfg.BackupKey, "error", err)
	}
}

// Clear removes both tiers.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	if err := m.store.Remove(ctx, m.cfg.PrimaryKey); err != nil {
		errs = append(errs, fmt.Errorf("remove primary: %w", err))
	}
	if err := m.store.Remove(ctx, m.cfg.BackupKey); err != nil {
		errs = append(errs, fmt.Errorf("remove backup: %w", err))
	}
	return errors.Join(errs...)
}

// Peek reports validated presence per tier and returns the freshest valid
// payload (primary first). Unlike GetWithFallback it never repopulates;
// diagnostics must not mutate cache state.
func (m *Manager) Peek(ctx context.Context) (payload []byte, primaryOK, backupOK bool) {
	primary, pok := m.readTier(ctx, m.cfg.PrimaryKey, "primary")
	backup, bok := m.readTier(ctx, m.cfg.BackupKey, "backup")

	switch {
	case pok:
		payload = primary
	case bok:
		payload = backup
	}
	return payload, pok, bok
}

// readTier reads and validates one tier. Store errors and corrupt payloads
// both report absence.
func (m *Manager) readTier(ctx context.Context, key, tier string) ([]byte, bool) {
	payload, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Warn("cache read failed", "tier", tier, "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	if m.cfg.Validate != nil {
		if err := m.cfg.Validate(payload); err != nil {
			m.log.Warn("cache payload corrupt, treating as miss", "tier", tier, "key", key, "error", err)
			return nil, false
		}
	}
	return payload, true
}
