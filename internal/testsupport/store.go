package testsupport

import (
	"context"
	"testing"

	"voicegen/internal/config"
	"voicegen/internal/ledger"
)

// MustOpenLedger opens the configured ledger and closes it at cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("open ledger %s: %v", cfg.Ledger.Path, err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedLedger records entries in the configured ledger and closes it again so
// the code under test opens a fresh handle.
func SeedLedger(t testing.TB, cfg *config.Config, entries ...ledger.Entry) {
	t.Helper()

	store, err := ledger.Open(context.Background(), cfg.Ledger.Path)
	if err != nil {
		t.Fatalf("open ledger %s: %v", cfg.Ledger.Path, err)
	}
	defer store.Close()
	for _, entry := range entries {
		if err := store.Record(context.Background(), entry); err != nil {
			t.Fatalf("seed %s: %v", entry.Label(), err)
		}
	}
}
