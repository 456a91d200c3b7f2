package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"voicegen/internal/ledger"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(context.Background(), filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	entries := []ledger.Entry{
		{RunID: "run-1", Set: "colors", Key: "red", Path: "/out/red.mp3", Model: "ssfm-v21", VoiceID: "tc_1", Status: "generated", Bytes: 1024, Duration: 1500 * time.Millisecond},
		{RunID: "run-1", Set: "colors", Key: "blue", Path: "/out/blue.mp3", Status: "failed", Error: "http 401"},
		{RunID: "run-2", Key: "intro", Path: "/out/intro.mp3", Status: "skipped"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Label() != "intro" || recent[1].Label() != "colors/blue" {
		t.Fatalf("expected newest first, got %q then %q", recent[0].Label(), recent[1].Label())
	}
	if recent[1].Error != "http 401" || recent[1].Status != "failed" {
		t.Fatalf("unexpected failed entry: %#v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}

	run, err := store.ForRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ForRun failed: %v", err)
	}
	if len(run) != 2 || run[0].Key != "red" {
		t.Fatalf("unexpected run entries: %#v", run)
	}
	if run[0].Duration != 1500*time.Millisecond || run[0].Bytes != 1024 || run[0].VoiceID != "tc_1" {
		t.Fatalf("unexpected generated entry: %#v", run[0])
	}
}

func TestRecordRequiresIdentity(t *testing.T) {
	store := openStore(t)
	if err := store.Record(context.Background(), ledger.Entry{Key: "a", Status: "generated"}); err == nil {
		t.Fatal("expected error without run id")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	store, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Record(ctx, ledger.Entry{RunID: "r", Key: "k", Path: "p", Status: "generated"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()
	recent, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected history to survive reopen, got %d rows", len(recent))
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := ledger.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	store, err := ledger.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	_, err = ledger.Open(ctx, path)
	if !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), path) || !strings.Contains(err.Error(), "ledger.path") {
		t.Fatalf("expected the file and ledger.path in the hint, got %v", err)
	}
}
