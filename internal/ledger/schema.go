package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion tracks schema.sql. Bump it with every change to that file.
const schemaVersion = 1

// ErrSchemaMismatch reports a ledger written by a different voicegen schema.
var ErrSchemaMismatch = errors.New("ledger schema mismatch")

// ensureSchema creates the tables in a fresh database and refuses one whose
// recorded version differs from schemaVersion. History is disposable, so
// there are no migrations.
func (s *Store) ensureSchema(ctx context.Context) error {
	version, found, err := s.storedVersion(ctx)
	if err != nil {
		return err
	}
	if !found {
		return s.createSchema(ctx)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: %s holds schema v%d, this build writes v%d; move the file aside or point ledger.path at a new one",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
	return nil
}

func (s *Store) storedVersion(ctx context.Context) (int, bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'schema_version'",
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("inspect ledger %s: %w", s.path, err)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		// An empty version table means an interrupted bootstrap.
		return 0, true, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read ledger schema version: %w", err)
	}
	return version, true, nil
}

func (s *Store) createSchema(ctx context.Context) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger bootstrap: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create ledger tables: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("stamp ledger schema v%d: %w", schemaVersion, err)
	}
	return tx.Commit()
}
