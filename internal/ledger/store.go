package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded job outcome.
type Entry struct {
	ID        int64
	RunID     string
	Set       string
	Key       string
	Path      string
	Model     string
	VoiceID   string
	TextSHA1  string
	Status    string
	Bytes     int64
	Duration  time.Duration
	Error     string
	CreatedAt time.Time
}

// Label mirrors the job label format used in logs.
func (e Entry) Label() string {
	if e.Set == "" {
		return e.Key
	}
	return e.Set + "/" + e.Key
}

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record inserts entry. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.RunID == "" || entry.Key == "" || entry.Status == "" {
		return errors.New("ledger entry requires run id, key and status")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO generations (
            run_id, set_name, line_key, path, model, voice_id, text_sha1,
            status, bytes, duration_ms, error_message, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		nullableString(entry.Set),
		entry.Key,
		entry.Path,
		nullableString(entry.Model),
		nullableString(entry.VoiceID),
		nullableString(entry.TextSHA1),
		entry.Status,
		entry.Bytes,
		nullableDuration(entry.Duration),
		nullableString(entry.Error),
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

const entryColumns = "id, run_id, set_name, line_key, path, model, voice_id, text_sha1, status, bytes, duration_ms, error_message, created_at"

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM generations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ForRun returns the entries of one run in insertion order.
func (s *Store) ForRun(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM generations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry      Entry
		setName    sql.NullString
		model      sql.NullString
		voiceID    sql.NullString
		textSHA1   sql.NullString
		durationMS sql.NullInt64
		errMessage sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.RunID,
		&setName,
		&entry.Key,
		&entry.Path,
		&model,
		&voiceID,
		&textSHA1,
		&entry.Status,
		&entry.Bytes,
		&durationMS,
		&errMessage,
		&createdRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.Set = setName.String
	entry.Model = model.String
	entry.VoiceID = voiceID.String
	entry.TextSHA1 = textSHA1.String
	entry.Error = errMessage.String
	if durationMS.Valid {
		entry.Duration = time.Duration(durationMS.Int64) * time.Millisecond
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = ts
	}
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func nullableDuration(value time.Duration) any {
	if value <= 0 {
		return nil
	}
	return value.Milliseconds()
}
