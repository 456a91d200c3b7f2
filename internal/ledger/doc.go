// Package ledger persists generation outcomes in SQLite.
//
// Each batch run records one row per job (generated, skipped, planned or
// failed) tagged with the run identifier, so `voicegen history` can show
// what a previous run did. The runner never reads the ledger back: skip
// decisions are made from the filesystem alone.
//
// The schema is embedded and versioned through a schema_version table. A
// version mismatch is reported with ErrSchemaMismatch; the ledger holds only
// history, so deleting the database file is always safe.
package ledger
