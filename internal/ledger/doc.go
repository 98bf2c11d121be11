// Package ledger persists per-talk pipeline state in SQLite.
//
// The Store records one row per talk keyed by the talk identifier: current
// status, resolved title, output clip path, uploaded video ID, and the run
// that last touched it. Stages consult the ledger to skip work that already
// completed, which is what makes repeated runs over the same spreadsheet
// idempotent beyond the file-level checks.
//
// The database is transient run state, not an archive. Schema changes bump
// the version in schema.go; users clear the database to adopt a new schema.
package ledger
