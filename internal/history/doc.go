// Package history keeps a SQLite ledger of conversion runs.
//
// Each run records the catalog it read, decode and emit counts, and one row
// per playlist outcome. The ledger is advisory: callers log a failed write
// and carry on. The schema is versioned; a database written by another
// version is rejected with ErrSchemaMismatch and must be removed by hand.
package history
