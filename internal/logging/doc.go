// Package logging assembles the slog loggers used across playlister.
//
// It owns the console and JSON handlers, level parsing and verbosity
// adjustment, and the standardized field keys (component, run_id, playlist,
// track_id, path). WarnWithContext enforces that every warning carries an
// event type, a hint and its impact. NewNop provides a silent logger for
// tests and optional wiring.
package logging
