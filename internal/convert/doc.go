// Package convert runs one catalog-to-playlists conversion end to end.
//
// A run takes an advisory lock on the output directory, checks its inputs,
// decodes the catalog, writes the selected playlists, and then records the
// outcome in the history ledger and the metrics textfile. Ledger and metrics
// failures are logged and never fail the run.
package convert
