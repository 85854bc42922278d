// Package emitter writes decoded playlists as M3U files.
//
// For every wanted playlist the emitter derives a portable filename, orders
// the track ids (optionally shuffled), rewrites each track's catalog Location
// into a local path, optionally verifies the path on disk with a
// case-insensitive fallback, and writes the result atomically. Problems with
// a single track or playlist are logged and skipped; only contradictions in
// the filesystem abort the run.
package emitter
