package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"playlister/internal/logging"
	"playlister/internal/plist"
)

// Library is a decoded catalog.
type Library struct {
	Tracks    *TrackStore
	Playlists *PlaylistStore
	Stats     Stats
}

// Load decodes the catalog at path. wanted selects playlists by exact name;
// an empty selection keeps every playlist.
func Load(ctx context.Context, path string, wanted []string, logger *slog.Logger) (*Library, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	lib, err := Read(ctx, file, wanted, logger)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return lib, nil
}

// Read decodes a catalog from r.
func Read(ctx context.Context, r io.Reader, wanted []string, logger *slog.Logger) (*Library, error) {
	tracks := NewTrackStore()
	playlists := NewPlaylistStore(wanted)
	dec := NewDecoder(tracks, playlists, logger)

	if err := dec.Decode(ctx, plist.NewReader(r)); err != nil {
		return nil, err
	}

	stats := dec.Stats()
	logging.NewComponentLogger(logger, "decoder").Info("catalog decoded",
		logging.Int("tracks", stats.Tracks),
		logging.Int("playlists", stats.Playlists),
		logging.Int("warnings", stats.Warnings),
		logging.Int("events", stats.Events),
	)
	return &Library{Tracks: tracks, Playlists: playlists, Stats: stats}, nil
}
