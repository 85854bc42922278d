package emitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"

	"playlister/internal/fileutil"
	"playlister/internal/library"
	"playlister/internal/logging"
	"playlister/internal/textutil"
)

// Status describes what happened to one playlist.
type Status string

const (
	StatusWritten     Status = "written"
	StatusEmpty       Status = "empty"
	StatusInvalidName Status = "invalid_name"
	StatusWriteFailed Status = "write_failed"
	StatusAborted     Status = "aborted"
)

// Options controls path rewriting and output format.
type Options struct {
	OutputDir   string
	Extension   string
	LibraryPath string
	ReplacePath string
	Verify      bool
	// VerifyPath is the prefix used to probe the filesystem. Empty means
	// ReplacePath.
	VerifyPath string
	Randomize  bool
	Extended   bool
	FillTags   bool
}

// Result reports the outcome for one playlist.
type Result struct {
	PlaylistID int
	Name       string
	File       string
	Status     Status
	Written    int
	Skipped    int
}

// TrackLookup resolves track ids.
type TrackLookup interface {
	Get(id int) (library.Track, bool)
}

// Option customizes an Emitter.
type Option func(*Emitter)

// WithRand sets the random source used by Randomize.
func WithRand(rng *rand.Rand) Option {
	return func(e *Emitter) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithTagReader sets the reader used when FillTags is enabled.
func WithTagReader(reader TagReader) Option {
	return func(e *Emitter) {
		if reader != nil {
			e.tags = reader
		}
	}
}

// Emitter writes playlists to OutputDir.
type Emitter struct {
	opts   Options
	tracks TrackLookup
	logger *slog.Logger
	rng    *rand.Rand
	tags   TagReader
}

type entry struct {
	path  string
	track library.Track
}

// New constructs an Emitter.
func New(opts Options, tracks TrackLookup, logger *slog.Logger, options ...Option) *Emitter {
	e := &Emitter{
		opts:   opts,
		tracks: tracks,
		logger: logging.NewComponentLogger(logger, "emitter"),
		rng:    newRand(),
		tags:   FileTagReader{},
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// EmitAll writes every wanted playlist in order. A returned error is fatal
// and the results gathered so far are returned alongside it.
func (e *Emitter) EmitAll(ctx context.Context, playlists []library.Playlist) ([]Result, error) {
	results := make([]Result, 0, len(playlists))
	files := make(map[string]string, len(playlists))
	for _, playlist := range playlists {
		if !playlist.Wanted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := e.Emit(ctx, playlist)
		results = append(results, result)
		if err != nil {
			return results, err
		}
		if result.File == "" {
			continue
		}
		if previous, ok := files[result.File]; ok {
			logging.WarnWithContext(e.logger, "playlist file overwritten by a later playlist", "duplicate_filename",
				logging.String(logging.FieldPlaylist, playlist.Name),
				logging.String("previous_playlist", previous),
				logging.String(logging.FieldPath, result.File),
				logging.String(logging.FieldImpact, "earlier playlist file replaced"),
				logging.String(logging.FieldErrorHint, "rename one of the playlists"),
			)
		}
		files[result.File] = playlist.Name
	}
	return results, nil
}

// Emit writes a single playlist.
func (e *Emitter) Emit(ctx context.Context, playlist library.Playlist) (Result, error) {
	result := Result{PlaylistID: playlist.ID, Name: playlist.Name}
	logger := logging.WithContext(ctx, e.logger).With(
		logging.String(logging.FieldPlaylist, playlist.Name),
		logging.Int(logging.FieldPlaylistID, playlist.ID),
	)

	if len(playlist.TrackIDs) == 0 {
		result.Status = StatusEmpty
		logging.WarnWithContext(logger, "playlist has no tracks", "empty_playlist",
			logging.String(logging.FieldImpact, "playlist not written"),
		)
		return result, nil
	}

	name, err := textutil.PlaylistFileName(playlist.Name, e.opts.Extension)
	if err != nil {
		result.Status = StatusInvalidName
		logging.WarnWithContext(logger, "playlist name cannot be used as a filename", "invalid_playlist_name",
			logging.Error(err),
			logging.String(logging.FieldImpact, "playlist not written"),
			logging.String(logging.FieldErrorHint, "rename the playlist in the catalog"),
		)
		return result, nil
	}
	result.File = filepath.Join(e.opts.OutputDir, name)

	ids := playlist.TrackIDs
	if e.opts.Randomize {
		ids = shuffled(e.rng, ids)
	}

	entries := make([]entry, 0, len(ids))
	for _, id := range ids {
		item, ok, err := e.resolve(logger, id)
		if err != nil {
			result.Status = StatusAborted
			return result, fmt.Errorf("playlist %q: %w", playlist.Name, err)
		}
		if !ok {
			result.Skipped++
			continue
		}
		entries = append(entries, item)
	}

	err = fileutil.WriteFileAtomic(result.File, func(w io.Writer) error {
		return e.write(w, entries)
	})
	if err != nil {
		result.Status = StatusWriteFailed
		logging.WarnWithContext(logger, "playlist file could not be written", "playlist_write_failed",
			logging.String(logging.FieldPath, result.File),
			logging.Error(err),
			logging.String(logging.FieldImpact, "playlist not written"),
			logging.String(logging.FieldErrorHint, "check output directory permissions"),
		)
		return result, nil
	}

	result.Status = StatusWritten
	result.Written = len(entries)
	logger.Info("playlist written",
		logging.String(logging.FieldPath, result.File),
		logging.Int("entries", result.Written),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

// resolve maps a track id to the path written for it. ok is false when the
// entry is skipped; err is only set for fatal conditions.
func (e *Emitter) resolve(logger *slog.Logger, id int) (entry, bool, error) {
	track, found := e.tracks.Get(id)
	if !found {
		logging.WarnWithContext(logger, "playlist references unknown track", "track_missing",
			logging.Int(logging.FieldTrackID, id),
			logging.String(logging.FieldImpact, "entry omitted"),
		)
		return entry{}, false, nil
	}

	path := RewriteLocation(track.Location, e.opts.LibraryPath, e.opts.ReplacePath)
	if e.opts.Verify {
		verifyPrefix := e.opts.VerifyPath
		if verifyPrefix == "" {
			verifyPrefix = e.opts.ReplacePath
		}
		candidate := RewriteLocation(track.Location, e.opts.LibraryPath, verifyPrefix)
		resolved, err := fileutil.ResolveCaseInsensitive(candidate)
		if errors.Is(err, fileutil.ErrIdenticalCaseMatch) {
			return entry{}, false, err
		}
		if err != nil {
			logging.WarnWithContext(logger, "track file not found", "track_not_found",
				logging.Int(logging.FieldTrackID, id),
				logging.String(logging.FieldPath, candidate),
				logging.Error(err),
				logging.String(logging.FieldImpact, "entry omitted"),
				logging.String(logging.FieldErrorHint, "check location_remove, location_replace and verify.path"),
			)
			return entry{}, false, nil
		}
		if resolved != filepath.Clean(candidate) && verifyPrefix == e.opts.ReplacePath {
			logger.Debug("track path case corrected",
				logging.Int(logging.FieldTrackID, id),
				logging.String("from", candidate),
				logging.String("to", resolved),
			)
			path = resolved
		}
		if e.opts.Extended && e.opts.FillTags {
			track = e.fillTags(logger, track, resolved)
		}
	}

	if len(path) >= MaxPathBytes {
		logging.WarnWithContext(logger, "track path too long", "track_path_too_long",
			logging.Int(logging.FieldTrackID, id),
			logging.Int("bytes", len(path)),
			logging.String(logging.FieldImpact, "entry omitted"),
		)
		return entry{}, false, nil
	}
	return entry{path: path, track: track}, true, nil
}

func (e *Emitter) fillTags(logger *slog.Logger, track library.Track, path string) library.Track {
	if track.Artist != "" && track.Name != "" {
		return track
	}
	tags, err := e.tags.ReadTags(path)
	if err != nil {
		logger.Debug("audio tags unavailable",
			logging.Int(logging.FieldTrackID, track.ID),
			logging.Error(err),
		)
		return track
	}
	if track.Artist == "" {
		track.Artist = tags.Artist
	}
	if track.Name == "" {
		track.Name = tags.Title
	}
	return track
}

func (e *Emitter) write(w io.Writer, entries []entry) error {
	if e.opts.Extended {
		if _, err := io.WriteString(w, "#EXTM3U\n"); err != nil {
			return err
		}
	}
	for _, item := range entries {
		if e.opts.Extended {
			if _, err := fmt.Fprintf(w, "#EXTINF:%d, %s - %s\n", item.track.TotalTimeMs/1000, item.track.Artist, item.track.Name); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, item.path+"\n"); err != nil {
			return err
		}
	}
	return nil
}
