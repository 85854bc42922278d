package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"playlister/internal/config"
	"playlister/internal/emitter"
	"playlister/internal/history"
	"playlister/internal/library"
	"playlister/internal/logging"
	"playlister/internal/metrics"
	"playlister/internal/preflight"
	"playlister/internal/textutil"
)

// LockFileName is created in the output directory while a run holds it.
const LockFileName = ".playlister.lock"

const maxSuggestions = 3

// ErrLocked reports another run writing into the same output directory.
var ErrLocked = errors.New("another playlister run holds the output directory")

// Option customizes a run.
type Option func(*runner)

type runner struct {
	cfg         *config.Config
	logger      *slog.Logger
	emitterOpts []emitter.Option
	now         func() time.Time
}

// WithEmitterOptions passes options through to the playlist emitter.
func WithEmitterOptions(opts ...emitter.Option) Option {
	return func(r *runner) {
		r.emitterOpts = append(r.emitterOpts, opts...)
	}
}

// Run converts the configured catalog. The returned summary is non-nil even
// when err is set.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Summary, error) {
	if cfg == nil {
		return nil, errors.New("convert: config is required")
	}
	r := &runner{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		Catalog:   cfg.Library.Catalog,
		StartedAt: r.now(),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	r.logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "convert"))

	summary.Err = r.run(ctx, logger, summary)
	summary.FinishedAt = r.now()
	r.record(ctx, summary)

	if summary.Err != nil {
		return summary, summary.Err
	}
	r.logger.Info("conversion complete",
		logging.Int("playlists_written", summary.Written()),
		logging.Int("entries", summary.Entries()),
		logging.Int("warnings", summary.Warnings()),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary, nil
}

func (r *runner) run(ctx context.Context, base *slog.Logger, summary *Summary) error {
	if err := preflight.Err(preflight.Run(r.cfg)); err != nil {
		return fmt.Errorf("preflight: %w", err)
	}

	lockPath := filepath.Join(r.cfg.Output.Dir, LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (%s)", ErrLocked, lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release output lock", logging.String(logging.FieldPath, lockPath), logging.Error(err))
		}
	}()

	decodeLogger := logging.WithContext(ctx, base)
	lib, err := library.Load(ctx, r.cfg.Library.Catalog, r.cfg.Playlists.Names, decodeLogger)
	if err != nil {
		return err
	}
	summary.Decode = lib.Stats

	summary.Missing = r.reportMissing(lib.Playlists)

	em := emitter.New(emitter.Options{
		OutputDir:   r.cfg.Output.Dir,
		Extension:   r.cfg.Output.Extension,
		LibraryPath: r.cfg.Library.LocationRemove,
		ReplacePath: r.cfg.Library.LocationReplace,
		Verify:      r.cfg.Verify.Enabled,
		VerifyPath:  r.cfg.Verify.Path,
		Randomize:   r.cfg.Output.Randomize,
		Extended:    r.cfg.Extended(),
		FillTags:    r.cfg.Verify.FillTags,
	}, lib.Tracks, base, r.emitterOpts...)

	results, err := em.EmitAll(ctx, lib.Playlists.Wanted())
	summary.Results = results
	if err != nil {
		return fmt.Errorf("emit playlists: %w", err)
	}
	return nil
}

func (r *runner) reportMissing(playlists *library.PlaylistStore) []MissingPlaylist {
	names := playlists.Missing()
	if len(names) == 0 {
		return nil
	}
	known := playlists.Names()
	missing := make([]MissingPlaylist, 0, len(names))
	for _, name := range names {
		suggestions := textutil.Suggest(name, known, maxSuggestions)
		missing = append(missing, MissingPlaylist{Name: name, Suggestions: suggestions})
		attrs := []logging.Attr{
			logging.String(logging.FieldPlaylist, name),
			logging.String(logging.FieldImpact, "requested playlist not written"),
		}
		if len(suggestions) > 0 {
			attrs = append(attrs,
				logging.String("suggestions", strings.Join(suggestions, ", ")),
				logging.String(logging.FieldErrorHint, fmt.Sprintf("did you mean %q?", suggestions[0])),
			)
		} else {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, "run 'playlister list' to see catalog playlists"))
		}
		logging.WarnWithContext(r.logger, "requested playlist not found in catalog", "playlist_not_found", attrs...)
	}
	return missing
}

func (r *runner) record(ctx context.Context, summary *Summary) {
	if r.cfg.History.Enabled {
		if err := recordHistory(ctx, r.cfg.History.Path, summary.historyRun()); err != nil {
			logging.WarnWithContext(r.logger, "run history not recorded", "history_write_failed",
				logging.String(logging.FieldPath, r.cfg.History.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run missing from 'playlister history'"),
				logging.String(logging.FieldErrorHint, "check history.path or set history.enabled = false"),
			)
		}
	}

	if r.cfg.Metrics.Textfile != "" {
		recorder := metrics.NewRecorder()
		recorder.ObserveDecode(summary.Decode.Tracks, summary.Decode.Playlists, summary.Decode.Warnings)
		for _, result := range summary.Results {
			recorder.ObservePlaylist(string(result.Status), result.Written, result.Skipped)
		}
		recorder.ObserveRun(summary.StartedAt, summary.FinishedAt, summary.Err == nil)
		if err := recorder.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
			logging.WarnWithContext(r.logger, "metrics textfile not written", "metrics_write_failed",
				logging.String(logging.FieldPath, r.cfg.Metrics.Textfile),
				logging.Error(err),
				logging.String(logging.FieldImpact, "metrics for this run unavailable"),
			)
		}
	}
}

func recordHistory(ctx context.Context, path string, run history.Run) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordRun(ctx, run)
}
