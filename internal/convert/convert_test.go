package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/gofrs/flock"

	"playlister/internal/convert"
	"playlister/internal/emitter"
	"playlister/internal/history"
	"playlister/internal/logging"
	"playlister/internal/testsupport"
)

var catalogTracks = []testsupport.CatalogTrack{
	{ID: 101, Name: "Highway", Artist: "Guest", AlbumArtist: "The Band", TotalTime: 241000, Location: "file://localhost/C:/Music/The%20Band/Highway.mp3"},
	{ID: 102, Name: "Dunes", Artist: "Solo", TotalTime: 180500, Location: "file://localhost/C:/Music/Solo/Dunes.mp3"},
	{ID: 103, Name: "Rain", Artist: "Solo", TotalTime: 200000, Location: "file://localhost/C:/Music/Solo/Rain.mp3"},
}

var catalogPlaylists = []testsupport.CatalogPlaylist{
	{ID: 1, Name: "Road Trip", TrackIDs: []int{101, 102, 101}},
	{ID: 2, Name: "Chill", TrackIDs: []int{103}},
}

func TestRunWritesSelectedPlaylists(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithCatalog(catalogTracks, catalogPlaylists),
		testsupport.WithPlaylists("Road Trip", "Road Trp"),
		testsupport.WithExtended(),
		testsupport.WithMetricsTextfile(),
	)

	summary, err := convert.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if summary.Decode.Tracks != 3 || summary.Decode.Playlists != 2 || summary.Decode.Warnings != 0 {
		t.Fatalf("unexpected decode stats: %+v", summary.Decode)
	}
	wantMissing := []convert.MissingPlaylist{{Name: "Road Trp", Suggestions: []string{"Road Trip"}}}
	if diff := deep.Equal(summary.Missing, wantMissing); diff != nil {
		t.Fatalf("missing mismatch: %v", diff)
	}
	if summary.Written() != 1 || summary.Entries() != 3 {
		t.Fatalf("unexpected counts: written=%d entries=%d", summary.Written(), summary.Entries())
	}
	if summary.Status() != history.StatusWarnings {
		t.Fatalf("unexpected status %q", summary.Status())
	}

	music := testsupport.MusicDir(cfg)
	want := []string{
		"#EXTM3U",
		"#EXTINF:241, The Band - Highway",
		filepath.Join(music, "The Band", "Highway.mp3"),
		"#EXTINF:180, Solo - Dunes",
		filepath.Join(music, "Solo", "Dunes.mp3"),
		"#EXTINF:241, The Band - Highway",
		filepath.Join(music, "The Band", "Highway.mp3"),
	}
	got := testsupport.ReadLines(t, filepath.Join(cfg.Output.Dir, "Road_Trip.m3u"))
	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("playlist mismatch: %v", diff)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "Chill.m3u")); !os.IsNotExist(err) {
		t.Fatalf("expected unselected playlist to be skipped, stat err %v", err)
	}

	store := testsupport.MustOpenHistory(t, cfg)
	runs, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != summary.RunID || runs[0].Status != history.StatusWarnings {
		t.Fatalf("unexpected history: %+v", runs)
	}
	if len(runs[0].Results) != 1 || runs[0].Results[0].Written != 3 {
		t.Fatalf("unexpected history results: %+v", runs[0].Results)
	}

	metricsText, err := os.ReadFile(cfg.Metrics.Textfile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(metricsText), "playlister_entries_written 3") {
		t.Fatalf("unexpected metrics:\n%s", metricsText)
	}
}

func TestRunAllPlaylistsWithVerification(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalogTracks, catalogPlaylists))
	cfg.Verify.Enabled = true
	cfg.Output.Randomize = true
	music := testsupport.MusicDir(cfg)
	testsupport.WriteTracks(t, music, "The Band/Highway.mp3", "solo/dunes.MP3")

	summary, err := convert.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	statuses := map[string]emitter.Status{}
	for _, result := range summary.Results {
		statuses[result.Name] = result.Status
	}
	wantStatuses := map[string]emitter.Status{"Road Trip": emitter.StatusWritten, "Chill": emitter.StatusWritten}
	if diff := deep.Equal(statuses, wantStatuses); diff != nil {
		t.Fatalf("status mismatch: %v", diff)
	}

	roadTrip := testsupport.ReadLines(t, filepath.Join(cfg.Output.Dir, "Road_Trip.m3u"))
	if len(roadTrip) != 3 {
		t.Fatalf("expected 3 verified entries, got %v", roadTrip)
	}
	for _, line := range roadTrip {
		if line != filepath.Join(music, "The Band", "Highway.mp3") && line != filepath.Join(music, "solo", "dunes.MP3") {
			t.Fatalf("unexpected entry %q", line)
		}
	}
	if chill := testsupport.ReadLines(t, filepath.Join(cfg.Output.Dir, "Chill.m3u")); len(chill) != 0 {
		t.Fatalf("expected unverified track to be dropped, got %v", chill)
	}
	if summary.Warnings() != 1 {
		t.Fatalf("expected one skipped entry warning, got %d", summary.Warnings())
	}
}

func TestRunFailsWhenOutputLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalogTracks, catalogPlaylists))
	held := flock.New(filepath.Join(cfg.Output.Dir, convert.LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-lock failed: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	summary, err := convert.Run(context.Background(), cfg, logging.NewNop())
	if !errors.Is(err, convert.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if summary == nil || summary.Status() != history.StatusFailed {
		t.Fatalf("expected failed summary, got %+v", summary)
	}

	store := testsupport.MustOpenHistory(t, cfg)
	runs, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != history.StatusFailed || runs[0].Error == "" {
		t.Fatalf("expected failed run in history, got %+v", runs)
	}
}

func TestRunFailsPreflightWithoutCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.History.Enabled = false

	_, err := convert.Run(context.Background(), cfg, logging.NewNop())
	if err == nil || !strings.Contains(err.Error(), "preflight") {
		t.Fatalf("expected preflight error, got %v", err)
	}
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(catalogTracks, catalogPlaylists))
	blocker := filepath.Join(testsupport.BaseDir(cfg), "blocker")
	testsupport.WriteFile(t, blocker, 1)
	cfg.History.Path = filepath.Join(blocker, "history.db")

	summary, err := convert.Run(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if summary.Written() != 2 {
		t.Fatalf("expected both playlists written, got %d", summary.Written())
	}
}
