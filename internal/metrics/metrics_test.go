package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTextfile(t *testing.T) {
	recorder := NewRecorder()
	recorder.ObserveDecode(120, 4, 1)
	recorder.ObservePlaylist("written", 40, 2)
	recorder.ObservePlaylist("written", 10, 0)
	recorder.ObservePlaylist("empty", 0, 0)
	started := time.Unix(1714564800, 0)
	recorder.ObserveRun(started, started.Add(2500*time.Millisecond), true)

	path := filepath.Join(t.TempDir(), "textfile", "playlister.prom")
	if err := recorder.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"playlister_tracks_decoded 120",
		"playlister_playlists_decoded 4",
		"playlister_decode_warnings 1",
		`playlister_playlists_written_total{status="written"} 2`,
		`playlister_playlists_written_total{status="empty"} 1`,
		"playlister_entries_written 50",
		"playlister_entries_skipped 2",
		"playlister_run_duration_seconds 2.5",
		"playlister_last_run_timestamp_seconds 1.714564802e+09",
		"playlister_last_run_success 1",
		"playlister_build_info{",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("textfile missing %q:\n%s", want, text)
		}
	}
}

func TestObserveRunFailure(t *testing.T) {
	recorder := NewRecorder()
	now := time.Now()
	recorder.ObserveRun(now, now, false)

	families, err := recorder.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != "playlister_last_run_success" {
			continue
		}
		if got := family.GetMetric()[0].GetGauge().GetValue(); got != 0 {
			t.Fatalf("got %v want 0", got)
		}
		return
	}
	t.Fatal("playlister_last_run_success not gathered")
}
