package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"

	"playlister/internal/history"
	"playlister/internal/testsupport"
)

func sampleRun(id string, started time.Time) history.Run {
	return history.Run{
		ID:         id,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Catalog:    "/music/iTunes Music Library.xml",
		Tracks:     120,
		Playlists:  2,
		Written:    1,
		Warnings:   1,
		Status:     history.StatusWarnings,
		Results: []history.PlaylistResult{
			{PlaylistID: 10, Name: "Road Trip", File: "/out/Road_Trip.m3u", Status: "written", Written: 42, Skipped: 1},
			{PlaylistID: 11, Name: "Empty", Status: "empty"},
		},
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	started := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	run := sampleRun("run-1", started)
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := store.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if diff := deep.Equal(runs[0], run); diff != nil {
		t.Fatalf("run mismatch: %v", diff)
	}
	if runs[0].Duration() != 1500*time.Millisecond {
		t.Fatalf("unexpected duration %s", runs[0].Duration())
	}
}

func TestRecentOrdersNewestFirstAndLimits(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		run := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
		run.Results = nil
		if err := store.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun %s failed: %v", id, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	if diff := deep.Equal(ids, []string{"c", "b"}); diff != nil {
		t.Fatalf("order mismatch: %v", diff)
	}
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	ctx := context.Background()

	run := sampleRun("dup", time.Now())
	if err := store.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := store.RecordRun(ctx, run); err == nil {
		t.Fatal("expected duplicate id to fail")
	}
	results, err := store.Results(ctx, "dup")
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected failed insert to roll back, got %d results", len(results))
	}
}

func TestRecordRunRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	if err := store.RecordRun(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.RecordRun(context.Background(), sampleRun("persist", time.Now())); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "persist" {
		t.Fatalf("unexpected runs after reopen: %+v", runs)
	}
	if reopened.Path() != path {
		t.Fatalf("got %q want %q", reopened.Path(), path)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := history.SetSchemaVersionForTest(store, 99); err != nil {
		t.Fatalf("set version: %v", err)
	}
	_ = store.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
