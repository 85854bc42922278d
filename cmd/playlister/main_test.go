package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"playlister/internal/config"
	"playlister/internal/testsupport"
)

var cliTracks = []testsupport.CatalogTrack{
	{ID: 7, Name: "Morning", Artist: "Quartet", TotalTime: 120000, Location: "file://localhost/C:/Music/Quartet/Morning.mp3"},
	{ID: 8, Name: "Evening", Artist: "Quartet", TotalTime: 90000, Location: "file://localhost/C:/Music/Quartet/Evening.mp3"},
}

var cliPlaylists = []testsupport.CatalogPlaylist{
	{ID: 1, Name: "Daily Mix", TrackIDs: []int{7, 8}},
	{ID: 2, Name: "Empty"},
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvCatalog, "")
	cfg.Logging.Level = "error"
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, got)
	}
}

func TestConvertCommandWritesPlaylists(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(cliTracks, cliPlaylists))
	path := writeConfig(t, cfg)

	stdout, stderr, err := runCLI(t, "-c", path, "--format", "extm3u")
	if err != nil {
		t.Fatalf("convert failed: %v (stderr %s)", err, stderr)
	}
	requireContains(t, stdout, "written\tDaily Mix\t2\t0\t")
	requireContains(t, stdout, "empty\tEmpty\t0\t0\t")

	music := testsupport.MusicDir(cfg)
	got := testsupport.ReadLines(t, filepath.Join(cfg.Output.Dir, "Daily_Mix.m3u"))
	want := []string{
		"#EXTM3U",
		"#EXTINF:120, Quartet - Morning",
		filepath.Join(music, "Quartet", "Morning.mp3"),
		"#EXTINF:90, Quartet - Evening",
		filepath.Join(music, "Quartet", "Evening.mp3"),
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected playlist:\n%s", strings.Join(got, "\n"))
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.Dir, "Empty.m3u")); !os.IsNotExist(err) {
		t.Fatalf("expected no file for empty playlist, stat err %v", err)
	}

	historyOut, _, err := runCLI(t, "-c", path, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, historyOut, "completed_with_warnings")
	requireContains(t, historyOut, "1/2")

	store := testsupport.MustOpenHistory(t, cfg)
	runs, err := store.Recent(context.Background(), 1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("recent runs: %v (%d)", err, len(runs))
	}
	detail, _, err := runCLI(t, "-c", path, "history", "--run", runs[0].ID[:8])
	if err != nil {
		t.Fatalf("history --run failed: %v", err)
	}
	requireContains(t, detail, "Run "+runs[0].ID)
	requireContains(t, detail, "written\tDaily Mix\t2\t0\t")

	if _, _, err := runCLI(t, "-c", path, "history", "--run", "zzzz"); err == nil {
		t.Fatal("expected unknown run error")
	}
}

func TestConvertCommandListFlagSelectsPlaylists(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(cliTracks, cliPlaylists))
	path := writeConfig(t, cfg)

	alt := filepath.Join(testsupport.BaseDir(cfg), "alt")
	if err := os.MkdirAll(alt, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	stdout, _, err := runCLI(t, "-c", path, "-l", "Daily Mix", "-o", alt, "-X", "m3u8")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if strings.Contains(stdout, "Empty") {
		t.Fatalf("unselected playlist reported:\n%s", stdout)
	}
	lines := testsupport.ReadLines(t, filepath.Join(alt, "Daily_Mix.m3u8"))
	if len(lines) != 2 {
		t.Fatalf("expected two plain entries, got %v", lines)
	}
}

func TestListCommandShowsSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithCatalog(cliTracks, cliPlaylists),
		testsupport.WithPlaylists("Daily Mix"),
	)
	path := writeConfig(t, cfg)

	stdout, _, err := runCLI(t, "-c", path, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	requireContains(t, stdout, "1\tDaily Mix\t2\tyes\tDaily_Mix.m3u")
	requireContains(t, stdout, "2\tEmpty\t0\tno\tEmpty.m3u")
}

func TestListCommandReportsMissingPlaylist(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(cliTracks, cliPlaylists))
	path := writeConfig(t, cfg)

	_, stderr, err := runCLI(t, "-c", path, "list", "-l", "Nightly")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	requireContains(t, stderr, `requested playlist "Nightly" not found`)
}

func TestHistoryWithoutRuns(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeConfig(t, cfg)

	stdout, _, err := runCLI(t, "-c", path, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	requireContains(t, stdout, "No runs recorded yet")
}

func TestConvertRequiresCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Library.Catalog = ""
	path := writeConfig(t, cfg)

	_, _, err := runCLI(t, "-c", path)
	if err == nil || !strings.Contains(err.Error(), "library.catalog is required") {
		t.Fatalf("expected missing catalog error, got %v", err)
	}
}

func TestConfigInitAndOverwrite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	stdout, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	requireContains(t, stdout, "Wrote sample configuration to "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
}

func TestConfigValidateReportsChecks(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalog(cliTracks, cliPlaylists))
	path := writeConfig(t, cfg)

	stdout, _, err := runCLI(t, "-c", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	requireContains(t, stdout, "Config path: "+path)
	requireContains(t, stdout, "Configuration valid")
}

func TestConfigValidateFailsOnMissingCatalogFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := writeConfig(t, cfg)

	stdout, _, err := runCLI(t, "-c", path, "config", "validate")
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, stdout, "FAIL")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	requireContains(t, stdout, "playlister")

	about, _, err := runCLI(t, "--about")
	if err != nil {
		t.Fatalf("about failed: %v", err)
	}
	requireContains(t, about, "Converts iTunes library playlists")
}
