package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playlister/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCatalog(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "library.xml")
	if err := os.WriteFile(catalog, []byte("<plist/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := CheckCatalog(catalog); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckCatalog(dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckCatalog(filepath.Join(dir, "missing.xml")); result.Passed {
		t.Fatal("expected failure for missing catalog")
	}
	if result := CheckCatalog(""); result.Passed || result.Detail != "not configured" {
		t.Fatalf("expected not configured failure, got %+v", result)
	}
}

func TestRunChecksVerifyRootOnlyWhenEnabled(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "library.xml")
	if err := os.WriteFile(catalog, []byte("<plist/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Library.Catalog = catalog
	cfg.Output.Dir = dir
	cfg.Library.LocationReplace = filepath.Join(dir, "missing-music")

	results := Run(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected no failures, got %v", err)
	}

	cfg.Verify.Enabled = true
	results = Run(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	err := Err(results)
	if err == nil || !strings.Contains(err.Error(), "Verify root") {
		t.Fatalf("expected verify root failure, got %v", err)
	}

	cfg.Verify.Path = "relative/music"
	if results := Run(&cfg); len(results) != 2 {
		t.Fatalf("expected relative verify prefix to be skipped, got %d results", len(results))
	}
}

func TestRunNilConfig(t *testing.T) {
	if results := Run(nil); results != nil {
		t.Fatalf("expected nil results, got %v", results)
	}
}
