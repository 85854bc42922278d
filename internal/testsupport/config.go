package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"playlister/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The output directory exists; the catalog is only written by WithCatalog.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Library.Catalog = filepath.Join(base, "catalog", "iTunes Music Library.xml")
	cfgVal.Library.LocationRemove = "C:/Music/"
	cfgVal.Library.LocationReplace = filepath.Join(base, "music") + "/"
	cfgVal.Output.Dir = filepath.Join(base, "playlists")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")

	if err := os.MkdirAll(cfgVal.Output.Dir, 0o755); err != nil {
		t.Fatalf("mkdir output dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalog writes a generated catalog at the configured catalog path.
func WithCatalog(tracks []CatalogTrack, playlists []CatalogPlaylist) ConfigOption {
	return func(b *configBuilder) {
		WriteCatalog(b.t, filepath.Dir(b.cfg.Library.Catalog), tracks, playlists)
	}
}

// WithPlaylists restricts the run to the named playlists.
func WithPlaylists(names ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Playlists.Names = names
	}
}

// WithExtended selects extended M3U output.
func WithExtended() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Format = config.FormatExtM3U
	}
}

// WithMetricsTextfile enables the metrics textfile inside the temp directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "playlister.prom")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Output.Dir)
}

// MusicDir returns the directory that rewritten track paths point into.
func MusicDir(cfg *config.Config) string {
	return filepath.Join(BaseDir(cfg), "music")
}
