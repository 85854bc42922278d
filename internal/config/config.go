package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvCatalog names the environment variable consulted when no catalog is configured.
const EnvCatalog = "PLAYLISTER_CATALOG"

// Library describes the source catalog and how its track locations map onto
// this machine.
type Library struct {
	Catalog         string `toml:"catalog"`
	LocationRemove  string `toml:"location_remove"`
	LocationReplace string `toml:"location_replace"`
}

// Output controls where and how playlist files are written.
type Output struct {
	Dir       string `toml:"dir"`
	Extension string `toml:"extension"`
	Format    string `toml:"format"`
	Randomize bool   `toml:"randomize"`
}

// Verify controls on-disk verification of rewritten track paths.
type Verify struct {
	Enabled bool `toml:"enabled"`
	// Path replaces location_replace when probing the filesystem. Empty
	// means location_replace.
	Path     string `toml:"path"`
	FillTags bool   `toml:"fill_tags"`
}

// Playlists selects playlists by exact name. Empty selects all.
type Playlists struct {
	Names []string `toml:"names"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Metrics contains configuration for the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for playlister.
//
// Configuration sections by concern:
//   - Library: catalog file and location rewriting
//   - Output: destination directory, extension, format and shuffling
//   - Verify: existence checks with case-insensitive fallback
//   - Playlists: which playlists to write
//   - Logging: log format, level and optional file
//   - History: SQLite ledger of past runs
//   - Metrics: Prometheus textfile for node_exporter
type Config struct {
	Library   Library   `toml:"library"`
	Output    Output    `toml:"output"`
	Verify    Verify    `toml:"verify"`
	Playlists Playlists `toml:"playlists"`
	Logging   Logging   `toml:"logging"`
	History   History   `toml:"history"`
	Metrics   Metrics   `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/playlister/config.toml")
}

// SearchPaths lists the locations consulted, in order, when no explicit
// configuration file is given.
func SearchPaths() ([]string, error) {
	candidates := []string{
		"~/.playlister.toml",
		"~/.config/playlister/config.toml",
		"~/playlister.toml",
		"/usr/local/etc/playlister.toml",
		"/etc/playlister.toml",
		"playlister.toml",
	}
	paths := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return nil, err
		}
		paths = append(paths, expanded)
	}
	return paths, nil
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. An explicit path must
// exist; without one the search paths are tried and defaults are used when
// none exists.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := Read(path)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return cfg, resolvedPath, exists, nil
}

// Read is Load without validation. Callers that apply command-line overrides
// validate afterwards.
func Read(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config %s: %s", resolvedPath, strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.Normalize(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	candidates, err := SearchPaths()
	if err != nil {
		return "", false, err
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Extended reports whether playlists are written in extended M3U.
func (c *Config) Extended() bool {
	return c.Output.Format == FormatExtM3U
}

// VerifyPrefix returns the prefix used when probing track paths.
func (c *Config) VerifyPrefix() string {
	if c.Verify.Path != "" {
		return c.Verify.Path
	}
	return c.Library.LocationReplace
}
