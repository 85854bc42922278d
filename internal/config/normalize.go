package config

import (
	"fmt"
	"os"
	"strings"
)

// Normalize expands paths, applies fallbacks and canonicalizes enumerations.
// Load calls it; callers that modify a Config afterwards call it again.
func (c *Config) Normalize() error {
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeVerify()
	c.normalizePlaylists()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeMetrics()
}

func (c *Config) normalizeLibrary() error {
	c.Library.Catalog = strings.TrimSpace(c.Library.Catalog)
	if c.Library.Catalog == "" {
		if value, ok := os.LookupEnv(EnvCatalog); ok {
			c.Library.Catalog = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Library.Catalog, err = expandPath(c.Library.Catalog); err != nil {
		return fmt.Errorf("library.catalog: %w", err)
	}
	// Catalogs exported on Windows carry backslash prefixes while their
	// Location URLs use forward slashes.
	c.Library.LocationRemove = strings.ReplaceAll(c.Library.LocationRemove, `\`, "/")
	return nil
}

func (c *Config) normalizeOutput() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	var err error
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	c.Output.Extension = strings.TrimSpace(c.Output.Extension)
	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = defaultFormat
	case "m3uext", "ext", "extended":
		c.Output.Format = FormatExtM3U
	}
	return nil
}

func (c *Config) normalizeVerify() {
	c.Verify.Path = strings.TrimSpace(c.Verify.Path)
}

func (c *Config) normalizePlaylists() {
	names := c.Playlists.Names[:0:0]
	seen := make(map[string]struct{}, len(c.Playlists.Names))
	for _, name := range c.Playlists.Names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	c.Playlists.Names = names
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	var err error
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}
