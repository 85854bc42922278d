package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateVerify(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateMetrics()
}

func (c *Config) validateLibrary() error {
	if c.Library.Catalog == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/playlister/config.toml"
		}
		return fmt.Errorf("library.catalog is required. Pass --xml, set %s, or edit %s (create with 'playlister config init')", EnvCatalog, defaultPath)
	}
	if len(c.Library.LocationRemove) >= maxLocationPrefixBytes {
		return fmt.Errorf("library.location_remove must be shorter than %d bytes", maxLocationPrefixBytes)
	}
	if len(c.Library.LocationReplace) >= maxLocationPrefixBytes {
		return fmt.Errorf("library.location_replace must be shorter than %d bytes", maxLocationPrefixBytes)
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.Format {
	case FormatM3U, FormatExtM3U:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", FormatM3U, FormatExtM3U, c.Output.Format)
	}
	if c.Output.Extension == "" || c.Output.Extension == "." {
		return errors.New("output.extension is required")
	}
	if strings.ContainsAny(c.Output.Extension, `/\`) {
		return errors.New("output.extension must not contain path separators")
	}
	return nil
}

func (c *Config) validateVerify() error {
	if len(c.Verify.Path) >= maxLocationPrefixBytes {
		return fmt.Errorf("verify.path must be shorter than %d bytes", maxLocationPrefixBytes)
	}
	if c.Verify.FillTags && !c.Verify.Enabled {
		return errors.New("verify.fill_tags requires verify.enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Textfile != "" && !strings.HasSuffix(c.Metrics.Textfile, ".prom") {
		return errors.New("metrics.textfile must end in .prom for the node_exporter textfile collector")
	}
	return nil
}
