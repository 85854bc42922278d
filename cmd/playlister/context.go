package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"playlister/internal/config"
	"playlister/internal/logging"
)

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig reads the configuration and applies command-line overrides.
// It does not validate, so commands that never touch the catalog still work
// without one.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Read(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		c.applyOverrides(cfg)
		if err := cfg.Normalize(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) validConfig() (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *commandContext) applyOverrides(cfg *config.Config) {
	f := c.flags
	setIf(&cfg.Library.Catalog, f.catalog)
	setIf(&cfg.Library.LocationRemove, f.remove)
	setIf(&cfg.Library.LocationReplace, f.replace)
	setIf(&cfg.Output.Dir, f.output)
	setIf(&cfg.Output.Extension, f.extension)
	setIf(&cfg.Output.Format, f.format)
	setIf(&cfg.Verify.Path, f.verifyPath)
	setIf(&cfg.Logging.Format, f.logFormat)
	if f.verify {
		cfg.Verify.Enabled = true
	}
	if f.randomize {
		cfg.Output.Randomize = true
	}
	if f.noList {
		cfg.Playlists.Names = nil
	}
	if len(f.lists) > 0 {
		cfg.Playlists.Names = append(cfg.Playlists.Names, f.lists...)
	}
	cfg.Logging.Level = logging.AdjustLevel(cfg.Logging.Level, f.verbose, f.quiet)
}

func setIf(target *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*target = value
	}
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
