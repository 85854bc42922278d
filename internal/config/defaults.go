package config

// Output formats.
const (
	FormatM3U    = "m3u"
	FormatExtM3U = "extm3u"
)

const (
	defaultOutputDir       = "."
	defaultExtension       = "m3u"
	defaultFormat          = FormatM3U
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultHistoryEnabled  = true
	defaultHistoryPath     = "~/.local/share/playlister/history.db"
	maxLocationPrefixBytes = 1024
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Dir:       defaultOutputDir,
			Extension: defaultExtension,
			Format:    defaultFormat,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
			Path:    defaultHistoryPath,
		},
	}
}
