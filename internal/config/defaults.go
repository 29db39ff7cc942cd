package config

const (
	defaultConfigPath           = "~/.config/trackmux/config.toml"
	defaultTempDir              = "~/.cache/trackmux/work"
	defaultLogDir               = "~/.local/share/trackmux/logs"
	defaultJournalPath          = "~/.local/share/trackmux/journal.db"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultMKVExtract           = "mkvextract"
	defaultMKVMerge             = "mkvmerge"
	defaultFFmpeg               = "ffmpeg"
	defaultMediaInfo            = "mediainfo"
	envNtfyTopic                = "TRACKMUX_NTFY_TOPIC"
	envTempDir                  = "TRACKMUX_TEMP_DIR"
)

var defaultShutdownCommand = []string{"systemctl", "poweroff"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			MKVExtract: defaultMKVExtract,
			MKVMerge:   defaultMKVMerge,
			FFmpeg:     defaultFFmpeg,
			MediaInfo:  defaultMediaInfo,
		},
		Paths: Paths{
			TempDir: defaultTempDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Journal: Journal{
			Enabled: true,
			Path:    defaultJournalPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			OnSuccess:      true,
			OnFailure:      true,
		},
		Shutdown: Shutdown{
			Command: append([]string(nil), defaultShutdownCommand...),
		},
	}
}
