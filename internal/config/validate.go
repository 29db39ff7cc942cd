package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateTools() error {
	for key, value := range map[string]string{
		"tools.mkvextract": c.Tools.MKVExtract,
		"tools.mkvmerge":   c.Tools.MKVMerge,
		"tools.ffmpeg":     c.Tools.FFmpeg,
		"tools.mediainfo":  c.Tools.MediaInfo,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must be set", key)
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.TempDir == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if c.Paths.TempDir == "/" {
		return errors.New("paths.temp_dir must not be the filesystem root")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
