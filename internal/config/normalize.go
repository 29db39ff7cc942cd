package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeLogging()
	c.normalizeNotifications()
	c.normalizeShutdown()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envTempDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.TempDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}

	var err error
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	if file := strings.TrimSpace(c.Logging.File); strings.HasPrefix(file, "~") {
		if c.Logging.File, err = expandPath(file); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.MKVExtract = toolOrDefault(c.Tools.MKVExtract, defaultMKVExtract)
	c.Tools.MKVMerge = toolOrDefault(c.Tools.MKVMerge, defaultMKVMerge)
	c.Tools.FFmpeg = toolOrDefault(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.MediaInfo = toolOrDefault(c.Tools.MediaInfo, defaultMediaInfo)
}

func toolOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	if strings.HasPrefix(value, "~") {
		if expanded, err := expandPath(value); err == nil {
			return expanded
		}
	}
	return value
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv(envNtfyTopic); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeShutdown() {
	command := make([]string, 0, len(c.Shutdown.Command))
	for _, part := range c.Shutdown.Command {
		if part = strings.TrimSpace(part); part != "" {
			command = append(command, part)
		}
	}
	c.Shutdown.Command = command
}
