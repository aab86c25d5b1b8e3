package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFiles(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateRemote(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFiles() error {
	if _, err := regexp.Compile("(?i)" + c.Files.TVEpisodePattern); err != nil {
		return fmt.Errorf("files.tv_episode_pattern is not a valid regular expression: %w", err)
	}
	if _, err := regexp.Compile(c.Files.ExtractPattern); err != nil {
		return fmt.Errorf("files.extract_pattern is not a valid regular expression: %w", err)
	}
	if len(c.Files.MediaExtensions) == 0 {
		return errors.New("files.media_extensions must list at least one extension")
	}
	if len(c.Files.SubtitleExtensions) == 0 {
		return errors.New("files.subtitle_extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.OtherFontSize <= 0 {
		return errors.New("subtitles.other_font_size must be positive")
	}
	if c.Subtitles.BottomFontSize <= 0 {
		return errors.New("subtitles.bottom_font_size must be positive")
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.PrimaryStyle == "" {
		return errors.New("merge.primary_style must be set")
	}
	if c.Merge.SecondaryStyle == "" {
		return errors.New("merge.secondary_style must be set")
	}
	if strings.EqualFold(c.Merge.PrimaryStyle, c.Merge.SecondaryStyle) {
		return errors.New("merge.primary_style and merge.secondary_style must differ")
	}
	if c.Merge.PrimaryStyle == "Default" || c.Merge.SecondaryStyle == "Default" {
		return errors.New("merge style labels cannot be Default")
	}
	return nil
}

func (c *Config) validateRemote() error {
	switch c.Remote.Backend {
	case BackendSFTP, BackendLocal:
	default:
		return fmt.Errorf("remote.backend: unsupported value %q (use %q or %q)", c.Remote.Backend, BackendSFTP, BackendLocal)
	}
	if c.Remote.TimeoutSeconds <= 0 {
		return errors.New("remote.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case logFormatConsole, logFormatJSON:
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
