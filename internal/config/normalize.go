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
	c.normalizeFiles()
	if err := c.normalizeSubtitles(); err != nil {
		return err
	}
	if err := c.normalizeMerge(); err != nil {
		return err
	}
	if err := c.normalizeRemote(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFiles() {
	c.Files.TVEpisodePattern = strings.TrimSpace(c.Files.TVEpisodePattern)
	if c.Files.TVEpisodePattern == "" {
		c.Files.TVEpisodePattern = defaultTVEpisodePattern
	}
	c.Files.MediaExtensions = normalizeExtensions(c.Files.MediaExtensions)
	c.Files.SubtitleExtensions = normalizeExtensions(c.Files.SubtitleExtensions)
	c.Files.NewSubExtension = strings.TrimSpace(c.Files.NewSubExtension)
	if c.Files.NewSubExtension == "" {
		c.Files.NewSubExtension = defaultNewSubExtension
	}
	c.Files.ExtractPattern = strings.TrimSpace(c.Files.ExtractPattern)
	if c.Files.ExtractPattern == "" {
		c.Files.ExtractPattern = defaultExtractPattern
	}
}

// normalizeExtensions lowercases entries, adds a leading dot, and drops
// blanks and duplicates while keeping order.
func normalizeExtensions(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeSubtitles() error {
	path := strings.TrimSpace(c.Subtitles.DefaultStylePath)
	if path == "" {
		c.Subtitles.DefaultStylePath = ""
		return nil
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("subtitles.default_style_path: %w", err)
	}
	c.Subtitles.DefaultStylePath = expanded
	return nil
}

func (c *Config) normalizeMerge() error {
	c.Merge.PrimaryStyle = strings.TrimSpace(c.Merge.PrimaryStyle)
	c.Merge.SecondaryStyle = strings.TrimSpace(c.Merge.SecondaryStyle)
	c.Merge.OutputExtension = strings.TrimSpace(c.Merge.OutputExtension)
	if c.Merge.OutputExtension == "" {
		c.Merge.OutputExtension = defaultMergeExtension
	}
	if dir := strings.TrimSpace(c.Merge.StagingDir); dir != "" {
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("merge.staging_dir: %w", err)
		}
		c.Merge.StagingDir = expanded
	}
	return nil
}

func (c *Config) normalizeRemote() error {
	c.Remote.Backend = strings.ToLower(strings.TrimSpace(c.Remote.Backend))
	if c.Remote.Backend == "" {
		c.Remote.Backend = defaultRemoteBackend
	}
	c.Remote.HostAlias = strings.TrimSpace(c.Remote.HostAlias)
	if c.Remote.HostAlias == "" {
		if value, ok := os.LookupEnv(envRemoteHostAlias); ok {
			c.Remote.HostAlias = strings.TrimSpace(value)
		}
	}
	var err error
	if strings.TrimSpace(c.Remote.SSHConfigPath) == "" {
		c.Remote.SSHConfigPath = defaultSSHConfigPath
	}
	if c.Remote.SSHConfigPath, err = expandPath(strings.TrimSpace(c.Remote.SSHConfigPath)); err != nil {
		return fmt.Errorf("remote.ssh_config_path: %w", err)
	}
	if strings.TrimSpace(c.Remote.KnownHostsPath) == "" {
		c.Remote.KnownHostsPath = defaultKnownHostsPath
	}
	if c.Remote.KnownHostsPath, err = expandPath(strings.TrimSpace(c.Remote.KnownHostsPath)); err != nil {
		return fmt.Errorf("remote.known_hosts_path: %w", err)
	}
	return nil
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
}
