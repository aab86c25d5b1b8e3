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

// Paths contains local state and log directories.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Files contains filename conventions used for matching and naming.
type Files struct {
	TVEpisodePattern   string   `toml:"tv_episode_pattern"`
	MediaExtensions    []string `toml:"media_extensions"`
	SubtitleExtensions []string `toml:"subtitle_extensions"`
	NewSubExtension    string   `toml:"new_sub_extension"`
	ExtractPattern     string   `toml:"extract_pattern"`
}

// Subtitles contains the layout rules applied by the transformer.
type Subtitles struct {
	// OtherFontSize replaces every style size and inline \fs override.
	OtherFontSize float64 `toml:"other_font_size"`
	// BottomFontSize is the inline size given to the second line of swapped events.
	BottomFontSize float64 `toml:"bottom_font_size"`
	// DefaultStylePath points at an .ass file whose styles are imported.
	// Empty uses the embedded template.
	DefaultStylePath string `toml:"default_style_path"`
	// TemplateOverwrite lets template styles replace same-named document styles.
	// Defaults to true.
	TemplateOverwrite bool `toml:"template_overwrite"`
}

// Merge contains bilingual merge settings.
type Merge struct {
	PrimaryStyle    string `toml:"primary_style"`
	SecondaryStyle  string `toml:"secondary_style"`
	OutputExtension string `toml:"output_extension"`
	StagingDir      string `toml:"staging_dir"`
}

// Remote contains the transfer backend settings.
type Remote struct {
	Backend               string `toml:"backend"`
	HostAlias             string `toml:"host_alias"`
	SSHConfigPath         string `toml:"ssh_config_path"`
	KnownHostsPath        string `toml:"known_hosts_path"`
	InsecureIgnoreHostKey bool   `toml:"insecure_ignore_host_key"`
	TimeoutSeconds        int    `toml:"timeout_seconds"`
}

// History contains transfer journal settings.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for subsync.
//
// Configuration sections by subsystem:
//   - Paths: state (lock, history) and log directories
//   - Files: episode pattern, extension sets, output naming
//   - Subtitles: font sizes and default style template
//   - Merge: bilingual style labels and output naming
//   - Remote: SFTP host alias or local backend
//   - History: transfer journal toggle
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Files     Files     `toml:"files"`
	Subtitles Subtitles `toml:"subtitles"`
	Merge     Merge     `toml:"merge"`
	Remote    Remote    `toml:"remote"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/subsync/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
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
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
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
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("subsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// HistoryDBPath returns the location of the transfer journal database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// MergeStagingDir returns the directory merged subtitles are written to before
// transfer. An empty merge.staging_dir places them under zhDir.
func (c *Config) MergeStagingDir(zhDir string) string {
	if c.Merge.StagingDir != "" {
		return c.Merge.StagingDir
	}
	return filepath.Join(zhDir, defaultMergeStagingName)
}

// LockPath returns the batch lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "subsync.lock")
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
