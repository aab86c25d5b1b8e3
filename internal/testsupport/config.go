package testsupport

import (
	"path/filepath"
	"testing"

	"subsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The remote backend is the local filesystem so tests never dial out.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Remote.Backend = config.BackendLocal
	cfgVal.Remote.HostAlias = ""
	cfgVal.Remote.SSHConfigPath = filepath.Join(base, "ssh_config")
	cfgVal.Remote.KnownHostsPath = filepath.Join(base, "known_hosts")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistory toggles the transfer journal.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithStyleTemplate writes contents to a template file and points the config at it.
func WithStyleTemplate(contents string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "template.ass")
		WriteFile(b.t, path, contents)
		b.cfg.Subtitles.DefaultStylePath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
