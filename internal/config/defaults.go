package config

const (
	defaultStateDir         = "~/.local/share/subsync"
	defaultLogDir           = "~/.local/share/subsync/logs"
	defaultTVEpisodePattern = `s\d{1,2}[\s._-]?e\d{1,3}`
	defaultNewSubExtension  = ".zh.ass"
	defaultExtractPattern   = `(?i)\.(ass|ssa|srt)$`
	defaultOtherFontSize    = 34
	defaultBottomFontSize   = 60
	defaultPrimaryStyle     = "Chinese"
	defaultSecondaryStyle   = "English"
	defaultMergeExtension   = ".ass"
	defaultMergeStagingName = "merged"
	defaultRemoteBackend    = "sftp"
	defaultSSHConfigPath    = "~/.ssh/config"
	defaultKnownHostsPath   = "~/.ssh/known_hosts"
	defaultRemoteTimeout    = 30
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	envRemoteHostAlias      = "SUBSYNC_REMOTE_HOST"
	logFormatConsole        = "console"
	logFormatJSON           = "json"
)

// Transfer backends accepted by remote.backend.
const (
	BackendSFTP  = "sftp"
	BackendLocal = "local"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Files: Files{
			TVEpisodePattern:   defaultTVEpisodePattern,
			MediaExtensions:    []string{".mkv", ".mp4", ".avi", ".m4v", ".ts"},
			SubtitleExtensions: []string{".ass", ".ssa", ".srt"},
			NewSubExtension:    defaultNewSubExtension,
			ExtractPattern:     defaultExtractPattern,
		},
		Subtitles: Subtitles{
			OtherFontSize:     defaultOtherFontSize,
			BottomFontSize:    defaultBottomFontSize,
			TemplateOverwrite: true,
		},
		Merge: Merge{
			PrimaryStyle:    defaultPrimaryStyle,
			SecondaryStyle:  defaultSecondaryStyle,
			OutputExtension: defaultMergeExtension,
		},
		Remote: Remote{
			Backend:        defaultRemoteBackend,
			SSHConfigPath:  defaultSSHConfigPath,
			KnownHostsPath: defaultKnownHostsPath,
			TimeoutSeconds: defaultRemoteTimeout,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
