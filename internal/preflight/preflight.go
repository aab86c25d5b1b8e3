package preflight

import (
	"context"

	"subsync/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if cfg.Merge.StagingDir != "" {
		results = append(results, CheckDirectoryAccess("Merge staging directory", cfg.Merge.StagingDir))
	}

	results = append(results, CheckTemplate(cfg.Subtitles.DefaultStylePath))

	if cfg.Remote.Backend == config.BackendSFTP {
		results = append(results, CheckRemote(ctx, cfg))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
