package fsutil

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"subsync/internal/services"
)

// Extract copies files whose names match pattern from each immediate
// subdirectory of inputDir into outputDir, keeping modification times. It
// returns the copied destination paths in order.
func Extract(inputDir, outputDir string, pattern *regexp.Regexp) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "extract", "list", inputDir, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExternal, "extract", "create output", outputDir, err)
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	sort.Strings(dirs)

	var copied []string
	for _, dir := range dirs {
		children, err := os.ReadDir(filepath.Join(inputDir, dir))
		if err != nil {
			return copied, services.Wrap(services.ErrExternal, "extract", "list", dir, err)
		}
		for _, child := range children {
			if !child.Type().IsRegular() || !pattern.MatchString(child.Name()) {
				continue
			}
			src := filepath.Join(inputDir, dir, child.Name())
			dst := filepath.Join(outputDir, child.Name())
			if err := CopyFile(src, dst); err != nil {
				return copied, services.Wrap(services.ErrExternal, "extract", "copy", src, err)
			}
			copied = append(copied, dst)
		}
	}
	return copied, nil
}
