package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"subsync/internal/services"
)

var (
	listNamePattern = regexp.MustCompile(`^.+\.\w+$`)
	colonSeparator  = regexp.MustCompile(`\s*:\s*`)
	slashSeparator  = regexp.MustCompile(`\s*/\s*`)
)

// Rename is one planned file rename inside a directory.
type Rename struct {
	From string
	To   string
}

// PlanSequential names the sorted files of dir S<season>E<n>.ass with n
// counting up from start.
func PlanSequential(dir string, season, start int) ([]Rename, error) {
	if season < 0 || start < 0 {
		return nil, services.Wrap(services.ErrValidation, "rename", "plan", "season and start must not be negative", nil)
	}
	files, err := sortedFiles(dir)
	if err != nil {
		return nil, err
	}
	plan := make([]Rename, 0, len(files))
	for i, name := range files {
		plan = append(plan, Rename{From: name, To: fmt.Sprintf("S%02dE%02d.ass", season, start+i)})
	}
	return plan, nil
}

// PlanFromList names the N-th sorted file of dir after the N-th line of
// names. Colons become " - " and slashes ", ". Every name needs an
// extension, and the list may not be longer than the directory.
func PlanFromList(dir string, names []string) ([]Rename, error) {
	for len(names) > 0 && strings.TrimSpace(names[len(names)-1]) == "" {
		names = names[:len(names)-1]
	}
	files, err := sortedFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(names) > len(files) {
		return nil, services.Wrap(services.ErrValidation, "rename", "plan",
			fmt.Sprintf("list has %d names but %s has %d files", len(names), dir, len(files)), nil)
	}
	plan := make([]Rename, 0, len(names))
	for i, raw := range names {
		name := SanitizeName(raw)
		if !listNamePattern.MatchString(name) {
			return nil, services.Wrap(services.ErrValidation, "rename", "plan",
				fmt.Sprintf("line %d %q has no file extension", i+1, raw), nil)
		}
		plan = append(plan, Rename{From: files[i], To: name})
	}
	return plan, nil
}

// SanitizeName trims trailing whitespace and replaces path-hostile separators.
func SanitizeName(name string) string {
	name = strings.TrimRightFunc(name, func(r rune) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' })
	name = colonSeparator.ReplaceAllString(name, " - ")
	return slashSeparator.ReplaceAllString(name, ", ")
}

// ApplyRenames performs plan inside dir. Files are first moved to temporary
// names so a plan may reuse names that other entries currently hold.
func ApplyRenames(dir string, plan []Rename) error {
	targets := make(map[string]struct{}, len(plan))
	sources := make(map[string]struct{}, len(plan))
	for _, r := range plan {
		if _, dup := targets[r.To]; dup {
			return services.Wrap(services.ErrValidation, "rename", "apply", "duplicate target "+r.To, nil)
		}
		targets[r.To] = struct{}{}
		sources[r.From] = struct{}{}
	}
	for _, r := range plan {
		if _, moving := sources[r.To]; moving {
			continue
		}
		if _, err := os.Lstat(filepath.Join(dir, r.To)); err == nil {
			return services.Wrap(services.ErrValidation, "rename", "apply", "target exists: "+r.To, nil)
		}
	}

	staged := make([]string, len(plan))
	for i, r := range plan {
		staged[i] = filepath.Join(dir, fmt.Sprintf(".subsync-rename-%d", i))
		if err := os.Rename(filepath.Join(dir, r.From), staged[i]); err != nil {
			return services.Wrap(services.ErrExternal, "rename", "stage", r.From, err)
		}
	}
	for i, r := range plan {
		if err := os.Rename(staged[i], filepath.Join(dir, r.To)); err != nil {
			return services.Wrap(services.ErrExternal, "rename", "apply", r.To, err)
		}
	}
	return nil
}

func sortedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrExternal, "rename", "list", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
