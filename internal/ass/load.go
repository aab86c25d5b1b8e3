package ass

import (
	"path/filepath"
	"strings"
)

// ParseNamed picks a reader from the file extension, falling back to content
// sniffing for files without a known extension.
func ParseNamed(name, text string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".srt":
		return ParseSRT(text)
	case ".ass", ".ssa":
		return Parse(text)
	}
	lowered := strings.ToLower(text)
	if !strings.Contains(lowered, "[script info]") && !strings.Contains(lowered, "[events]") && srtTiming.MatchString(firstTimingLine(text)) {
		return ParseSRT(text)
	}
	return Parse(text)
}

func firstTimingLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "-->") {
			return line
		}
	}
	return ""
}
