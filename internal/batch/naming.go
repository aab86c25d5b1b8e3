package batch

import (
	"path/filepath"
	"strings"

	"subsync/internal/episode"
)

// OutputName derives the output file name for a media/subtitle pair. The
// media base name keeps its wording; its episode token is replaced by the
// subtitle's raw token and ext is appended.
func OutputName(ident *episode.Identifier, mediaName, subtitleName, ext string) string {
	base := strings.TrimSuffix(mediaName, filepath.Ext(mediaName))
	subToken, ok := ident.Token(subtitleName)
	if !ok {
		return base + ext
	}
	if renamed, ok := ident.ReplaceToken(base, subToken); ok {
		return renamed + ext
	}
	return base + ext
}

// Language returns the language hint for a subtitle file name.
func Language(name string) string {
	if strings.Contains(name, "简体") {
		return "zh"
	}
	return "en"
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}

func filterByExtension(names []string, exts []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if hasExtension(name, exts) {
			out = append(out, name)
		}
	}
	return out
}
