package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"subsync/internal/ass"
	"subsync/internal/services"
	"subsync/internal/textenc"
)

// Rewrite is the outcome of rewriting one subtitle file in place.
type Rewrite struct {
	Path     string
	Encoding string
	Events   int
	Err      error
}

// ShiftFiles moves every event of each file by delta and rewrites the file
// as UTF-8. Files fail independently.
func ShiftFiles(resolver *textenc.Resolver, paths []string, delta time.Duration) []Rewrite {
	return rewriteEach(resolver, paths, func(doc *ass.Document) {
		doc.Shift(delta)
	})
}

// RecodeFiles rewrites each file as UTF-8 using its detected encoding.
func RecodeFiles(resolver *textenc.Resolver, paths []string) []Rewrite {
	return rewriteEach(resolver, paths, nil)
}

func rewriteEach(resolver *textenc.Resolver, paths []string, edit func(*ass.Document)) []Rewrite {
	results := make([]Rewrite, 0, len(paths))
	for _, path := range paths {
		results = append(results, rewriteFile(resolver, path, edit))
	}
	return results
}

func rewriteFile(resolver *textenc.Resolver, path string, edit func(*ass.Document)) Rewrite {
	result := Rewrite{Path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		result.Err = services.Wrap(services.ErrExternal, "rewrite", "read", path, err)
		return result
	}
	text, encoding, err := resolver.DecodeDetected(raw)
	result.Encoding = encoding
	if err != nil {
		result.Err = services.Wrap(services.ErrExternal, "rewrite", "decode", path, err)
		return result
	}
	doc, err := ass.ParseNamed(path, text)
	if err != nil {
		result.Err = services.Wrap(services.ErrExternal, "rewrite", "parse", path, err)
		return result
	}
	result.Events = len(doc.Events)

	var out []byte
	switch {
	case edit == nil:
		out = []byte(strings.TrimPrefix(text, "\ufeff"))
	case strings.EqualFold(filepath.Ext(path), ".srt"):
		edit(doc)
		out = doc.MarshalSRT()
	default:
		edit(doc)
		out = doc.Marshal()
	}
	if err := WriteFileAtomic(path, out); err != nil {
		result.Err = services.Wrap(services.ErrExternal, "rewrite", "write", path, err)
	}
	return result
}
