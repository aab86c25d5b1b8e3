package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path string, contents string) {
	t.Helper()
	WriteBytes(t, path, []byte(contents))
}

// WriteBytes writes raw bytes to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ASSDocument renders a minimal subtitle file with a Default style. Each line
// becomes one Dialogue event, one second long, starting at its index.
func ASSDocument(lines ...string) string {
	var b strings.Builder
	b.WriteString("[Script Info]\nScriptType: v4.00+\nPlayResX: 1920\nPlayResY: 1080\n\n")
	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	b.WriteString("Style: Default,Arial,40,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1\n\n")
	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for i, line := range lines {
		fmt.Fprintf(&b, "Dialogue: 0,0:00:%02d.00,0:00:%02d.00,Default,,0,0,0,,%s\n", i, i+1, line)
	}
	return b.String()
}

// WriteASS writes ASSDocument(lines...) to path.
func WriteASS(t testing.TB, path string, lines ...string) {
	t.Helper()
	WriteFile(t, path, ASSDocument(lines...))
}

// ReadFile returns the contents of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
