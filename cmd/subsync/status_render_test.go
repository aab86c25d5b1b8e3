package main

import (
	"fmt"
	"strings"
	"testing"

	"subsync/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("State directory", statusError, "missing", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "State directory:", "[ERROR] missing")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Remote host", statusOK, "connected", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestPreflightLines(t *testing.T) {
	lines := preflightLines([]preflight.Result{
		{Name: "State directory", Passed: true, Detail: "/tmp (read/write ok)"},
		{Name: "Remote host", Detail: "remote.host_alias not set"},
	}, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[OK] /tmp (read/write ok)") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] remote.host_alias not set") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(&strings.Builder{}) {
		t.Fatal("expected no color for non-file writer")
	}
}
