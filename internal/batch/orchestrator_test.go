package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subsync/internal/batch"
	"subsync/internal/episode"
	"subsync/internal/history"
	"subsync/internal/matcher"
	"subsync/internal/testsupport"
)

func TestProcessDirectoryEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteASS(t, filepath.Join(subDir, "精简体S01E01.ass"), `上\N下`, `{\fs40}plain`)
	testsupport.WriteFile(t, filepath.Join(subDir, "notes.txt"), "ignored")

	client := newFakeTransfer("/media/show", "Show.S01E01.mkv", "Show.S01E02.mkv", "poster.jpg")
	journal := &memoryJournal{}
	orch, err := batch.New(cfg, client, batch.WithJournal(journal), batch.WithRunID("run-1"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	report, err := orch.ProcessDirectory(context.Background(), "/media/show", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if len(client.uploads) != 1 {
		t.Fatalf("expected exactly one upload, got %d", len(client.uploads))
	}
	up := client.uploads[0]
	if up.remote != "/media/show/Show.S01E01.zh.ass" {
		t.Fatalf("unexpected remote path %q", up.remote)
	}
	if up.local != filepath.Join(subDir, "Show.S01E01.zh.ass") {
		t.Fatalf("output should sit next to the subtitle, got %q", up.local)
	}
	if !strings.Contains(up.data, `下\N{\fs60}上`) || !strings.Contains(up.data, `{\fs34}plain`) {
		t.Fatalf("output was not transformed:\n%s", up.data)
	}
	if strings.Contains(up.data, "PlayResX") {
		t.Fatalf("PlayResX should be removed:\n%s", up.data)
	}

	if len(report.Pairs) != 1 || report.Pairs[0].Outcome != batch.OutcomeUploaded || report.Pairs[0].Language != "zh" {
		t.Fatalf("unexpected pairs %#v", report.Pairs)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Name != "Show.S01E02.mkv" || report.Unmatched[0].Reason != matcher.ReasonNoCounterpart {
		t.Fatalf("unexpected unmatched %#v", report.Unmatched)
	}
	if report.HasCollaboratorFailure() {
		t.Fatal("no collaborator failure expected")
	}
	if len(journal.entries) != 1 || journal.entries[0].RunID != "run-1" || journal.entries[0].Outcome != history.OutcomeUploaded || journal.entries[0].Operation != "batch" {
		t.Fatalf("unexpected journal %#v", journal.entries)
	}
}

func TestProcessDirectoryIsDeterministic(t *testing.T) {
	run := func() string {
		cfg := testsupport.NewConfig(t)
		subDir := t.TempDir()
		testsupport.WriteASS(t, filepath.Join(subDir, "sub.s01e03.ass"), `a\Nb`, `{\fs20}c`)
		client := newFakeTransfer("/m", "Show.S01E03.mkv")
		orch, err := batch.New(cfg, client)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		if _, err := orch.ProcessDirectory(context.Background(), "/m", subDir); err != nil {
			t.Fatalf("ProcessDirectory failed: %v", err)
		}
		if len(client.uploads) != 1 {
			t.Fatalf("expected one upload, got %d", len(client.uploads))
		}
		return client.uploads[0].data
	}
	if first, second := run(), run(); first != second {
		t.Fatalf("outputs differ:\n%s\n---\n%s", first, second)
	}
}

func TestProcessDirectoryContinuesAfterFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(subDir, "S01E01.ass"), "not a subtitle")
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E02.ass"), `{\N}broken`)
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E03.ass"), "fine")

	client := newFakeTransfer("/m", "A.S01E01.mkv", "A.S01E02.mkv", "A.S01E03.mkv", "Trailer.mkv")
	orch, err := batch.New(cfg, client)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	report, err := orch.ProcessDirectory(context.Background(), "/m", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}

	if got := report.Count(batch.OutcomeFailed); got != 2 {
		t.Fatalf("expected 2 failed pairs, got %d", got)
	}
	if report.Pairs[0].FailureKind() != "external" || report.Pairs[1].FailureKind() != "validation" {
		t.Fatalf("unexpected failure kinds %q %q", report.Pairs[0].FailureKind(), report.Pairs[1].FailureKind())
	}
	if report.Pairs[2].Outcome != batch.OutcomeUploaded {
		t.Fatalf("third pair should still upload, got %s", report.Pairs[2].Outcome)
	}
	if !report.HasCollaboratorFailure() {
		t.Fatal("parse failure should count against the exit status")
	}
	if got := report.CollaboratorFailures(); got != 1 {
		t.Fatalf("validation skips should not be counted as collaborator failures, got %d", got)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0].Reason != matcher.ReasonNoEpisodeToken {
		t.Fatalf("unexpected unmatched %#v", report.Unmatched)
	}
}

func TestValidationFailureDoesNotFailRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E02.ass"), `{\N}broken`)
	orch, _ := batch.New(cfg, newFakeTransfer("/m", "A.S01E02.mkv"))
	report, err := orch.ProcessDirectory(context.Background(), "/m", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.HasCollaboratorFailure() {
		t.Fatal("malformed events should not count against the exit status")
	}
}

func TestProcessDirectoryListingFailureAborts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	client := newFakeTransfer("/m")
	client.listErr = errors.New("connection reset")
	orch, _ := batch.New(cfg, client)
	if _, err := orch.ProcessDirectory(context.Background(), "/m", t.TempDir()); err == nil {
		t.Fatal("expected listing failure to abort")
	}
}

func TestUploadFailureIsReported(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E01.ass"), "x")
	client := newFakeTransfer("/m", "A.S01E01.mkv")
	client.uploadErr = errors.New("permission denied")
	orch, _ := batch.New(cfg, client)
	report, err := orch.ProcessDirectory(context.Background(), "/m", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Pairs[0].Outcome != batch.OutcomeFailed || !report.HasCollaboratorFailure() {
		t.Fatalf("expected failed upload, got %#v", report.Pairs[0])
	}
}

func TestNoUpdateCopiesRawBytes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	original := testsupport.ASSDocument(`a\Nb`)
	testsupport.WriteFile(t, filepath.Join(subDir, "S01E01.ass"), original)
	client := newFakeTransfer("/m", "Show.S01E01.mkv")
	orch, _ := batch.New(cfg, client, batch.WithTransform(false))
	report, err := orch.ProcessDirectory(context.Background(), "/m", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Pairs[0].Source != batch.RawSource {
		t.Fatalf("expected raw source, got %s", report.Pairs[0].Source)
	}
	if client.uploads[0].data != original {
		t.Fatal("raw source should be uploaded byte for byte")
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E01.ass"), "x")
	client := newFakeTransfer("/m", "Show.S01E01.mkv")
	journal := &memoryJournal{}
	orch, _ := batch.New(cfg, client, batch.WithDryRun(true), batch.WithJournal(journal))
	report, err := orch.ProcessDirectory(context.Background(), "/m", subDir)
	if err != nil {
		t.Fatalf("ProcessDirectory failed: %v", err)
	}
	if report.Pairs[0].Outcome != batch.OutcomePlanned || len(client.uploads) != 0 || len(journal.entries) != 0 {
		t.Fatalf("dry run should not upload or journal: %#v", report.Pairs[0])
	}
	if _, err := os.Stat(report.Pairs[0].Output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("dry run should not write output: %v", err)
	}
}

func TestProcessPair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	subPath := filepath.Join(subDir, "whatever s02.e05.ass")
	testsupport.WriteASS(t, subPath, "x")
	client := newFakeTransfer("/m")
	orch, _ := batch.New(cfg, client)

	report, err := orch.ProcessPair(context.Background(), "/lib/Show S02E05 720p.mkv", subPath)
	if err != nil {
		t.Fatalf("ProcessPair failed: %v", err)
	}
	if report.Pairs[0].Key != "S02E05" {
		t.Fatalf("unexpected key %q", report.Pairs[0].Key)
	}
	if len(client.uploads) != 1 || client.uploads[0].remote != "/lib/Show s02.e05 720p.zh.ass" {
		t.Fatalf("unexpected uploads %#v", client.uploads)
	}
}

func TestConcurrentRunIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, _ := batch.New(cfg, newFakeTransfer("/m"))
	release, err := batch.AcquireLockForTest(first)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer release()

	second, _ := batch.New(cfg, newFakeTransfer("/m"))
	if _, err := second.ProcessDirectory(context.Background(), "/m", t.TempDir()); !errors.Is(err, batch.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
}

func TestCancelledContextStopsBeforeNextPair(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	subDir := t.TempDir()
	testsupport.WriteASS(t, filepath.Join(subDir, "S01E01.ass"), "x")
	client := newFakeTransfer("/m", "A.S01E01.mkv")
	orch, _ := batch.New(cfg, client)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.ProcessDirectory(ctx, "/m", subDir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(client.uploads) != 0 {
		t.Fatal("no pair should run after cancellation")
	}
}

func TestOutputName(t *testing.T) {
	ident, _ := episode.New("")
	cases := []struct {
		media, sub, want string
	}{
		{"Show.S01E01.mkv", "精简体S01E01.ass", "Show.S01E01.zh.ass"},
		{"Show.s01e01.1080p.mkv", "x.S01.E01.ass", "Show.S01.E01.1080p.zh.ass"},
		{"Movie.mkv", "Movie.ass", "Movie.zh.ass"},
		{"Show.S01E01.mkv", "notoken.ass", "Show.S01E01.zh.ass"},
	}
	for _, tc := range cases {
		if got := batch.OutputName(ident, tc.media, tc.sub, ".zh.ass"); got != tc.want {
			t.Fatalf("OutputName(%q, %q) = %q, want %q", tc.media, tc.sub, got, tc.want)
		}
	}
}

func TestLanguage(t *testing.T) {
	if batch.Language("精简体S01E01.ass") != "zh" || batch.Language("S01E01.en.ass") != "en" {
		t.Fatal("unexpected language hint")
	}
}
