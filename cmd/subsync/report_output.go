package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"subsync/internal/batch"
)

// errPairsFailed is returned when a report carries a collaborator failure so
// the process exits non-zero.
type errPairsFailed struct {
	failed int
}

func (e errPairsFailed) Error() string {
	return fmt.Sprintf("%d pair(s) failed", e.failed)
}

func writeReport(out io.Writer, report *batch.Report) error {
	if report == nil {
		return nil
	}

	if len(report.Pairs) > 0 {
		rows := make([][]string, 0, len(report.Pairs))
		for _, p := range report.Pairs {
			rows = append(rows, []string{
				p.Key,
				p.Media,
				filepath.Base(p.Subtitle),
				p.Language,
				encodingLabel(p.Encoding),
				pairTarget(p),
				outcomeLabel(p),
			})
		}
		cols := textColumns("Episode", "Media", "Subtitle", "Lang", "Encoding", "Target", "Outcome")
		cols[len(cols)-1].maxWidth = messageWidth
		fmt.Fprintln(out, renderTable(cols, rows))
	}

	if len(report.Unmatched) > 0 {
		fmt.Fprintln(out, "Unmatched:")
		for _, u := range report.Unmatched {
			fmt.Fprintf(out, "  %s (%s)\n", u.Name, u.Reason)
		}
	}
	if len(report.Shadowed) > 0 {
		fmt.Fprintln(out, "Shadowed duplicates:")
		for _, s := range report.Shadowed {
			fmt.Fprintf(out, "  %s: %s ignored, using %s\n", s.Key, s.Name, s.Winner)
		}
	}

	summary := []string{
		fmt.Sprintf("uploaded %d", report.Count(batch.OutcomeUploaded)),
		fmt.Sprintf("written %d", report.Count(batch.OutcomeWritten)),
		fmt.Sprintf("failed %d", report.Count(batch.OutcomeFailed)),
	}
	if report.DryRun {
		summary = append(summary, fmt.Sprintf("planned %d", report.Count(batch.OutcomePlanned)))
	}
	fmt.Fprintf(out, "Run %s (%s): %s\n", shortID(report.RunID), report.Operation, strings.Join(summary, ", "))

	if n := report.CollaboratorFailures(); n > 0 {
		return errPairsFailed{failed: n}
	}
	return nil
}

func pairTarget(p batch.PairResult) string {
	if p.Remote != "" {
		return p.Remote
	}
	return p.Output
}

func outcomeLabel(p batch.PairResult) string {
	if p.Err == nil {
		return string(p.Outcome)
	}
	return fmt.Sprintf("%s (%s): %v", p.Outcome, p.FailureKind(), p.Err)
}

func encodingLabel(name string) string {
	if name == "" {
		return "-"
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
