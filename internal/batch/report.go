package batch

import (
	"time"

	"subsync/internal/matcher"
	"subsync/internal/services"
)

// Outcome is the final state of one pair.
type Outcome string

const (
	OutcomeUploaded Outcome = "uploaded"
	OutcomeWritten  Outcome = "written"
	OutcomePlanned  Outcome = "planned"
	OutcomeFailed   Outcome = "failed"
)

// PairResult describes one processed pair. For merges Media holds the
// primary-language file name and Subtitle the secondary-language path.
type PairResult struct {
	Operation string
	Key       string
	Media     string
	Subtitle  string
	Language  string
	Source    SourceKind
	Encoding  string
	Output    string
	Remote    string
	Outcome   Outcome
	Err       error
}

// FailureKind returns the error classification, empty on success.
func (r PairResult) FailureKind() string {
	return services.FailureKind(r.Err)
}

// Report summarizes a batch run.
type Report struct {
	RunID     string
	Operation string
	DryRun    bool
	Started   time.Time
	Pairs     []PairResult
	Unmatched []matcher.Unmatched
	Shadowed  []matcher.Shadowed
}

// Count returns the number of pairs with the given outcome.
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, p := range r.Pairs {
		if p.Outcome == outcome {
			n++
		}
	}
	return n
}

// CollaboratorFailures counts pairs that failed on a file, decoder, parser or
// transfer error. Skipped names and malformed events do not count.
func (r *Report) CollaboratorFailures() int {
	n := 0
	for _, p := range r.Pairs {
		if p.Outcome == OutcomeFailed && services.IsCollaboratorFailure(p.Err) {
			n++
		}
	}
	return n
}

// HasCollaboratorFailure reports whether the run should exit non-zero.
func (r *Report) HasCollaboratorFailure() bool {
	return r.CollaboratorFailures() > 0
}

func (r *Report) merge(other *Report) {
	r.Pairs = append(r.Pairs, other.Pairs...)
	r.Unmatched = append(r.Unmatched, other.Unmatched...)
	r.Shadowed = append(r.Shadowed, other.Shadowed...)
}
