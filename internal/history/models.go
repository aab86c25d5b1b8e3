package history

import "time"

// Outcome is the final state of one processed pair.
type Outcome string

const (
	// OutcomeUploaded means the output reached the remote side.
	OutcomeUploaded Outcome = "uploaded"
	// OutcomeWritten means the output was written locally and not uploaded.
	OutcomeWritten Outcome = "written"
	// OutcomeFailed means processing stopped with an error.
	OutcomeFailed Outcome = "failed"
)

// Entry is one journal row.
type Entry struct {
	ID           int64
	RunID        string
	Operation    string
	EpisodeKey   string
	SourcePath   string
	OutputPath   string
	RemotePath   string
	Encoding     string
	Outcome      Outcome
	FailureKind  string
	ErrorMessage string
	CreatedAt    time.Time
}
