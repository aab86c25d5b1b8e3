// Package history journals batch outcomes in SQLite.
//
// Every processed pair is recorded with its run ID, episode key, local and
// remote paths, and outcome. The journal is informational: batches never
// consult it to skip work, so re-running a batch re-uploads everything.
package history
