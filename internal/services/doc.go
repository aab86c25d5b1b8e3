// Package services defines shared utilities consumed by the batch pipeline and
// its collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and episode keys for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures as
//     validation problems (per item) or collaborator failures (exit status).
package services
