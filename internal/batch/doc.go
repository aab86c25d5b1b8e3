// Package batch drives subtitle processing over directory pairs.
//
// An Orchestrator lists media names on the remote side and subtitle names
// locally, pairs them by episode key, processes each pair (transform or raw
// copy), names the output after the media file, and uploads it next to the
// media. Merge operations pair a primary-language directory with a
// secondary-language directory and write bilingual documents.
//
// Per-pair failures are reported and the batch moves on; only failures of
// the remote listing abort a run. Every run carries a UUID used as the log
// correlation ID and the journal key, and a file lock in the state directory
// keeps concurrent runs from interleaving uploads.
package batch
