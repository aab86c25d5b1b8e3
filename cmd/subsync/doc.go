// Package main hosts the subsync CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, builds the logger and
// transfer client, and hands the work to internal/batch for pairing and
// merging or to internal/fsutil for the bulk file utilities. Commands render
// their reports as tables on stdout; logs go to stderr and the log file.
package main
