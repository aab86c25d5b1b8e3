// Package fsutil implements the bulk file utilities: sequential and
// list-driven renames, time shifting, re-encoding to UTF-8, and extraction of
// subtitle files from per-episode subdirectories.
package fsutil
