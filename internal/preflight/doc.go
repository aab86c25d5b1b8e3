// Package preflight provides readiness checks for the filesystem paths,
// style template, and remote host that subsync depends on.
//
// The CLI "subsync check" command runs RunAll and renders each Result.
// The remote connection check only runs when the sftp backend is selected.
package preflight
