// Package buildinfo carries release metadata set with -ldflags -X.
package buildinfo

// Empty for local builds; the version command then relies on
// runtime/debug build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
