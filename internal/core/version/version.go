// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	// Rules identifies the classifier rule table the build scores with
	Rules int `json:"rules"`
}

// RulesVersion is bumped whenever a classifier weight, threshold or word list changes
const RulesVersion = 1

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'replyguard/internal/core/version.version=v0.0.1'
	// -X 'replyguard/internal/core/version.commit=abcd' -X 'replyguard/internal/core/version.date=2026-10-17'"
	return BuildInfo{
		Service: "replyguard",
		Version: version,
		Commit:  commit,
		Date:    date,
		Rules:   RulesVersion,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
