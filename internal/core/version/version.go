// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Rules   int    `json:"rules_version,omitempty"`
}

// Info returns the build information for service. The version, commit, and date
// variables are set at build time using -ldflags.
func Info(service string) BuildInfo {
	// -ldflags "-X 'vaani/internal/core/version.version=v0.1.0'
	// -X 'vaani/internal/core/version.commit=abcd' -X 'vaani/internal/core/version.date=2025-09-02'"
	if service == "" {
		service = "vaani"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// WithRules stamps the compiled rule pack version
func (b BuildInfo) WithRules(v int) BuildInfo {
	b.Rules = v
	return b
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
