// Package build provides domain entities for build information.
package build

import "fmt"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// String formats the info for `recall version`.
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = "dev"
	}
	s := "recall " + version
	if i.Commit != "" {
		s += fmt.Sprintf(" (%s)", i.Commit)
	}
	if i.BuildDate != "" {
		s += " built " + i.BuildDate
	}
	if i.GoVersion != "" {
		s += " with " + i.GoVersion
	}
	return s
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/recall"
}
