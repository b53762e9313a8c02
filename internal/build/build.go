// Package build describes the running binary. Release builds set the
// variables below with ldflags, other builds fall back to the VCS stamp of
// the Go toolchain.
package build

import (
	"runtime/debug"
	"time"
)

var (
	commit  = ""
	date    = ""
	version = "dev"
	repoURL = "https://github.com/ItsNotGoodName/x-wmshell"
)

var Current = newBuild(commit, date, version, repoURL, readSettings())

type Build struct {
	Commit     string    `json:"commit,omitempty"`
	Version    string    `json:"version,omitempty"`
	Date       time.Time `json:"date,omitempty"`
	Modified   bool      `json:"modified,omitempty"`
	GoVersion  string    `json:"go_version,omitempty"`
	RepoURL    string    `json:"repo_url,omitempty"`
	CommitURL  string    `json:"commit_url,omitempty"`
	ReleaseURL string    `json:"release_url,omitempty"`
}

// settings is the subset of debug.BuildInfo used to fill in missing fields.
type settings struct {
	goVersion string
	revision  string
	time      string
	modified  bool
}

func readSettings() settings {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings{}
	}
	s := settings{goVersion: info.GoVersion}
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			s.revision = kv.Value
		case "vcs.time":
			s.time = kv.Value
		case "vcs.modified":
			s.modified = kv.Value == "true"
		}
	}
	return s
}

func newBuild(commit, date, version, repoURL string, s settings) Build {
	if commit == "" {
		commit = s.revision
		date = s.time
	}
	t, _ := time.Parse(time.RFC3339, date)

	b := Build{
		Commit:    commit,
		Version:   version,
		Date:      t,
		Modified:  s.modified,
		GoVersion: s.goVersion,
		RepoURL:   repoURL,
	}
	if repoURL != "" && commit != "" {
		b.CommitURL = repoURL + "/tree/" + commit
	}
	if repoURL != "" && version != "dev" {
		b.ReleaseURL = repoURL + "/releases/tag/" + version
	}
	return b
}
