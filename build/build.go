// Package build describes the running binary. Release builds inject a JSON document
// into Data with -ldflags:
//
//	go build -ldflags "-X 'github.com/amp-labs/amp-snippets/build.Data={\"version\":\"v1.2.0\"}'" ./cmd/snippets
//
// Anything the document leaves out is filled from the build information the Go
// toolchain embeds in every module-aware binary.
package build

import (
	"encoding/json"
	"runtime/debug"
	"strings"

	"github.com/amp-labs/amp-snippets/logger"
)

const develVersion = "(devel)"

// Data is set at link time.
var Data string //nolint:gochecknoglobals

// Info contains build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"` //nolint:tagliatelle
	GitDirty  bool   `json:"git_dirty"`  //nolint:tagliatelle
	BuildTime string `json:"build_time"` //nolint:tagliatelle
	GoVersion string `json:"go_version"` //nolint:tagliatelle
}

// Parse deserializes a JSON string into build Info.
// Returns (nil, false) if the input is empty, "{}", or fails to parse.
func Parse(js string) (*Info, bool) {
	if len(js) == 0 || js == "{}" {
		return nil, false
	}

	var info Info

	if err := json.Unmarshal([]byte(js), &info); err != nil {
		logger.Get().Warn("Failed to parse build info from JSON",
			"data", js,
			"error", err)

		return nil, false
	}

	return &info, true
}

// Current returns the Info for this binary.
func Current() Info {
	var info Info

	if parsed, ok := Parse(Data); ok {
		info = *parsed
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fill(bi)
	}

	return info
}

func (i *Info) fill(bi *debug.BuildInfo) {
	if i.Version == "" && bi.Main.Version != "" {
		i.Version = bi.Main.Version
	}

	if i.GoVersion == "" {
		i.GoVersion = bi.GoVersion
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "" {
				i.GitCommit = s.Value
			}
		case "vcs.time":
			if i.BuildTime == "" {
				i.BuildTime = s.Value
			}
		case "vcs.modified":
			i.GitDirty = i.GitDirty || s.Value == "true"
		}
	}
}

// String renders the Info the way "snippets --version" prints it, for example
// "v1.2.0 (commit 3f2a9c1, go1.25.0)".
func (i Info) String() string {
	version := i.Version
	if version == "" {
		version = develVersion
	}

	var details []string

	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 7 { //nolint:mnd
			commit = commit[:7]
		}

		if i.GitDirty {
			commit += "-dirty"
		}

		details = append(details, "commit "+commit)
	}

	if i.GoVersion != "" {
		details = append(details, i.GoVersion)
	}

	if len(details) == 0 {
		return version
	}

	return version + " (" + strings.Join(details, ", ") + ")"
}
