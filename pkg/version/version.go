// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// buildVersion is injected at build time via -ldflags.
var buildVersion string

// Version returns the release version if set, otherwise the commit hash.
// Release versions are normalised to "vMAJOR.MINOR.PATCH[-pre]".
func Version() string {
	return resolve(buildVersion, readCommit)
}

func resolve(release string, commit func() string) string {
	if v := strings.TrimSpace(release); v != "" {
		sv, err := semver.NewVersion(v)
		if err != nil {
			return v
		}
		return "v" + sv.String()
	}
	return commit()
}

// Commit returns the commit hash of the current build.
func Commit() string {
	return readCommit()
}

func readCommit() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return commitFromSettings(bi.Settings)
}

func commitFromSettings(settings []debug.BuildSetting) string {
	var dirty bool
	var commit string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if commit == "" {
		return "dev"
	}

	if len(commit) >= 9 {
		commit = commit[:9]
	}
	if dirty {
		commit += "+dirty"
	}
	return commit
}

// String is the line printed by "cloak --version".
func String(program string) string {
	return fmt.Sprintf("%s %s", program, Version())
}
