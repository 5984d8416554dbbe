// Copyright 2023 The EmberChain Authors
// This file is part of the EmberChain library.
//
// The EmberChain library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The EmberChain library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the EmberChain library. If not, see <http://www.gnu.org/licenses/>.

package version

import (
	"fmt"
)

var (
	// Following vars are injected at build time through -ldflags -X
	GitCommit string
	GitBranch string
	GitTag    string
)

// see https://calver.org
const (
	VersionMajor    = 2023  // Major version component of the current release
	VersionMinor    = 1     // Minor version component of the current release
	VersionMicro    = 0     // Patch version component of the current release
	VersionModifier = "dev" // Modifier component of the current release
)

func withModifier(vsn string) string {
	if !isStable() {
		vsn += "-" + VersionModifier
	}
	return vsn
}

func isStable() bool {
	return VersionModifier == "stable"
}

// Version holds the textual version string.
var Version = func() string {
	return fmt.Sprintf("%d.%02d.%d", VersionMajor, VersionMinor, VersionMicro)
}()

// FormatVersion returns the version string shown by the CLI, including the
// git commit when it was injected at build time.
func FormatVersion() string {
	vsn := withModifier(Version)
	if len(GitCommit) >= 8 {
		vsn += "-" + GitCommit[:8]
	}
	return vsn
}
