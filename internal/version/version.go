// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Name is the tool name written into reports and audit logs
const Name = "ssn-finder"

// Version information set at build time with -ldflags -X
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"

	GoVersion = runtime.Version()
	Platform  = fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// commit returns GitCommit, falling back to the VCS revision the Go
// toolchain stamps into binaries built from a checkout.
func commit() string {
	if GitCommit != "unknown" && GitCommit != "" {
		return GitCommit
	}
	info, ok := readBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			if len(setting.Value) > 12 {
				return setting.Value[:12]
			}
			return setting.Value
		}
	}
	return GitCommit
}

// Info returns formatted version information
func Info() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s, platform: %s)",
		Name, Version, commit(), BuildDate, GoVersion, Platform)
}

// Short returns just the version number
func Short() string {
	return Version
}

// Tool identifies the producing tool in audit logs, e.g. "ssn-finder/1.2.0"
func Tool() string {
	return Name + "/" + Short()
}
