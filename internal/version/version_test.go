// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "ssn-finder "+Version) {
		t.Errorf("unexpected info string: %s", info)
	}
	if !strings.Contains(info, "platform: "+Platform) {
		t.Errorf("info should carry the platform: %s", info)
	}
	if Short() != Version {
		t.Errorf("Short() = %s, want %s", Short(), Version)
	}
}

func TestTool(t *testing.T) {
	if Tool() != "ssn-finder/"+Version {
		t.Errorf("Tool() = %s", Tool())
	}
}

func stubBuildInfo(t *testing.T, commit string, info *debug.BuildInfo) {
	t.Helper()
	oldCommit, oldRead := GitCommit, readBuildInfo
	t.Cleanup(func() { GitCommit, readBuildInfo = oldCommit, oldRead })
	GitCommit = commit
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestCommit_LinkerValueWins(t *testing.T) {
	stubBuildInfo(t, "abc1234", &debug.BuildInfo{
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffffffff"}},
	})
	if got := commit(); got != "abc1234" {
		t.Errorf("commit() = %s, want abc1234", got)
	}
}

func TestCommit_FallsBackToVCSRevision(t *testing.T) {
	stubBuildInfo(t, "unknown", &debug.BuildInfo{
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "0123456789abcdef0123"}},
	})
	if got := commit(); got != "0123456789ab" {
		t.Errorf("commit() = %s, want 0123456789ab", got)
	}
	if !strings.Contains(Info(), "commit: 0123456789ab,") {
		t.Errorf("Info() should use the VCS revision: %s", Info())
	}
}

func TestCommit_NoBuildInfo(t *testing.T) {
	stubBuildInfo(t, "unknown", nil)
	if got := commit(); got != "unknown" {
		t.Errorf("commit() = %s, want unknown", got)
	}
}
