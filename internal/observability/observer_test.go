// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardObserver_DebugWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityDebug, &buf)

	finish := obs.StartTiming("ssn_validator", "validate_content", "scan.txt")
	finish(true, map[string]interface{}{"match_count": 3})

	var data StandardObservabilityData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "ssn_validator", data.Component)
	assert.Equal(t, 3, data.MatchCount)
	assert.True(t, strings.HasPrefix(data.RequestID, "req-"))
}

func TestStandardObserver_MetricsLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	obs := NewStandardObserver(ObservabilityMetrics, &buf)
	obs.StartTiming("c", "op", "f")(false, map[string]interface{}{"error": "boom"})
	assert.Zero(t, buf.Len())
}

func TestDebugObserver_Steps(t *testing.T) {
	var buf bytes.Buffer
	d := NewDebugObserver(&buf)

	finish := Steps(d.StandardObserver)("preprocessor", "process_file", "a.pdf")
	d.LogDetail("preprocessor", "2 pages")
	finish(true, "done")

	out := buf.String()
	assert.Contains(t, out, "preprocessor: process_file (a.pdf)")
	assert.Contains(t, out, "→ preprocessor: 2 pages")
	assert.Contains(t, out, "completed")
}

func TestSteps_NilObserver(t *testing.T) {
	finish := Steps(nil)("c", "s", "f")
	finish(true, "")
}
