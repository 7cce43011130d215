// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/shuffle"
	"github.com/zintix-labs/qshuffle/stats"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "", "run", "a", "b", "c", "d", "--format", "json")
	require.NoError(t, err)

	var d shuffle.Distribution
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, shuffle.DefaultMaxShots, d.Sum())
	for _, it := range d.Items() {
		assert.Contains(t, []string{"a", "b", "c", "d"}, it)
	}
	for i := 1; i < len(d); i++ {
		assert.GreaterOrEqual(t, d[i-1].Count, d[i].Count)
	}
}

func TestRunReadsStdinBeforeArgs(t *testing.T) {
	out, err := execute(t, "x\n\n  y \r\n", "run", "--file", "-", "--epsilon", "0.5", "z", "w")
	require.NoError(t, err)
	assert.Contains(t, out, "items 4 | qubits 2")
	assert.Contains(t, out, "Share")
}

func TestRunReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.txt")
	require.NoError(t, os.WriteFile(path, []byte("only\n"), 0o644))

	out, err := execute(t, "", "run", "--file", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "only: 100000\n", out)
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want error
	}{
		{"no items", []string{"run"}, errs.ErrInvalidInput},
		{"bad format", []string{"run", "a", "--format", "xml"}, errs.ErrInvalidInput},
		{"bad pprof", []string{"run", "a", "-p", "trace"}, errs.ErrInvalidInput},
		{"capacity", []string{"run", "a", "b", "c", "--max-qubits", "1"}, errs.ErrCapacityExceeded},
		{"zero ceiling", []string{"run", "a", "b", "--max-qubits", "0"}, errs.ErrCapacityExceeded},
		{"zero rounds", []string{"bench", "a", "--rounds", "0"}, errs.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, "", tc.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBenchReport(t *testing.T) {
	out, err := execute(t, "", "bench", "a", "b", "c", "d",
		"--rounds", "6", "--workers", "3", "--epsilon", "0.5", "--seed", "7", "--format", "json")
	require.NoError(t, err)

	var rep stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.NotNil(t, rep.Summary)
	assert.Equal(t, 6, rep.Summary.Rounds)
	assert.Zero(t, rep.Summary.Failed)
	assert.Equal(t, 2, rep.Summary.Qubits)
	assert.Equal(t, int64(6*rep.Summary.ShotsPerRun), rep.Summary.TotalCount)
	assert.Len(t, rep.Items, 4)
}

func TestBenchTable(t *testing.T) {
	out, err := execute(t, "", "bench", "a", "b", "--rounds", "2", "--workers", "1", "--epsilon", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "bench | 2 rounds | 1 workers")
	assert.Contains(t, out, "shuffles/sec")
}

func TestRenderersRejectUnknownFormat(t *testing.T) {
	sf := shuffleFlags{format: "xml", maxQubits: -1, epsilon: 0.5}

	cmd := newRunCmd(new(string))
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	assert.ErrorIs(t, runOnce(cmd, &sf, []string{"a", "b"}), errs.ErrInvalidInput)

	bcmd := newBenchCmd(new(string))
	bcmd.SetContext(context.Background())
	bcmd.SetOut(io.Discard)
	bcmd.SetErr(io.Discard)
	err := bench(bcmd, &benchFlags{shuffleFlags: sf, rounds: 1, workers: 1}, []string{"a", "b"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
