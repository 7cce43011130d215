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

package svrcfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/server/netsvr"
	"github.com/zintix-labs/qshuffle/shuffle"
)

const sample = `
addr: ":9100"
log_mode: silence
workers: 3
timeout: 45s
shuffle:
  max_qubits: 12
  epsilon: 0.05
`

func TestDecodeYAML(t *testing.T) {
	sc := Default()
	require.NoError(t, sc.Decode([]byte(sample)))
	assert.Equal(t, ":9100", sc.Addr)
	assert.Equal(t, 3, sc.Workers)
	assert.Equal(t, 45*time.Second, sc.Timeout)
	require.NotNil(t, sc.Shuffle.MaxQubits)
	assert.Equal(t, 12, *sc.Shuffle.MaxQubits)
	assert.Equal(t, 0.05, sc.Shuffle.Epsilon)
	assert.Equal(t, 5*time.Second, sc.ShutdownTimeout, "unset fields keep defaults")

	unset := Default()
	require.NoError(t, unset.Decode([]byte("shuffle:\n  epsilon: 0.1\n")))
	assert.Nil(t, unset.Shuffle.MaxQubits, "absent max_qubits keeps the default")

	zero := Default()
	require.NoError(t, zero.Decode([]byte("shuffle:\n  max_qubits: 0\n")))
	require.NotNil(t, zero.Shuffle.MaxQubits)
	assert.Equal(t, 0, *zero.Shuffle.MaxQubits)

	err := Default().Decode([]byte("unknown_field: 1\n"))
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"QSHUFFLE_ADDR":       "127.0.0.1:7000",
		"QSHUFFLE_WORKERS":    "8",
		"QSHUFFLE_MAX_QUBITS": "16",
		"QSHUFFLE_EPSILON":    "0.02",
		"QSHUFFLE_TIMEOUT":    "2m",
		"QSHUFFLE_NUM_GROUPS": "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	sc := Default()
	require.NoError(t, sc.ApplyEnv(lookup))
	assert.Equal(t, "127.0.0.1:7000", sc.Addr)
	assert.Equal(t, 8, sc.Workers)
	require.NotNil(t, sc.Shuffle.MaxQubits)
	assert.Equal(t, 16, *sc.Shuffle.MaxQubits)
	assert.Equal(t, 0.02, sc.Shuffle.Epsilon)
	assert.Equal(t, 2*time.Minute, sc.Timeout)
	assert.Equal(t, 0, sc.Shuffle.NumGroups)

	env["QSHUFFLE_WORKERS"] = "many"
	assert.True(t, errors.Is(Default().ApplyEnv(lookup), errs.ErrInvalidInput))
}

func TestLoadFileAndDotenv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "svr.yaml")
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(cfgPath, []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("QSHUFFLE_NUM_GROUPS=4\n"), 0o644))
	t.Setenv("QSHUFFLE_NUM_GROUPS", "")
	os.Unsetenv("QSHUFFLE_NUM_GROUPS")

	sc, err := Load(cfgPath, envPath, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":9100", sc.Addr)
	assert.Equal(t, 4, sc.Shuffle.NumGroups)

	_, err = Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidFillsRuntime(t *testing.T) {
	sc := Default()
	sc.LogMode = "silence"
	sc.Addr = ""
	sc.Workers = 1000
	require.NoError(t, sc.Valid())
	assert.Equal(t, netsvr.DefaultAddr, sc.Addr)
	assert.Equal(t, MaxWorkers, sc.Workers)
	require.NotNil(t, sc.Log)
	require.NotNil(t, sc.Service)
	assert.Same(t, sc.Metrics, sc.Service.Metrics())
	assert.Equal(t, MaxWorkers, sc.Service.Status().Slots)
	sc.Async.Close()
}

func TestValidRejects(t *testing.T) {
	for _, mut := range []func(*SvrCfg){
		func(sc *SvrCfg) { sc.LogMode = "loud" },
		func(sc *SvrCfg) { sc.Workers = -1 },
		func(sc *SvrCfg) { sc.Timeout = -time.Second },
		func(sc *SvrCfg) { sc.Shuffle.MaxQubits = shuffle.QubitLimit(-1) },
		func(sc *SvrCfg) { sc.Shuffle.Epsilon = -1 },
	} {
		sc := Default()
		sc.LogMode = "silence"
		mut(sc)
		assert.Error(t, sc.Valid())
	}
}
