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

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	cases := map[string]LogMode{
		"":        ModeDev,
		"DEV":     ModeDev,
		"prod":    ModeProd,
		" json ":  ModeProd,
		"silence": ModeSilence,
		"off":     ModeSilence,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseMode("verbose")
	assert.Error(t, err)
	assert.Equal(t, "prod", ModeProd.String())
}

func TestProdLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriterLogger(ModeProd, &buf)
	log.Debug("hidden")
	log.Info("shuffle.done", slog.Int("shots", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shuffle.done", rec["msg"])
	assert.EqualValues(t, 100, rec["shots"])
}

// lockedBuffer 讓背景 worker 與測試讀取不互相競爭。
type lockedBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuffer) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func (l *lockedBuffer) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.String()
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	out := &lockedBuffer{}
	ah := NewAsyncHandler(slog.NewTextHandler(out, nil), 64)
	log := slog.New(ah).With("svc", "qshuffle")
	for i := range 10 {
		log.Info("tick", "i", i)
	}
	ah.Close()
	ah.Close()

	assert.Equal(t, 10, strings.Count(out.String(), "msg=tick"))
	assert.Contains(t, out.String(), "svc=qshuffle")

	log.Info("late")
	assert.NotContains(t, out.String(), "late")
	assert.GreaterOrEqual(t, ah.Dropped(), uint64(1))
}
