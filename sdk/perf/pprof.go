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

// Package perf 包裝 runtime/pprof，讓 CLI 以 -p cpu|heap|allocs 對一次執行取樣。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/qshuffle/errs"
)

// Dir 為 pprof 檔案寫入路徑
var Dir = "build/profiling"

// Modes 為可接受的 profiling 模式，空字串代表不取樣。
var Modes = []string{"", "cpu", "heap", "allocs"}

// Run 依 mode 執行 exe 並寫出對應的 profile。未知 mode 回傳 Warn。
func Run(mode string, exe func() error) error {
	switch mode {
	case "":
		return exe()
	case "cpu":
		return cpu(exe)
	case "heap":
		return snapshot("heap", exe, true)
	case "allocs":
		return snapshot("allocs", exe, false)
	default:
		return errs.Warnf("unknown pprof mode %q (want cpu, heap or allocs)", mode)
	}
}

func create(name string) (*os.File, error) {
	if err := os.MkdirAll(Dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create pprof dir")
	}
	f, err := os.Create(filepath.Join(Dir, name+".pprof"))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name+".pprof")
	}
	return f, nil
}

// cpu 在 exe 執行期間做 CPU profiling，可作為 pgo 的 blueprint。
func cpu(exe func() error) error {
	f, err := create("cpu")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "start cpu profile")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// snapshot 在 exe 結束後寫出一次 profile；heap 前先 GC 讓 live objects 較準確。
func snapshot(name string, exe func() error, gc bool) error {
	if err := exe(); err != nil {
		return err
	}
	f, err := create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if gc {
		runtime.GC()
	}
	prof := pprof.Lookup(name)
	if prof == nil {
		return errs.Fatalf("pprof profile %q not found", name)
	}
	if err := prof.WriteTo(f, 0); err != nil {
		return errs.Wrap(err, "write "+name+" profile")
	}
	return nil
}
