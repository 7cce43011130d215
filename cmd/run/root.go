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
	"bufio"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/sdk/core"
	"github.com/zintix-labs/qshuffle/sdk/perf"
	"github.com/zintix-labs/qshuffle/shuffle"
)

func newRootCmd() *cobra.Command {
	var prof string
	root := &cobra.Command{
		Use:          "qshuffle",
		Short:        "Weighted random shuffle driven by a simulated quantum circuit.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(perf.Modes, prof) {
				return errs.Invalid("unknown pprof mode %q (want cpu, heap or allocs)", prof)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&prof, "pprof", "p", "", "pprof: '', cpu, heap, allocs")
	root.AddCommand(newRunCmd(&prof), newBenchCmd(&prof))
	return root
}

// shuffleFlags 為 run / bench 共用的 sampler 參數
type shuffleFlags struct {
	file      string
	maxQubits int
	groups    int
	epsilon   float64
	seed      int64
	format    string
}

func (f *shuffleFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "newline separated items ('-' reads stdin)")
	fl.IntVar(&f.maxQubits, "max-qubits", -1, "qubit ceiling (negative = default 20)")
	fl.IntVar(&f.groups, "groups", 0, "number of weight groups (0 = default 10)")
	fl.Float64Var(&f.epsilon, "epsilon", 0, "target precision (0 = default 0.01)")
	fl.Int64Var(&f.seed, "seed", 0, "seed for weights and circuit synthesis (0 = entropy)")
	fl.StringVar(&f.format, "format", "table", "output format: table|json|yaml")
}

// config 產生第 round 輪的設定；給定 seed 時每輪以 seed+round 播種。
func (f *shuffleFlags) config(round int) shuffle.Config {
	cfg := shuffle.Config{
		NumGroups: f.groups,
		Epsilon:   f.epsilon,
	}
	if f.maxQubits >= 0 {
		cfg.MaxQubits = shuffle.QubitLimit(f.maxQubits)
	}
	if f.seed != 0 {
		cfg.Rand = core.NewSeeded(f.seed + int64(round))
	}
	return cfg
}

func (f *shuffleFlags) checkFormat() error {
	switch f.format {
	case "table", "json", "yaml", "yml":
		return nil
	}
	return errs.Invalid("unknown format %q (want table, json or yaml)", f.format)
}

// items 合併 --file 與位置參數，檔案內容在前。
func (f *shuffleFlags) items(cmd *cobra.Command, args []string) ([]string, error) {
	var out []string
	switch f.file {
	case "":
	case "-":
		lines, err := readLines(cmd.InOrStdin())
		if err != nil {
			return nil, errs.Wrap(err, "read stdin")
		}
		out = lines
	default:
		fh, err := os.Open(f.file)
		if err != nil {
			return nil, errs.Wrap(err, "open item file")
		}
		defer fh.Close()
		lines, err := readLines(fh)
		if err != nil {
			return nil, errs.Wrap(err, "read "+f.file)
		}
		out = lines
	}
	out = append(out, args...)
	if len(out) == 0 {
		return nil, errs.Invalid("no items given (pass them as arguments or with --file)")
	}
	return out, nil
}

// readLines 略過空白行
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
