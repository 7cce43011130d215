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
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/qshuffle/server"
	"github.com/zintix-labs/qshuffle/server/svrcfg"
	"github.com/zintix-labs/qshuffle/shuffle"
)

// qshuffle HTTP 服務入口。設定來源優先序：旗標 > 環境變數（含 .env）> YAML 檔 > 預設值。
func main() {
	sCfg, err := loadConfigFromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := server.Run(context.Background(), sCfg); err != nil {
		fmt.Fprintln(os.Stderr, "qshuffle stopped:", err)
		os.Exit(1)
	}
}

type flags struct {
	config   string
	envFile  string
	addr     string
	logMode  string
	workers  int
	timeout  time.Duration
	maxQubit int
}

func loadConfigFromFlags(args []string) (*svrcfg.SvrCfg, error) {
	f := new(flags)
	fs := flag.NewFlagSet("svr", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "path to a YAML config file")
	fs.StringVar(&f.envFile, "env", ".env", "dotenv file with QSHUFFLE_* overrides (missing file is ignored)")
	fs.StringVar(&f.addr, "addr", "", "listen address, e.g. :8000")
	fs.StringVar(&f.logMode, "log-mode", "", "log mode: dev|prod|silence")
	fs.IntVar(&f.workers, "workers", 0, "concurrent shuffle slots (0 = GOMAXPROCS)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-shuffle timeout, e.g. 30s")
	fs.IntVar(&f.maxQubit, "max-qubits", 0, "qubit ceiling for requests that do not set one")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	sCfg, err := svrcfg.Load(f.config, f.envFile)
	if err != nil {
		return nil, err
	}
	// 只覆蓋有明確指定的旗標
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			sCfg.Addr = f.addr
		case "log-mode":
			sCfg.LogMode = f.logMode
		case "workers":
			sCfg.Workers = f.workers
		case "timeout":
			sCfg.Timeout = f.timeout
		case "max-qubits":
			sCfg.Shuffle.MaxQubits = shuffle.QubitLimit(f.maxQubit)
		}
	})
	return sCfg, nil
}
