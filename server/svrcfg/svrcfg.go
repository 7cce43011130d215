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

// Package svrcfg 組裝 server 的設定：YAML 檔 -> .env / 環境變數 -> 旗標，後者覆蓋前者。
package svrcfg

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/zintix-labs/qshuffle"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/metrics"
	"github.com/zintix-labs/qshuffle/server/logger"
	"github.com/zintix-labs/qshuffle/server/netsvr"
	"github.com/zintix-labs/qshuffle/shuffle"
	"gopkg.in/yaml.v3"
)

// MaxWorkers 為 Workers 的上限；每個 worker 可能持有一個 2^MaxQubits 的 statevector。
const MaxWorkers = 64

// Shuffle 為 YAML 中 shuffle 區塊，0 表示使用 shuffle 套件預設值。
// max_qubits 例外：未設定時使用預設，設為 0 即為上限 0。
type Shuffle struct {
	MaxQubits *int    `yaml:"max_qubits"`
	NumGroups int     `yaml:"num_groups"`
	Epsilon   float64 `yaml:"epsilon"`
	BaseShots int     `yaml:"base_shots"`
	MaxShots  int     `yaml:"max_shots"`
}

type SvrCfg struct {
	Addr            string        `yaml:"addr"`
	LogMode         string        `yaml:"log_mode"`
	Workers         int           `yaml:"workers"`
	Timeout         time.Duration `yaml:"timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	Shuffle         Shuffle       `yaml:"shuffle"`

	// 以下由 Valid 補齊，亦可由呼叫端注入。
	Log     *slog.Logger         `yaml:"-"`
	Metrics *metrics.Metrics     `yaml:"-"`
	Service *qshuffle.Service    `yaml:"-"`
	Async   *logger.AsyncHandler `yaml:"-"`
}

// Default 回傳預設設定。
func Default() *SvrCfg {
	return &SvrCfg{
		Addr:            netsvr.DefaultAddr,
		LogMode:         logger.ModeDev.String(),
		Timeout:         30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load 讀取 YAML 檔（path 為空則略過），再載入 envFiles（預設 .env；不存在時略過）並套用環境變數。
func Load(path string, envFiles ...string) (*SvrCfg, error) {
	sc := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(err, "read config "+path)
		}
		if err := sc.Decode(raw); err != nil {
			return nil, err
		}
	}
	if err := loadDotenv(envFiles...); err != nil {
		return nil, err
	}
	if err := sc.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return sc, nil
}

// Decode 以 YAML 覆蓋 sc；未知欄位視為錯誤。
func (sc *SvrCfg) Decode(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return errs.Invalid("decode server config: %v", err)
	}
	return nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errs.Wrap(err, "load env file "+f)
		}
	}
	return nil
}

// ApplyEnv 以 QSHUFFLE_* 環境變數覆蓋設定。lookup 通常為 os.LookupEnv。
func (sc *SvrCfg) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errs.Invalid("%s must be an integer, got %q", key, v)
		}
		*dst = n
		return nil
	}

	str("QSHUFFLE_ADDR", &sc.Addr)
	str("QSHUFFLE_LOG_MODE", &sc.LogMode)
	if err := num("QSHUFFLE_WORKERS", &sc.Workers); err != nil {
		return err
	}
	if v, ok := lookup("QSHUFFLE_MAX_QUBITS"); ok && v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return errs.Invalid("QSHUFFLE_MAX_QUBITS must be an integer, got %q", v)
		}
		sc.Shuffle.MaxQubits = shuffle.QubitLimit(q)
	}
	if err := num("QSHUFFLE_NUM_GROUPS", &sc.Shuffle.NumGroups); err != nil {
		return err
	}
	if v, ok := lookup("QSHUFFLE_EPSILON"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errs.Invalid("QSHUFFLE_EPSILON must be a number, got %q", v)
		}
		sc.Shuffle.Epsilon = f
	}
	if v, ok := lookup("QSHUFFLE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errs.Invalid("QSHUFFLE_TIMEOUT must be a duration, got %q", v)
		}
		sc.Timeout = d
	}
	return nil
}

// ShuffleConfig 轉成 shuffle.Config。
func (sc *SvrCfg) ShuffleConfig() shuffle.Config {
	return shuffle.Config{
		MaxQubits: sc.Shuffle.MaxQubits,
		NumGroups: sc.Shuffle.NumGroups,
		Epsilon:   sc.Shuffle.Epsilon,
		BaseShots: sc.Shuffle.BaseShots,
		MaxShots:  sc.Shuffle.MaxShots,
	}
}

// Valid 檢查並補齊設定：
//   - Workers：0 表示 GOMAXPROCS，限制在 [1, MaxWorkers]
//   - Log：未注入時依 LogMode 建立 async logger
//   - Metrics / Service：未注入時依設定建立
func (sc *SvrCfg) Valid() error {
	if sc.Addr == "" {
		sc.Addr = netsvr.DefaultAddr
	}
	mode, err := logger.ParseMode(sc.LogMode)
	if err != nil {
		return err
	}
	if sc.Workers < 0 {
		return errs.Invalid("workers must not be negative, got %d", sc.Workers)
	}
	if sc.Workers == 0 {
		sc.Workers = runtime.GOMAXPROCS(0)
	}
	sc.Workers = min(MaxWorkers, sc.Workers)
	if sc.Timeout < 0 {
		return errs.Invalid("timeout must not be negative, got %v", sc.Timeout)
	}
	if q := sc.Shuffle.MaxQubits; q != nil && *q < 0 {
		return errs.Invalid("shuffle.max_qubits must not be negative, got %d", *q)
	}

	if sc.Log == nil {
		sc.Log, sc.Async = logger.NewAsync(8192, mode)
	}
	if sc.Metrics == nil && sc.Service != nil {
		sc.Metrics = sc.Service.Metrics()
	}
	if sc.Metrics == nil {
		sc.Metrics = metrics.New()
	}
	if sc.Service == nil {
		svc, err := qshuffle.New(qshuffle.Options{
			Slots:    sc.Workers,
			Defaults: sc.ShuffleConfig(),
			Timeout:  sc.Timeout,
			Logger:   sc.Log,
			Metrics:  sc.Metrics,
		})
		if err != nil {
			return err
		}
		sc.Service = svc
	}
	return nil
}
