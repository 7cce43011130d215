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

// Package qshuffle 是 qshuffle 的運行入口：Service 把 shuffle.Sampler 包成
// 可併發呼叫、有容量上限、可觀測的服務，供 HTTP 與 CLI 共用。
//
// 每次 Shuffle 都建立一個新的 Sampler（Sampler 本身不可併發），
// 並以固定數量的 slot 限制同時進行的模擬數，避免大 N 的 statevector 壓爆記憶體。
package qshuffle

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/metrics"
	"github.com/zintix-labs/qshuffle/shuffle"
	"golang.org/x/sync/semaphore"
)

// Options 為 Service 的組裝參數。零值欄位使用預設值。
type Options struct {
	// Slots 為同時進行的 shuffle 上限，0 表示 GOMAXPROCS。
	Slots int
	// Defaults 為請求未指定時使用的參數（MaxQubits、NumGroups、Epsilon、shot 上下限、Simulator）。
	Defaults shuffle.Config
	// Timeout 為單次 shuffle 的時間上限，0 表示不限制（仍受呼叫端 ctx 約束）。
	Timeout time.Duration
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Request 為單次 shuffle 的輸入；NumGroups / Epsilon 為 0 時沿用 Service 預設。
// MaxQubits 為 nil（未帶 max_qubits）時沿用預設，0 是合法的上限。
type Request struct {
	Items     []string  `json:"data" yaml:"data"`
	Weights   []float64 `json:"weights,omitempty" yaml:"weights,omitempty"`
	MaxQubits *int      `json:"max_qubits,omitempty" yaml:"max_qubits,omitempty"`
	NumGroups int       `json:"num_groups,omitempty" yaml:"num_groups,omitempty"`
	Epsilon   float64   `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
}

// Response 為 Shuffle 的結果與本次呼叫的中繼資料。
type Response struct {
	ID      string
	Elapsed time.Duration
	*shuffle.Result
}

// Service 可被多個 goroutine 同時使用。
type Service struct {
	defaults  shuffle.Config
	timeout   time.Duration
	log       *slog.Logger
	met       *metrics.Metrics
	slots     *semaphore.Weighted
	size      int
	done      chan struct{}
	closeOnce sync.Once
	inflight  atomic.Int32
	served    atomic.Int64
	failed    atomic.Int64
	panics    atomic.Int64
}

// New 建立 Service。Options.Defaults 會先驗證，不合法時回傳 InvalidInput。
func New(opts Options) (*Service, error) {
	if opts.Slots < 0 {
		return nil, errs.Invalid("slots must not be negative, got %d", opts.Slots)
	}
	if opts.Slots == 0 {
		opts.Slots = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if err := validateDefaults(opts.Defaults); err != nil {
		return nil, err
	}
	return &Service{
		defaults: opts.Defaults,
		timeout:  opts.Timeout,
		log:      opts.Logger,
		met:      opts.Metrics,
		slots:    semaphore.NewWeighted(int64(opts.Slots)),
		size:     opts.Slots,
		done:     make(chan struct{}),
	}, nil
}

// validateDefaults 用單一 item 探測一次參數正規化。
func validateDefaults(cfg shuffle.Config) error {
	cfg.Weights = nil
	_, err := shuffle.NewSampler([]string{"probe"}, cfg)
	if err != nil {
		return errs.Wrap(err, "invalid service defaults")
	}
	return nil
}

// Metrics 回傳 Service 使用的指標集合。
func (s *Service) Metrics() *metrics.Metrics { return s.met }

// Close 之後所有 Shuffle 直接回傳錯誤；進行中的呼叫不受影響。
func (s *Service) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

func (s *Service) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Status 為 Service 的即時狀態快照。
type Status struct {
	State    string `json:"state" yaml:"state"` // ready / busy / closed
	Slots    int    `json:"slots" yaml:"slots"`
	InFlight int    `json:"in_flight" yaml:"in_flight"`
	Served   int64  `json:"served" yaml:"served"`
	Failed   int64  `json:"failed" yaml:"failed"`
	Panics   int64  `json:"panics" yaml:"panics"`
}

func (s *Service) Status() Status {
	st := Status{
		State:    "ready",
		Slots:    s.size,
		InFlight: int(s.inflight.Load()),
		Served:   s.served.Load(),
		Failed:   s.failed.Load(),
		Panics:   s.panics.Load(),
	}
	switch {
	case s.Closed():
		st.State = "closed"
	case st.InFlight >= st.Slots:
		st.State = "busy"
	}
	return st
}

// config 把請求覆蓋到預設值上。Rand 一律清空，讓每個 Sampler 各自取得新的熵來源。
func (s *Service) config(req Request) shuffle.Config {
	cfg := s.defaults
	cfg.Rand = nil
	cfg.Weights = req.Weights
	if req.MaxQubits != nil {
		cfg.MaxQubits = req.MaxQubits
	}
	if req.NumGroups != 0 {
		cfg.NumGroups = req.NumGroups
	}
	if req.Epsilon != 0 {
		cfg.Epsilon = req.Epsilon
	}
	return cfg
}

// Shuffle 取得一個 slot 後執行一次 shuffle。
//
// 等待 slot 時若 ctx 結束回傳 ctx 錯誤（包成 Warn）；sampler 內的 panic 會被轉成 Internal/Fatal。
func (s *Service) Shuffle(ctx context.Context, req Request) (resp *Response, err error) {
	id := uuid.NewString()
	start := time.Now()
	qubits := -1

	defer func() {
		kind := "ok"
		if err != nil {
			kind = errs.KindOf(err).String()
			s.failed.Add(1)
			s.logFailure(ctx, id, len(req.Items), err)
		} else {
			s.served.Add(1)
		}
		s.met.ShuffleCount.Observe(1, kind)
		if qubits >= 0 {
			s.met.ShuffleLatency.Observe(time.Since(start).Seconds(), strconv.Itoa(qubits))
		}
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.Closed() {
		return nil, errs.NewFatal("shuffle service closed")
	}
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, &errs.E{Message: "wait for shuffle slot", Cause: err, ErrLv: errs.Warn}
	}
	s.inflight.Add(1)
	s.met.InFlight.Observe(1)
	defer func() {
		s.slots.Release(1)
		s.inflight.Add(-1)
		s.met.InFlight.Observe(-1)
		if r := recover(); r != nil {
			s.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("shuffle %s panic: %v", id, r))
			resp = nil
		}
	}()

	sp, err := shuffle.NewSampler(req.Items, s.config(req))
	if err != nil {
		return nil, err
	}
	qubits = sp.Qubits()

	res, err := sp.Run(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	s.met.Shots.Observe(float64(res.Shots))
	s.met.DiscardRatio.Observe(float64(res.Discarded) / float64(res.Shots))
	s.log.LogAttrs(ctx, slog.LevelInfo, "shuffle.done",
		slog.String("id", id),
		slog.Int("items", res.Items),
		slog.Int("qubits", res.Qubits),
		slog.Int("shots", res.Shots),
		slog.Int("outcomes", res.Outcomes),
		slog.Int("discarded", res.Discarded),
		slog.Duration("elapsed", elapsed),
	)
	return &Response{ID: id, Elapsed: elapsed, Result: res}, nil
}

func (s *Service) logFailure(ctx context.Context, id string, items int, err error) {
	lv := slog.LevelWarn
	if e, ok := errs.AsErr(err); ok && e.ErrLv == errs.Fatal {
		lv = slog.LevelError
	}
	s.log.LogAttrs(ctx, lv, "shuffle.failed",
		slog.String("id", id),
		slog.Int("items", items),
		slog.String("kind", errs.KindOf(err).String()),
		slog.String("err", err.Error()),
	)
}
