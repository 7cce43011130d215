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

// Package shuffle 以模擬的隨機量子電路產生加權的隨機排序。
//
// 流程：
//
//	items -> Sampler(權重, qubit 縮放) -> 隨機電路 -> 模擬 shots 次
//	      -> bitstring 映射回 item -> 重新縮放並依次數排序
//
// 每次 Run 都重新合成電路並重新抽映射排列，因此相同輸入的兩次呼叫結果通常不同。
package shuffle

import (
	"context"
	"fmt"
	"math/bits"
	"slices"

	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/quantum"
)

// Result 為一次 Run 的完整結果。
type Result struct {
	Distribution Distribution
	Items        int // 輸入 item 數
	Qubits       int // 使用的 qubit 數
	Shots        int // 模擬次數（亦為縮放目標）
	Outcomes     int // 直方圖中不同 bitstring 的數量
	Retained     int // 映射到有效 item 的 shot 數
	Discarded    int // stateInt >= N 被丟棄的 shot 數
}

// Sampler 綁定一組 items 與建構時決定的權重、qubit 縮放與 shot 數。
// Sampler 不能被多個 goroutine 同時 Run（它獨占 Config.Rand）。
type Sampler struct {
	items   []string
	qubits  int
	weights []float64
	scales  []float64
	shots   int
	cfg     Config
}

// NewSampler 建立 Sampler。
//
//   - items 為空 -> InvalidInput
//   - Q = ceil(log2 N)，N = 1 時 Q = 0
//   - Q > min(MaxQubits, quantum.MaxQubits) -> CapacityExceeded
func NewSampler(items []string, cfg Config) (*Sampler, error) {
	if len(items) == 0 {
		return nil, errs.Invalid("items must not be empty")
	}
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	n := len(items)
	q := bits.Len(uint(n - 1))
	if limit := cfg.qubitCeiling(); q > limit {
		return nil, errs.Capacity("%d items need %d qubits, limit is %d", n, q, limit)
	}

	var w []float64
	if cfg.Weights != nil {
		if w, err = explicitWeights(cfg.Weights, n); err != nil {
			return nil, err
		}
	} else {
		w = groupWeights(cfg.Rand, n, cfg.NumGroups)
	}

	return &Sampler{
		items:   slices.Clone(items),
		qubits:  q,
		weights: w,
		scales:  qubitScales(cfg.Rand, q),
		shots:   EstimateShots(n, q, cfg.Epsilon, cfg.BaseShots, cfg.MaxShots),
		cfg:     cfg,
	}, nil
}

func (s *Sampler) N() int                 { return len(s.items) }
func (s *Sampler) Qubits() int            { return s.qubits }
func (s *Sampler) Shots() int             { return s.shots }
func (s *Sampler) Weights() []float64     { return slices.Clone(s.weights) }
func (s *Sampler) QubitScales() []float64 { return slices.Clone(s.scales) }

// Run 合成一個新電路、模擬並映射回 items。
func (s *Sampler) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Simulation(err, "shuffle canceled")
	}

	var h *quantum.Histogram
	if s.qubits == 0 {
		h = quantum.Trivial(s.shots)
	} else {
		c := synthesize(s.cfg.Rand, s.scales)
		var err error
		h, err = s.cfg.Simulator.Run(ctx, c, s.shots)
		if err != nil {
			return nil, errs.Simulation(err, "simulate circuit")
		}
	}
	if h == nil || h.Total() != s.shots {
		got := 0
		if h != nil {
			got = h.Total()
		}
		return nil, errs.Simulation(fmt.Errorf("histogram holds %d shots, want %d", got, s.shots), "inconsistent histogram")
	}

	agg, err := aggregate(h, s.items, s.shots, s.cfg.Permuter)
	if err != nil {
		return nil, err
	}
	return &Result{
		Distribution: agg.dist,
		Items:        len(s.items),
		Qubits:       s.qubits,
		Shots:        s.shots,
		Outcomes:     len(h.Outcomes),
		Retained:     agg.retained,
		Discarded:    agg.discarded,
	}, nil
}

// Shuffle 只回傳 Distribution。
func (s *Sampler) Shuffle(ctx context.Context) (Distribution, error) {
	r, err := s.Run(ctx)
	if err != nil {
		return nil, err
	}
	return r.Distribution, nil
}

// Shuffle 以 cfg 建立一次性的 Sampler 並執行。
func Shuffle(ctx context.Context, items []string, cfg Config) (Distribution, error) {
	s, err := NewSampler(items, cfg)
	if err != nil {
		return nil, err
	}
	return s.Shuffle(ctx)
}
