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

package quantum

import (
	"context"
	"fmt"

	"github.com/zintix-labs/qshuffle/sdk/core"
	"github.com/zintix-labs/qshuffle/sdk/sampler"
)

// Simulator 執行電路 shots 次並回傳測量直方圖。
// 實作不需要支援執行中取消；ctx 只在開始前檢查。
type Simulator interface {
	Run(ctx context.Context, c *Circuit, shots int) (*Histogram, error)
}

// StatevectorSimulator 先演化完整 statevector，再以 alias table 逐 shot 抽樣。
//
// Source 提供抽樣用亂數；nil 時每次 Run 以 core.Entropy() 取得新來源。
type StatevectorSimulator struct {
	Source func() core.RAND
}

// NewStatevector 建立使用系統熵抽樣的模擬器。
func NewStatevector() *StatevectorSimulator {
	return &StatevectorSimulator{}
}

func (sim *StatevectorSimulator) rand() core.RAND {
	if sim.Source != nil {
		return sim.Source()
	}
	return core.Entropy()
}

// Run 實作 Simulator。
func (sim *StatevectorSimulator) Run(ctx context.Context, c *Circuit, shots int) (*Histogram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("nil circuit")
	}
	if shots < 1 {
		return nil, fmt.Errorf("shots must be positive, got %d", shots)
	}
	if !c.Measured {
		return nil, fmt.Errorf("circuit has no measurement")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.NumQubits == 0 {
		return Trivial(shots), nil
	}

	sv := NewStateVector(c.NumQubits)
	for _, g := range c.Gates {
		sv.Apply(g)
	}
	probs, err := sv.Probabilities()
	if err != nil {
		return nil, err
	}
	at, err := sampler.BuildAliasTable(probs)
	if err != nil {
		return nil, err
	}
	return sampleShots(at, sim.rand(), c.NumQubits, shots), nil
}

// sampleShots 抽樣 shots 次，依首次觀測順序累計。
func sampleShots(at *sampler.AliasTable, rng core.RAND, width, shots int) *Histogram {
	pos := make(map[int]int)
	h := &Histogram{Width: width, Shots: shots, Outcomes: make([]Outcome, 0, min(shots, at.Size))}
	for i := 0; i < shots; i++ {
		idx := at.Pick(rng)
		p, ok := pos[idx]
		if !ok {
			p = len(h.Outcomes)
			pos[idx] = p
			h.Outcomes = append(h.Outcomes, Outcome{Bits: FormatBits(uint64(idx), width)})
		}
		h.Outcomes[p].Count++
	}
	return h
}
