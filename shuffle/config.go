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

package shuffle

import (
	"math"

	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/quantum"
	"github.com/zintix-labs/qshuffle/sdk/core"
)

const (
	DefaultMaxQubits = 20
	DefaultNumGroups = 10
	DefaultEpsilon   = 0.01
	DefaultBaseShots = 1000
	DefaultMaxShots  = 100000
)

// Config 為單次 shuffle 的參數。零值欄位使用預設值。
type Config struct {
	// Weights 為選填的每個 item 權重，長度須等於 item 數；nil 時使用分組隨機權重。
	Weights []float64
	// MaxQubits 為 qubit 上限，nil 表示 DefaultMaxQubits；0 為合法上限（只允許單一 item）。
	// 實際生效的上限為 min(*MaxQubits, quantum.MaxQubits)。
	MaxQubits *int
	// NumGroups 為分組權重的組數，0 表示 DefaultNumGroups。
	NumGroups int
	// Epsilon 為目標精度，0 表示 DefaultEpsilon。
	Epsilon float64
	// BaseShots / MaxShots 為 shot 估算的基數與上限。
	BaseShots int
	MaxShots  int

	// Simulator 為電路執行後端，nil 時使用 quantum.NewStatevector()。
	Simulator quantum.Simulator
	// Rand 為建構與電路合成階段的亂數來源，nil 時使用 core.Entropy()。
	// Sampler 會獨占此來源。
	Rand core.RAND
	// Permuter 為映射階段的排列來源，nil 時使用 EntropyPermuter。
	Permuter Permuter
}

// DefaultConfig 回傳全部填好預設值的 Config。
func DefaultConfig() Config {
	return Config{
		MaxQubits: QubitLimit(DefaultMaxQubits),
		NumGroups: DefaultNumGroups,
		Epsilon:   DefaultEpsilon,
		BaseShots: DefaultBaseShots,
		MaxShots:  DefaultMaxShots,
	}
}

// QubitLimit 回傳指向 q 的指標，供 Config.MaxQubits 使用。
func QubitLimit(q int) *int { return &q }

// qubitCeiling 為 normalized 之後實際生效的 qubit 上限。
func (c Config) qubitCeiling() int {
	return min(*c.MaxQubits, quantum.MaxQubits)
}

// normalized 檢查參數並補上預設值，回傳副本。
func (c Config) normalized() (Config, error) {
	switch {
	case c.MaxQubits == nil:
		c.MaxQubits = QubitLimit(DefaultMaxQubits)
	case *c.MaxQubits < 0:
		return c, errs.Invalid("max_qubits must not be negative, got %d", *c.MaxQubits)
	default:
		c.MaxQubits = QubitLimit(*c.MaxQubits)
	}
	if c.NumGroups < 0 {
		return c, errs.Invalid("num_groups must be positive, got %d", c.NumGroups)
	}
	if c.NumGroups == 0 {
		c.NumGroups = DefaultNumGroups
	}
	if c.Epsilon < 0 || math.IsNaN(c.Epsilon) || math.IsInf(c.Epsilon, 0) {
		return c, errs.Invalid("epsilon must be a positive finite number, got %v", c.Epsilon)
	}
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.BaseShots < 0 || c.MaxShots < 0 {
		return c, errs.Invalid("shot bounds must be positive")
	}
	if c.BaseShots == 0 {
		c.BaseShots = DefaultBaseShots
	}
	if c.MaxShots == 0 {
		c.MaxShots = DefaultMaxShots
	}
	if c.Simulator == nil {
		c.Simulator = quantum.NewStatevector()
	}
	if c.Rand == nil {
		c.Rand = core.Entropy()
	}
	if c.Permuter == nil {
		c.Permuter = EntropyPermuter{}
	}
	return c, nil
}
