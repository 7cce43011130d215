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

	"github.com/zintix-labs/qshuffle/quantum"
	"github.com/zintix-labs/qshuffle/sdk/core"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	entangleProb = 0.7 // CX、CZ 各自獨立觸發的機率
	mixProb      = 0.5 // 每個 qubit 加 H 的機率
)

// synthesize 建立一個新的隨機電路：
//  1. 每個 qubit：RY(θy·s[i]) 再 RX(θx·s[i])，θ ~ U[0, π)
//  2. 每組相鄰 (i, i+1)：CX、CZ 各以 0.7 機率獨立加入
//  3. 每個 qubit：以 0.5 機率加入 H
//  4. 全部測量，qubit i → bit i
//
// 只有角度與開關每次重抽，scales 由 Sampler 建構時決定。
func synthesize(rng core.RAND, scales []float64) *quantum.Circuit {
	q := len(scales)
	c := quantum.NewCircuit(q)

	angle := distuv.Uniform{Min: 0, Max: math.Pi, Src: rng}
	for i, s := range scales {
		thetaY := angle.Rand() * s
		thetaX := angle.Rand() * s
		c.RY(thetaY, i)
		c.RX(thetaX, i)
	}

	entangle := distuv.Bernoulli{P: entangleProb, Src: rng}
	for i := 0; i < q-1; i++ {
		if entangle.Rand() == 1 {
			c.CX(i, i+1)
		}
		if entangle.Rand() == 1 {
			c.CZ(i, i+1)
		}
	}

	mix := distuv.Bernoulli{P: mixProb, Src: rng}
	for i := 0; i < q; i++ {
		if mix.Rand() == 1 {
			c.H(i)
		}
	}

	c.MeasureAll()
	return c
}
