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
	"slices"

	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/sdk/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// groupWeights 將 n 個 item 切成 groups 個連續區塊，每組抽一個 [0.5, 2.0) 的權重，
// 最後一組吸收餘數，結果正規化為總和 1。
//
//	blockSize = max(1, n / groups)
//	group(i)  = min(i / blockSize, groups-1)
func groupWeights(rng core.RAND, n, groups int) []float64 {
	u := distuv.Uniform{Min: 0.5, Max: 2.0, Src: rng}
	scales := make([]float64, groups)
	for g := range scales {
		scales[g] = u.Rand()
	}
	blockSize := max(1, n/groups)
	w := make([]float64, n)
	for i := range w {
		w[i] = scales[min(i/blockSize, groups-1)]
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// explicitWeights 檢查並正規化呼叫端提供的權重。
func explicitWeights(src []float64, n int) ([]float64, error) {
	if len(src) != n {
		return nil, errs.Invalid("weights length %d does not match %d items", len(src), n)
	}
	for i, v := range src {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errs.Invalid("weight %d must be a non-negative finite number, got %v", i, v)
		}
	}
	sum := floats.Sum(src)
	if sum <= 0 {
		return nil, errs.Invalid("weights must have a positive sum")
	}
	w := slices.Clone(src)
	floats.Scale(1/sum, w)
	return w, nil
}

// qubitScales 為每個 qubit 抽一個 [0.5, 1.5) 的旋轉縮放係數，Sampler 生命週期內固定。
func qubitScales(rng core.RAND, q int) []float64 {
	u := distuv.Uniform{Min: 0.5, Max: 1.5, Src: rng}
	s := make([]float64, q)
	for i := range s {
		s[i] = u.Rand()
	}
	return s
}
