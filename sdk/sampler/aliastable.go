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

// Package sampler 提供加權抽樣演算法。
//
// 本檔案 (aliastable.go) 實作 Vose's Alias Method。
// 量子模擬器以它從 2^Q 個基底態機率中逐 shot 抽樣：
//   - 建表時間：O(N)
//   - 抽樣時間：O(1)，每次固定 1 次 IntN + 1 次 Float64
//   - 空間複雜度：O(N)
//
// 權重為浮點數（|amplitude|^2），不需事先正規化；
// 建表時以總和做 scaling，因此數值誤差不會讓機率總和偏離 1。
package sampler

import (
	"errors"
	"math"

	"github.com/zintix-labs/qshuffle/sdk/core"
)

var (
	ErrNegativeWeight = errors.New("alias table: negative or non-finite weight")
	ErrZeroWeight     = errors.New("alias table: all weights are zero")
)

// AliasTable 是 Vose Alias Method 的 O(1) 加權抽樣結構。
//
// 欄位說明：
//   - Prob: 每個槽位「選自己」的機率，落在 [0,1]。
//   - Aliases: 槽位未選自己時改選的索引。
//   - Size: 元素數量。
type AliasTable struct {
	Prob    []float64
	Aliases []int
	Size    int
}

// BuildAliasTable 根據權重建立 AliasTable。
//
// 流程：
//  1. 計算總和 total，負數、NaN、Inf 或 total == 0 回傳錯誤。
//  2. scaled[i] = w[i] * n / total；小於 1 放 small，其餘放 large。
//  3. 由 small/large 各取一個 s, l：s 的缺額由 l 補足（aliases[s] = l），
//     l 扣掉補出去的量後重新分類。
//  4. 剩下的槽位（浮點殘差造成）機率設為 1。
func BuildAliasTable[T Numbers](weights []T) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return &AliasTable{Prob: []float64{}, Aliases: []int{}, Size: 0}, nil
	}

	total := 0.0
	for _, w := range weights {
		f := float64(w)
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrNegativeWeight
		}
		total += f
	}
	if total == 0 {
		return nil, ErrZeroWeight
	}

	prob := make([]float64, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	scale := float64(n) / total
	for i, w := range weights {
		prob[i] = float64(w) * scale
		aliases[i] = i
		if prob[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		prob[l] = prob[l] + prob[s] - 1 // 維持 sum(prob) = n 的不變性

		if prob[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	for _, i := range large {
		prob[i] = 1
	}
	for _, i := range small {
		prob[i] = 1
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n}, nil
}

// Pick 從 AliasTable 中抽取一個索引，若表為空則回傳 -1。
func (at *AliasTable) Pick(c core.RAND) int {
	if at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.Float64() < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
