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
	"cmp"
	"math"
	"slices"

	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/quantum"
	"github.com/zintix-labs/qshuffle/sdk/core"
)

// fullPermLimit 以下完整產生排列；超過時只抽需要的那一個位置。
const fullPermLimit = 1 << 12

// Permuter 回傳「一個新抽出的 [0,n) 均勻隨機排列」在位置 k 的值。
// 每次呼叫都必須是獨立的新排列。
type Permuter interface {
	At(n, k int) int
}

// EntropyPermuter 每次呼叫都以系統熵重新播種並抽一個新排列。
//
// n 大於 fullPermLimit 時，只取均勻排列在位置 k 的邊際分佈（[0,n) 上的均勻值），
// 與完整產生排列後取 perm[k] 同分佈，但不需要為每個 bitstring 配置 n 個元素。
type EntropyPermuter struct{}

func (EntropyPermuter) At(n, k int) int {
	rng := core.Entropy()
	if n <= fullPermLimit {
		return rng.Perm(n)[k]
	}
	return rng.IntN(n)
}

// PermuterFunc 讓一般函數滿足 Permuter。
type PermuterFunc func(n, k int) int

func (f PermuterFunc) At(n, k int) int { return f(n, k) }

// aggregation 為映射階段的結果。
type aggregation struct {
	dist      Distribution
	retained  int
	discarded int
}

// aggregate 將直方圖映射回 items：
//   - 每個 bitstring 解讀成 stateInt，抽一個新排列 perm；
//   - stateInt < n 時把次數加到 items[perm[stateInt]]，否則丟棄；
//   - retained 為 0 回傳 NoValidOutcomes；
//   - 每個 item 以 round(count / retained · shots) 重新縮放，依次數穩定遞減排序。
func aggregate(h *quantum.Histogram, items []string, shots int, p Permuter) (*aggregation, error) {
	n := len(items)
	pos := make(map[string]int)
	entries := make([]Entry, 0, min(n, len(h.Outcomes)))
	retained, discarded := 0, 0

	for _, o := range h.Outcomes {
		if o.Count <= 0 {
			continue
		}
		state, err := quantum.ParseBits(o.Bits)
		if err != nil {
			return nil, errs.Simulation(err, "decode measurement")
		}
		if state >= uint64(n) {
			discarded += o.Count
			continue
		}
		item := items[p.At(n, int(state))]
		i, ok := pos[item]
		if !ok {
			i = len(entries)
			pos[item] = i
			entries = append(entries, Entry{Item: item})
		}
		entries[i].Count += o.Count
		retained += o.Count
	}

	if retained == 0 {
		return nil, errs.NoOutcomes("no measured state mapped to a valid item (%d shots discarded)", discarded)
	}

	for i := range entries {
		entries[i].Count = int(math.RoundToEven(float64(entries[i].Count) / float64(retained) * float64(shots)))
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return &aggregation{dist: entries, retained: retained, discarded: discarded}, nil
}
