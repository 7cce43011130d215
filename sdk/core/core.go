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

// Package core 提供 qshuffle 各階段使用的「顯式」亂數來源。
//
// 沒有全域單例：每個 Sampler 持有自己的 *Core，
// 映射階段則在每個 bitstring 上以 Entropy() 取得一個由系統熵重新播種的新來源。
package core

// RAND 定義核心亂數取樣能力。
//
// Uint64 使 *Core 同時滿足 math/rand/v2 的 rand.Source，
// 因此可以直接交給 gonum distuv 當作 Src 使用。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// Core 封裝 RAND，並提供排列等工具方法。
type Core struct {
	RAND
}

// NewSeeded 以 seed 建立決定性的 Core，測試與重播用。
func NewSeeded(seed int64) *Core {
	return &Core{NewPCG64WithSeed(seed)}
}

// Entropy 回傳一個由系統熵（crypto/rand）重新播種的 Core。
// 每次呼叫都是獨立的新來源。
func Entropy() *Core {
	return &Core{NewPCG64()}
}

// Perm 回傳 [0,n) 的均勻隨機排列；n <= 0 回傳空切片。
func (c *Core) Perm(n int) []int {
	if n <= 0 {
		return []int{}
	}
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	c.ShuffleInts(p)
	return p
}

// ShuffleInts 使用 Fisher-Yates (Knuth Shuffle) 對 []int 就地重排。
// 所有 N! 種排列出現機率嚴格相等；O(N) 時間、零配置。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}
