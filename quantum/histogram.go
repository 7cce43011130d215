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
	"fmt"
	"strconv"
	"strings"
)

// Outcome 為一個觀測到的 bitstring 與次數。
type Outcome struct {
	Bits  string
	Count int
}

// Histogram 為測量結果，Outcomes 依首次觀測順序排列，Count 總和等於 Shots。
type Histogram struct {
	Width    int
	Shots    int
	Outcomes []Outcome
}

// Trivial 為 0 qubit 的退化結果：唯一的空 bitstring 承載全部 shots。
func Trivial(shots int) *Histogram {
	return &Histogram{Width: 0, Shots: shots, Outcomes: []Outcome{{Bits: "", Count: shots}}}
}

// Total 回傳所有 Outcome 的次數總和。
func (h *Histogram) Total() int {
	n := 0
	for _, o := range h.Outcomes {
		n += o.Count
	}
	return n
}

// FormatBits 將基底態索引寫成長度 width 的 bitstring（qubit width-1 在最左）。
func FormatBits(index uint64, width int) string {
	if width == 0 {
		return ""
	}
	s := strconv.FormatUint(index, 2)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// ParseBits 將 bitstring 解讀為無號二進位整數；空字串為 0。
func ParseBits(bits string) (uint64, error) {
	if bits == "" {
		return 0, nil
	}
	if len(bits) > 64 {
		return 0, fmt.Errorf("bitstring of length %d exceeds 64 bits", len(bits))
	}
	v, err := strconv.ParseUint(bits, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bitstring %q: %w", bits, err)
	}
	return v, nil
}
