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

import "math"

// EstimateShots 依 item 數 n、qubit 數 q 與精度 eps 估算模擬次數：
//
//	shots = min(maxShots, round(base · (log2(max(2,n)) + 1) · (2^q / max(1,n)) · 1/eps²))
//
// round 為 round-half-to-even，clamp 在 round 之後。
// 結果至少為 1。
func EstimateShots(n, q int, eps float64, base, maxShots int) int {
	f := float64(base) *
		(math.Log2(float64(max(2, n))) + 1) *
		(math.Ldexp(1, q) / float64(max(1, n))) *
		(1 / (eps * eps))
	shots := math.RoundToEven(f)
	if shots >= float64(maxShots) {
		return maxShots
	}
	if shots < 1 {
		return 1
	}
	return int(shots)
}
