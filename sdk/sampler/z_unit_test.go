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

package sampler

import (
	"errors"
	"math"
	"testing"

	"github.com/zintix-labs/qshuffle/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []float64, samples []int, tolerance float64) {
	t.Helper()
	totalW := 0.0
	for _, w := range weights {
		totalW += w
	}
	counts := make(map[int]int)
	for _, idx := range samples {
		counts[idx]++
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expected := w / totalW
		actual := float64(counts[i]) / float64(len(samples))
		if diff := math.Abs(expected - actual); diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expected, actual, diff, tolerance)
		}
	}
}

// TestAliasTableDistribution 驗證抽樣分佈符合權重（含 0 權重）
func TestAliasTableDistribution(t *testing.T) {
	c := core.NewSeeded(1)
	weights := []float64{0.1, 0.0, 0.6, 0.3}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	samples := make([]int, 100000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, "float", weights, samples, 0.01)
}

// TestAliasTableUnnormalized 驗證未正規化的整數權重
func TestAliasTableUnnormalized(t *testing.T) {
	c := core.NewSeeded(2)
	weights := []int{3, 5, 2}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	samples := make([]int, 50000)
	for i := range samples {
		samples[i] = at.Pick(c)
	}
	checkDistribution(t, "int", []float64{3, 5, 2}, samples, 0.01)
}

// TestAliasTableSingle 單一元素必定抽中自己
func TestAliasTableSingle(t *testing.T) {
	c := core.NewSeeded(3)
	at, err := BuildAliasTable([]float64{1e-12})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for i := 0; i < 100; i++ {
		if got := at.Pick(c); got != 0 {
			t.Fatalf("expected 0, got %d", got)
		}
	}
}

// TestAliasTableErrors 驗證錯誤輸入
func TestAliasTableErrors(t *testing.T) {
	if _, err := BuildAliasTable([]float64{1, -1}); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected negative weight error, got %v", err)
	}
	if _, err := BuildAliasTable([]float64{1, math.NaN()}); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("expected non-finite weight error, got %v", err)
	}
	if _, err := BuildAliasTable([]float64{0, 0}); !errors.Is(err, ErrZeroWeight) {
		t.Fatalf("expected zero weight error, got %v", err)
	}
	at, err := BuildAliasTable([]float64{})
	if err != nil {
		t.Fatalf("empty table should build: %v", err)
	}
	if got := at.Pick(core.NewSeeded(1)); got != -1 {
		t.Fatalf("empty table pick = %d, want -1", got)
	}
}
