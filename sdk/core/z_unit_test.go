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

package core

import (
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := NewSeeded(7)
	c2 := NewSeeded(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestCoreShuffleInts(t *testing.T) {
	c := NewSeeded(9)
	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal([]int{1, 2, 3, 4}, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestPermIsBijection(t *testing.T) {
	c := NewSeeded(3)
	for _, n := range []int{0, 1, 2, 17, 1000} {
		p := c.Perm(n)
		if len(p) != n {
			t.Fatalf("Perm(%d) length %d", n, len(p))
		}
		seen := make([]bool, n)
		for _, v := range p {
			if v < 0 || v >= n || seen[v] {
				t.Fatalf("Perm(%d) not a bijection: %v", n, p)
			}
			seen[v] = true
		}
	}
}

func TestPermPositionUniform(t *testing.T) {
	c := NewSeeded(5)
	const n, trials = 4, 40000
	counts := make([]int, n)
	for i := 0; i < trials; i++ {
		counts[c.Perm(n)[0]]++
	}
	for v, got := range counts {
		rate := float64(got) / trials
		if rate < 0.23 || rate > 0.27 {
			t.Fatalf("value %d at position 0 with rate %.4f, want ~0.25", v, rate)
		}
	}
}

func TestEntropyIndependent(t *testing.T) {
	a, b := Entropy(), Entropy()
	same := 0
	for i := 0; i < 8; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 8 {
		t.Fatalf("two entropy sources produced identical streams")
	}
}
