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
	"math"
)

// StateVector 保存 2^NumQubits 個振幅，初始為 |0...0>。
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Apply 對狀態套用一個閘。索引須先經 Circuit.Validate 檢查。
func (s *StateVector) Apply(g Gate) {
	switch g.Op {
	case OpRY:
		c, sn := math.Cos(g.Theta/2), math.Sin(g.Theta/2)
		s.apply1(g.Target, complex(c, 0), complex(-sn, 0), complex(sn, 0), complex(c, 0))
	case OpRX:
		c, sn := math.Cos(g.Theta/2), math.Sin(g.Theta/2)
		s.apply1(g.Target, complex(c, 0), complex(0, -sn), complex(0, -sn), complex(c, 0))
	case OpH:
		h := complex(1/math.Sqrt2, 0)
		s.apply1(g.Target, h, h, h, -h)
	case OpCX:
		s.applyCX(g.Control, g.Target)
	case OpCZ:
		s.applyCZ(g.Control, g.Target)
	}
}

// apply1 以 2x2 矩陣 [[a b] [c d]] 就地更新 target qubit 的每一組 (|..0..>, |..1..>)。
func (s *StateVector) apply1(q int, a, b, c, d complex128) {
	bit := 1 << q
	amps := s.Amplitudes
	for i := range amps {
		if i&bit != 0 {
			continue
		}
		j := i | bit
		x, y := amps[i], amps[j]
		amps[i] = a*x + b*y
		amps[j] = c*x + d*y
	}
}

func (s *StateVector) applyCX(control, target int) {
	cBit, tBit := 1<<control, 1<<target
	amps := s.Amplitudes
	for i := range amps {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			amps[i], amps[j] = amps[j], amps[i]
		}
	}
}

func (s *StateVector) applyCZ(control, target int) {
	mask := 1<<control | 1<<target
	amps := s.Amplitudes
	for i := range amps {
		if i&mask == mask {
			amps[i] = -amps[i]
		}
	}
}

// Probabilities 回傳各基底態的 |amplitude|^2。
// 總和偏離 1 超過 1e-6 或出現非有限值時回傳錯誤。
func (s *StateVector) Probabilities() ([]float64, error) {
	probs := make([]float64, len(s.Amplitudes))
	total := 0.0
	for i, a := range s.Amplitudes {
		p := real(a)*real(a) + imag(a)*imag(a)
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("amplitude %d is not finite", i)
		}
		probs[i] = p
		total += p
	}
	if math.Abs(total-1) > 1e-6 {
		return nil, fmt.Errorf("state is not normalized: total probability %.9f", total)
	}
	return probs, nil
}
