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

// Package quantum 描述量子電路並以 statevector 方式模擬測量。
//
// 位元慣例：基底態索引的第 i 個 bit 對應 qubit i；
// bitstring 以 qubit Q-1 在最左邊的方式書寫，
// 因此把 bitstring 當成無號二進位數即得到基底態索引。
package quantum

import "fmt"

// MaxQubits 為模擬器可接受的上限（2^24 個 complex128 約 256MB）。
const MaxQubits = 24

// Op 為電路支援的閘種類。
type Op uint8

const (
	OpRY Op = iota
	OpRX
	OpCX
	OpCZ
	OpH
)

var opNames = [...]string{OpRY: "ry", OpRX: "rx", OpCX: "cx", OpCZ: "cz", OpH: "h"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", o)
}

// Gate 為電路中的一個操作。單量子位閘的 Control 為 -1。
type Gate struct {
	Op      Op
	Target  int
	Control int
	Theta   float64
}

// Circuit 為 NumQubits 個 qubit 與同數量 classical bit 的電路。
// Measured 為 true 時，所有 qubit i 在最後被測量到 bit i。
type Circuit struct {
	NumQubits int
	Gates     []Gate
	Measured  bool
}

// NewCircuit 建立 q 個 qubit 的空電路。
func NewCircuit(q int) *Circuit {
	return &Circuit{NumQubits: q, Gates: make([]Gate, 0, 4*q)}
}

func (c *Circuit) RY(theta float64, q int) {
	c.Gates = append(c.Gates, Gate{Op: OpRY, Target: q, Control: -1, Theta: theta})
}

func (c *Circuit) RX(theta float64, q int) {
	c.Gates = append(c.Gates, Gate{Op: OpRX, Target: q, Control: -1, Theta: theta})
}

func (c *Circuit) H(q int) {
	c.Gates = append(c.Gates, Gate{Op: OpH, Target: q, Control: -1})
}

// CX 加入 control → target 的 controlled-NOT。
func (c *Circuit) CX(control, target int) {
	c.Gates = append(c.Gates, Gate{Op: OpCX, Target: target, Control: control})
}

// CZ 加入 controlled-Z（對兩個 qubit 對稱）。
func (c *Circuit) CZ(control, target int) {
	c.Gates = append(c.Gates, Gate{Op: OpCZ, Target: target, Control: control})
}

// MeasureAll 測量所有 qubit，qubit i → bit i。
func (c *Circuit) MeasureAll() {
	c.Measured = true
}

// Count 回傳指定閘的數量。
func (c *Circuit) Count(op Op) int {
	n := 0
	for _, g := range c.Gates {
		if g.Op == op {
			n++
		}
	}
	return n
}

// Validate 檢查 qubit 索引與閘參數。
func (c *Circuit) Validate() error {
	if c.NumQubits < 0 || c.NumQubits > MaxQubits {
		return fmt.Errorf("circuit has %d qubits, simulator supports 0..%d", c.NumQubits, MaxQubits)
	}
	for i, g := range c.Gates {
		if g.Target < 0 || g.Target >= c.NumQubits {
			return fmt.Errorf("gate %d (%s): target qubit %d out of range", i, g.Op, g.Target)
		}
		switch g.Op {
		case OpCX, OpCZ:
			if g.Control < 0 || g.Control >= c.NumQubits {
				return fmt.Errorf("gate %d (%s): control qubit %d out of range", i, g.Op, g.Control)
			}
			if g.Control == g.Target {
				return fmt.Errorf("gate %d (%s): control equals target %d", i, g.Op, g.Target)
			}
		case OpRX, OpRY, OpH:
		default:
			return fmt.Errorf("gate %d: unknown op %s", i, g.Op)
		}
	}
	return nil
}
