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

// Package errs 定義 qshuffle 全域共用的錯誤型別。
//
// 每個錯誤同時帶有兩個維度：
//   - Kind：錯誤類別（輸入錯誤、容量不足、模擬失敗、無有效結果…），決定邊界層如何回應。
//   - ErrLv：嚴重度分級，決定上層是否應該中止、告警或僅記錄。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

// Kind 為錯誤類別。零值 Internal 代表未分類的內部錯誤。
type Kind uint8

const (
	Internal Kind = iota
	InvalidInput
	CapacityExceeded
	SimulationError
	NoValidOutcomes
)

var kindMap = map[Kind]string{
	Internal:         "internal",
	InvalidInput:     "invalid_input",
	CapacityExceeded: "capacity_exceeded",
	SimulationError:  "simulation_error",
	NoValidOutcomes:  "no_valid_outcomes",
}

func (k Kind) String() string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return "internal"
}

// 哨兵錯誤：配合 errors.Is 使用，例如 errors.Is(err, errs.ErrCapacityExceeded)。
// *E 會依 Kind 與這些哨兵比對，因此不需要把哨兵放進 Cause 鏈。
var (
	ErrInvalidInput     = &E{Kind: InvalidInput, Message: "invalid input", ErrLv: Warn}
	ErrCapacityExceeded = &E{Kind: CapacityExceeded, Message: "capacity exceeded", ErrLv: Warn}
	ErrSimulation       = &E{Kind: SimulationError, Message: "simulation failed", ErrLv: Fatal}
	ErrNoValidOutcomes  = &E{Kind: NoValidOutcomes, Message: "no valid outcomes", ErrLv: Warn}
)

// E 是統一的錯誤型別。
// Message 為主訊息；Cause 可串接下層錯誤（wrap）；Kind 為類別；ErrLv 為嚴重度。
type E struct {
	Kind    Kind
	Message string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := e.Message
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 讓同 Kind 的 *E 彼此相等，哨兵比對因此能穿透任意層 Wrap。
// Internal 不參與比對，避免所有未分類錯誤互相命中。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return e.Kind != Internal && e.Kind == t.Kind
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Invalid 建立 InvalidInput 類別錯誤（Warn：呼叫端可修正）。
func Invalid(format string, a ...any) *E {
	return &E{Kind: InvalidInput, Message: fmt.Sprintf(format, a...), ErrLv: Warn}
}

// Capacity 建立 CapacityExceeded 類別錯誤（Warn：呼叫端可縮小輸入）。
func Capacity(format string, a ...any) *E {
	return &E{Kind: CapacityExceeded, Message: fmt.Sprintf(format, a...), ErrLv: Warn}
}

// Simulation 以 SimulationError 包裝模擬器的底層錯誤（Fatal）。
func Simulation(cause error, msg string) *E {
	return &E{Kind: SimulationError, Message: msg, Cause: cause, ErrLv: Fatal}
}

// NoOutcomes 建立 NoValidOutcomes 類別錯誤。
func NoOutcomes(format string, a ...any) *E {
	return &E{Kind: NoValidOutcomes, Message: fmt.Sprintf(format, a...), ErrLv: Warn}
}

// Wrap 使用給定訊息包裝底層錯誤，建立一個 *E。
//
// 規則：
//   - 若 cause 已經是 *E，則沿用其 Kind 與 ErrLv（保持原本類別與嚴重度）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則視為 Internal / Fatal。
func Wrap(cause error, msg string) *E {
	kind, errLv := Internal, Fatal
	var e *E
	if errors.As(cause, &e) {
		kind, errLv = e.Kind, e.ErrLv
	}
	return &E{Kind: kind, Message: msg, Cause: cause, ErrLv: errLv}
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// KindOf 回傳錯誤鏈中第一個 *E 的 Kind；非本包錯誤回傳 Internal。
func KindOf(err error) Kind {
	if e, ok := AsErr(err); ok {
		return e.Kind
	}
	return Internal
}
