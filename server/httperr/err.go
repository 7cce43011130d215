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

// Package httperr 是唯一知道 HTTP status 的地方：把 errs.E 映射成狀態碼與 JSON 錯誤本文。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/qshuffle/errs"
)

// Body 為錯誤回應本文。
type Body struct {
	Detail string `json:"detail"`
	Kind   string `json:"kind"`
}

// StatusCode 將錯誤映射成 HTTP status code。
//
//   - ctx timeout/cancel  -> 504/408（即使被 wrap 也能命中）
//   - InvalidInput        -> 400
//   - CapacityExceeded    -> 413
//   - NoValidOutcomes     -> 422
//   - SimulationError     -> 500
//   - 其他 *errs.E 依等級：Warn -> 400，其餘 -> 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	e, ok := errs.AsErr(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case errs.InvalidInput:
		return http.StatusBadRequest
	case errs.CapacityExceeded:
		return http.StatusRequestEntityTooLarge
	case errs.NoValidOutcomes:
		return http.StatusUnprocessableEntity
	case errs.SimulationError:
		return http.StatusInternalServerError
	}
	if e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// kindLabel 回傳錯誤本文中的 kind；context 錯誤另有專屬標籤。
func kindLabel(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return errs.KindOf(err).String()
}

// Errs 依錯誤寫回 status 與 JSON {detail, kind}。err 為 nil 時不動作。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	Write(w, StatusCode(err), Body{Detail: err.Error(), Kind: kindLabel(err)})
}

// Write 直接寫出指定 status 的錯誤本文。
func Write(w http.ResponseWriter, status int, body Body) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// NotFound / MethodNotAllowed 讓路由層的錯誤也使用相同的 JSON 格式。
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, Body{Detail: "no route for " + r.URL.Path, Kind: "not_found"})
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, Body{Detail: r.Method + " not allowed on " + r.URL.Path, Kind: "method_not_allowed"})
}

// Log 依 status 決定層級：408/413/422 記 warn，5xx 記 error，其餘不記。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Int("status", status), slog.Any("err", err))
	case status == http.StatusRequestTimeout || status == http.StatusRequestEntityTooLarge || status == http.StatusUnprocessableEntity:
		log.Warn(msg, slog.Int("status", status), slog.Any("err", err))
	}
}
