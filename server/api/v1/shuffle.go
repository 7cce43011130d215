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

package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/qshuffle"
	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/server/httperr"
	"github.com/zintix-labs/qshuffle/shuffle"
)

// MaxBodyBytes 為 /api/shuffle 請求本文上限。
const MaxBodyBytes = 8 << 20

// ShuffleIDHeader 帶有本次 shuffle 的 uuid（與 log 中的 id 相同）。
const ShuffleIDHeader = "X-Shuffle-Id"

type ShuffleHandler struct {
	svc *qshuffle.Service
}

func NewShuffleHandler(svc *qshuffle.Service) (*ShuffleHandler, error) {
	if svc == nil {
		return nil, errs.NewFatal("shuffle service is required")
	}
	return &ShuffleHandler{svc: svc}, nil
}

// ShuffleResponse 為成功回應。Meta 只有在 ?verbose=true 時提供。
type ShuffleResponse struct {
	Distribution shuffle.Distribution `json:"distribution"`
	Meta         *Meta                `json:"meta,omitempty"`
}

type Meta struct {
	ID        string  `json:"id"`
	Items     int     `json:"items"`
	Qubits    int     `json:"qubits"`
	Shots     int     `json:"shots"`
	Outcomes  int     `json:"outcomes"`
	Retained  int     `json:"retained"`
	Discarded int     `json:"discarded"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

// Shuffle 處理 POST /api/shuffle。
func (h *ShuffleHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeShuffleRequest(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	resp, err := h.svc.Shuffle(r.Context(), req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	out := ShuffleResponse{Distribution: resp.Distribution}
	if verbose, _ := strconv.ParseBool(r.URL.Query().Get("verbose")); verbose {
		out.Meta = &Meta{
			ID:        resp.ID,
			Items:     resp.Items,
			Qubits:    resp.Qubits,
			Shots:     resp.Shots,
			Outcomes:  resp.Outcomes,
			Retained:  resp.Retained,
			Discarded: resp.Discarded,
			ElapsedMs: float64(resp.Elapsed.Microseconds()) / 1000,
		}
	}

	// 先完整編碼，保證不會寫到一半才失敗
	var b bytes.Buffer
	if err := json.NewEncoder(&b).Encode(out); err != nil {
		httperr.Errs(w, errs.Wrap(err, "encode shuffle response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ShuffleIDHeader, resp.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Bytes())
}

// DecodeShuffleRequest 接受兩種本文：
//   - JSON 字串陣列：["a", "b"]
//   - 物件：{"data": [...], "weights": [...], "max_qubits": n, "num_groups": n, "epsilon": x}
//
// 格式錯誤一律回傳 InvalidInput。
func DecodeShuffleRequest(body io.Reader) (qshuffle.Request, error) {
	var req qshuffle.Request
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, errs.Capacity("request body exceeds %d bytes", tooLarge.Limit)
		}
		return req, errs.Invalid("read request body: %v", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, errs.Invalid("request body is empty")
	}

	switch raw[0] {
	case '[':
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return req, errs.Invalid("data must be an array of strings: %v", err)
		}
		req.Items = items
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, errs.Invalid("malformed shuffle request: %v", err)
		}
		if dec.More() {
			return req, errs.Invalid("malformed shuffle request: trailing data")
		}
	default:
		return req, errs.Invalid("request body must be a JSON array or object")
	}
	if req.Items == nil {
		return req, errs.Invalid("data must be an array of strings")
	}
	return req, nil
}
