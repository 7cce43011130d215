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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zintix-labs/qshuffle/errs"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", errs.Invalid("empty"), http.StatusBadRequest},
		{"capacity", errs.Capacity("too many"), http.StatusRequestEntityTooLarge},
		{"no outcomes", errs.NoOutcomes("none"), http.StatusUnprocessableEntity},
		{"simulation", errs.Simulation(errors.New("nan"), "run"), http.StatusInternalServerError},
		{"deadline wins over kind", errs.Simulation(context.DeadlineExceeded, "run"), http.StatusGatewayTimeout},
		{"canceled", fmt.Errorf("wrap: %w", context.Canceled), http.StatusRequestTimeout},
		{"warn without kind", errs.NewWarn("bad"), http.StatusBadRequest},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestErrsWritesJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, errs.Capacity("2000000 items need 21 qubits"))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	var body Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "capacity_exceeded" || body.Detail == "" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestErrsNilIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	Errs(rec, nil)
	if rec.Body.Len() != 0 {
		t.Fatalf("nil error wrote a body")
	}
}
