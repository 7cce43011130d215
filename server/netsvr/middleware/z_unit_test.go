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

package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/zintix-labs/qshuffle/metrics"
)

const payload = `{"distribution":{"alpha":600,"beta":400}}`

func jsonHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, payload)
}

func TestCompressionNegotiates(t *testing.T) {
	h := Compression(http.HandlerFunc(jsonHandler))

	cases := []struct {
		accept string
		want   string
	}{
		{"gzip, deflate, br, zstd", "zstd"},
		{"gzip", "gzip"},
		{"zstd;q=0, gzip", "gzip"},
		{"identity", ""},
		{"", ""},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/shuffle", nil)
		if tc.accept != "" {
			req.Header.Set("Accept-Encoding", tc.accept)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get("Content-Encoding")
		if got != tc.want {
			t.Fatalf("accept %q: encoding %q want %q", tc.accept, got, tc.want)
		}
		if body := decode(t, got, rec.Body.Bytes()); body != payload {
			t.Fatalf("accept %q: body %q", tc.accept, body)
		}
	}
}

func decode(t *testing.T, enc string, b []byte) string {
	t.Helper()
	switch enc {
	case "gzip":
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		out, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("gzip read: %v", err)
		}
		return string(out)
	case "zstd":
		zr, err := zstd.NewReader(bytes.NewReader(b))
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("zstd read: %v", err)
		}
		return string(out)
	}
	return string(b)
}

func TestCompressionSkipsNoBody(t *testing.T) {
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.Len() != 0 || rec.Header().Get("Content-Encoding") != "" {
		t.Fatalf("204 must not carry a compressed body")
	}
}

func TestCompressionHidesAcceptEncodingDownstream(t *testing.T) {
	var seen string
	h := Compression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Accept-Encoding")
	}))
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "" {
		t.Fatalf("downstream saw Accept-Encoding %q", seen)
	}
}

func TestRecoverWritesJSON(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	h := RequestID(Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("statevector exploded")
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/shuffle", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"kind":"internal"`) {
		t.Fatalf("body %q", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "statevector exploded") {
		t.Fatalf("panic not logged: %q", logs.String())
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("missing request id header")
	}
}

func TestAccessLogAndMetricsUseRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	m := metrics.New()
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(slog.New(slog.NewTextHandler(&logs, nil))))
	r.Use(Metrics(m))
	r.Post("/api/shuffle", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/shuffle", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	out := logs.String()
	for _, want := range []string{"msg=http.access", "status=413", "route=/api/shuffle", "level=WARN", "req_id="} {
		if !strings.Contains(out, want) {
			t.Fatalf("access log missing %q: %s", want, out)
		}
	}
	if got := testutil.CollectAndCount(m.HTTPRequests); got != 2 {
		t.Fatalf("expected 2 request series, got %d", got)
	}
}
