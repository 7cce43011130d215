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
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/qshuffle"
)

type HealthResponse struct {
	Status        string          `json:"status"`
	Message       string          `json:"message"`
	SamplerStatus string          `json:"sampler_status"`
	Service       qshuffle.Status `json:"service"`
}

// Health 處理 GET /health：Service 關閉時回 503。
func Health(svc *qshuffle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := svc.Status()
		resp := HealthResponse{
			Status:        "healthy",
			Message:       "shuffle sampler is running",
			SamplerStatus: st.State,
			Service:       st,
		}
		code := http.StatusOK
		if st.State == "closed" {
			resp.Status = "unhealthy"
			resp.Message = "shuffle sampler is shut down"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
