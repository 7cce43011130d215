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

// Package api 註冊 qshuffle 的 HTTP 路由與 middleware。
package api

import (
	"github.com/zintix-labs/qshuffle/metrics"
	v1 "github.com/zintix-labs/qshuffle/server/api/v1"
	"github.com/zintix-labs/qshuffle/server/netsvr"
	"github.com/zintix-labs/qshuffle/server/netsvr/middleware"
	"github.com/zintix-labs/qshuffle/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與所有路由。sCfg 必須已通過 Valid。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg) // 1. 註冊 middleware
	registerOps(svr, sCfg)        // 2. health / metrics
	return registerShuffle(svr, sCfg)
}

// 外層先記錄與計數，recover 在壓縮之內，讓 panic 的 500 本文也被正確編碼。
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Metrics(sCfg.Metrics))
	svr.Use(middleware.Compression)
	svr.Use(middleware.Recover(sCfg.Log))
}

func registerOps(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Get("/health", v1.Health(sCfg.Service))
	svr.Handle("/metrics", metrics.Handler(sCfg.Metrics.Registry()))
}

func registerShuffle(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	h, err := v1.NewShuffleHandler(sCfg.Service)
	if err != nil {
		return err
	}
	svr.Group("/api", func(r netsvr.NetRouter) {
		r.Post("/shuffle", h.Shuffle)
	})
	return nil
}
