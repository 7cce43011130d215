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

// Package server 組裝並啟動 qshuffle 的 HTTP 服務。
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/qshuffle/errs"
	"github.com/zintix-labs/qshuffle/server/api"
	"github.com/zintix-labs/qshuffle/server/app"
	"github.com/zintix-labs/qshuffle/server/httperr"
	"github.com/zintix-labs/qshuffle/server/netsvr"
	"github.com/zintix-labs/qshuffle/server/svrcfg"
)

// NewServer 驗證設定、建立 chi server 並註冊所有路由。
func NewServer(sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, error) {
	if sCfg == nil {
		return nil, errs.NewFatal("server config is required")
	}
	if err := sCfg.Valid(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(netsvr.Options{
		Addr:             sCfg.Addr,
		NotFound:         httperr.NotFound,
		MethodNotAllowed: httperr.MethodNotAllowed,
	})
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		return nil, err
	}
	return svr, nil
}

// Run 是預設的啟動入口：阻塞直到收到終止信號或 ctx 結束。
//
// 關閉順序為 HTTP server -> shuffle Service -> async logger，
// 確保最後幾筆 access log 與 shuffle log 都被寫出。
func Run(ctx context.Context, sCfg *svrcfg.SvrCfg) error {
	svr, err := NewServer(sCfg)
	if err != nil {
		// logger 可能尚未可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(ctx, sCfg, svr)
}

// RunWithSvr 與 Run 相同，但允許注入已註冊好路由的 NetSvr。
func RunWithSvr(ctx context.Context, sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		return errs.NewFatal("default server is not ready")
	}

	a := app.New()
	a.Log = sCfg.Log
	if sCfg.ShutdownTimeout > 0 {
		a.ShutdownTimeout = sCfg.ShutdownTimeout
	}
	a.Register(app.OnShutdown(sCfg.Async.Close))
	a.Register(app.OnShutdown(sCfg.Service.Close))
	a.Register(svr)

	sCfg.Log.Info("[qshuffle] listening",
		slog.String("addr", svr.Address()),
		slog.Int("workers", sCfg.Workers),
		slog.Duration("timeout", sCfg.Timeout),
	)
	if err := a.RunContext(ctx); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
