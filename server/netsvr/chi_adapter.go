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

package netsvr

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultAddr 沿用原後端的 port。
const DefaultAddr string = ":8000"

// Options 為 http.Server 的可調參數，零值使用預設。
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// NotFound / MethodNotAllowed 為選填的路由錯誤 handler。
	NotFound         http.HandlerFunc
	MethodNotAllowed http.HandlerFunc
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 10 * time.Second
	}
	if o.WriteTimeout <= 0 {
		// 大 N 的模擬可能接近數十秒，寫出期限要比 shuffle timeout 寬。
		o.WriteTimeout = 60 * time.Second
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = 120 * time.Second
	}
	return o
}

// ChiAdapter 以 chi (基於標準庫 net/http) 實作 NetSvr。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
	addr   string
}

// NewChiServer 依 Options 建立 ChiAdapter。
func NewChiServer(opts Options) *ChiAdapter {
	opts = opts.withDefaults()
	cr := chi.NewRouter()
	if opts.NotFound != nil {
		cr.NotFound(opts.NotFound)
	}
	if opts.MethodNotAllowed != nil {
		cr.MethodNotAllowed(opts.MethodNotAllowed)
	}
	return &ChiAdapter{
		router: cr,
		server: &http.Server{
			Addr:         opts.Addr,
			Handler:      cr,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			IdleTimeout:  opts.IdleTimeout,
		},
		addr: opts.Addr,
	}
}

// NewChiServerDefault 建立監聽 DefaultAddr 的 ChiAdapter。
func NewChiServerDefault() *ChiAdapter {
	return NewChiServer(Options{})
}

func (c *ChiAdapter) Ready() bool {
	return (c != nil) && (c.router != nil) && (c.server != nil) &&
		strings.Contains(c.addr, ":") && (c.server.Handler == c.router)
}

// Run 阻塞直到 server 停止；Shutdown 造成的 ErrServerClosed 視為正常結束。
func (c *ChiAdapter) Run() error {
	err := c.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) {
	c.router.Use(mw)
}

func (c *ChiAdapter) Get(path string, h http.HandlerFunc) {
	c.router.Get(path, h)
}

func (c *ChiAdapter) Post(path string, h http.HandlerFunc) {
	c.router.Post(path, h)
}

func (c *ChiAdapter) Handle(path string, h http.Handler) {
	c.router.Handle(path, h)
}

func (c *ChiAdapter) Group(path string, fn func(subRouter NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

func (c *ChiAdapter) Address() string {
	return c.addr
}

func (c *ChiAdapter) Handler() http.Handler {
	return c.router
}
