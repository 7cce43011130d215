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
	"net/http"

	"github.com/zintix-labs/qshuffle/server/app"
)

// NetSvr 是可以交給 app.App 管理的 HTTP server。
//   - 只暴露給最外層組裝使用，其他層只需面向 NetRouter。
//   - 若改用不同 http 框架，只要實作此介面即可。
type NetSvr interface {
	NetRouter
	app.Component

	Address() string
	// Handler 回傳完整的 root handler，供 httptest 使用。
	Handler() http.Handler
}

// NetRouter 定義純路由行為；Group 回呼只會拿到 NetRouter，看不到 Run/Shutdown。
type NetRouter interface {
	// middleware
	Use(middleware func(http.Handler) http.Handler)

	// 註冊路由
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Handle(path string, h http.Handler)

	// 群組路由
	Group(path string, fn func(NetRouter))
}
