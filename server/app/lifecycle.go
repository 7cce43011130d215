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

package app

import "context"

// Component 是 App 管理的生命週期單位。
//   - Run() 應該是阻塞呼叫，直到元件停止為止（正常或錯誤）。
//   - Shutdown(ctx) 用於要求優雅關閉；實作方應該尊重 ctx deadline/cancel。
//
// 典型實例：HTTP Server、非同步 log dispatcher、shuffle Service。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// OnShutdown 把一個只需在關閉時執行的動作包成 Component。
// Run 會阻塞到 Shutdown 被呼叫為止。
func OnShutdown(fn func()) Component {
	return &hook{fn: fn, stop: make(chan struct{})}
}

type hook struct {
	fn   func()
	stop chan struct{}
}

func (h *hook) Run() error {
	<-h.stop
	return nil
}

func (h *hook) Shutdown(context.Context) error {
	select {
	case <-h.stop:
		return nil
	default:
	}
	close(h.stop)
	if h.fn != nil {
		h.fn()
	}
	return nil
}
