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
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// Timeouts http.Server 的逾時設定
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

// DefaultTimeouts 單次旋轉與重播都在毫秒級，寫入上限留給壓縮與慢速用戶端
var DefaultTimeouts = Timeouts{Read: 10 * time.Second, Write: 10 * time.Second, Idle: 120 * time.Second}

// ChiAdapter 以 chi 實作 NetSvr，handler 與 middleware 一律是 net/http 介面。
// Group 產生的子 adapter 沒有 server，只能註冊路由。
type ChiAdapter struct {
	router chi.Router
	server *http.Server
}

// NewChiServer 使用 DefaultTimeouts
func NewChiServer(addr string) *ChiAdapter {
	return NewChiServerWithTimeouts(addr, DefaultTimeouts)
}

func NewChiServerWithTimeouts(addr string, t Timeouts) *ChiAdapter {
	r := chi.NewRouter()
	return &ChiAdapter{
		router: r,
		server: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadTimeout:       t.Read,
			ReadHeaderTimeout: t.Read,
			WriteTimeout:      t.Write,
			IdleTimeout:       t.Idle,
		},
	}
}

// Ready 根 adapter 是否可啟動
func (c *ChiAdapter) Ready() bool {
	return c != nil && c.router != nil && c.server != nil &&
		strings.Contains(c.server.Addr, ":") && c.server.Handler == c.router
}

func (c *ChiAdapter) Run() error {
	return c.server.ListenAndServe()
}

func (c *ChiAdapter) Shutdown(ctx context.Context) error {
	return c.server.Shutdown(ctx)
}

func (c *ChiAdapter) Use(mw func(http.Handler) http.Handler) { c.router.Use(mw) }

func (c *ChiAdapter) Get(path string, h http.HandlerFunc)    { c.router.Get(path, h) }
func (c *ChiAdapter) Post(path string, h http.HandlerFunc)   { c.router.Post(path, h) }
func (c *ChiAdapter) Put(path string, h http.HandlerFunc)    { c.router.Put(path, h) }
func (c *ChiAdapter) Delete(path string, h http.HandlerFunc) { c.router.Delete(path, h) }

func (c *ChiAdapter) Group(path string, fn func(NetRouter)) {
	c.router.Route(path, func(r chi.Router) {
		fn(&ChiAdapter{router: r})
	})
}

// Address 監聽位址
func (c *ChiAdapter) Address() string {
	if c.server == nil {
		return ""
	}
	return c.server.Addr
}

// Handler 根路由，供 httptest 直接掛載
func (c *ChiAdapter) Handler() http.Handler {
	return c.router
}
