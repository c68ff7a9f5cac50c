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

// Package app 管理長期運行元件的啟動與優雅關閉。
package app

import (
	"context"
	"sync"
)

// Component 可啟動 / 可關閉的長生命週期元件。
// Run 為阻塞呼叫直到元件停止；Shutdown 要求優雅關閉並尊重 ctx。
type Component interface {
	Run() error
	Shutdown(ctx context.Context) error
}

// closer 只在關閉時做事的元件，例如釋放 Engine 的機台池。
type closer struct {
	fn   func()
	done chan struct{}
	once sync.Once
}

// Closer 把關閉函數包成 Component：Run 阻塞到 Shutdown 被呼叫。
func Closer(fn func()) Component {
	return &closer{fn: fn, done: make(chan struct{})}
}

func (c *closer) Run() error {
	<-c.done
	return nil
}

func (c *closer) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		if c.fn != nil {
			c.fn()
		}
		close(c.done)
	})
	return nil
}
