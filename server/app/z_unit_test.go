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

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failing struct{ err error }

func (f failing) Run() error                     { return f.err }
func (f failing) Shutdown(context.Context) error { return nil }

func TestRunContextCancelClosesAll(t *testing.T) {
	closed := make(chan struct{})
	a := NewWith(Closer(func() { close(closed) }))
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	if err := a.RunContext(ctx); err != nil {
		t.Fatalf("cancel should stop cleanly, got %v", err)
	}
	select {
	case <-closed:
	default:
		t.Fatalf("closer was not called")
	}
}

func TestRunContextComponentError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	a := NewWith(failing{err: boom}, Closer(func() { calls++ }))
	if err := a.RunContext(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("want boom got %v", err)
	}
	if calls != 1 {
		t.Fatalf("closer calls = %d", calls)
	}
}
