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

package reelmath

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/sdk/calc"
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/spec"
)

// MachinePool 管理服務端使用的機台實例。
// 它透過兩個通道管理機台生命週期：
//  1. pool：健康且可用的機台，供 Spin() 借出 / 歸還。
//  2. broken：在運作過程中 panic 的壞機台，送往此通道以便後續檢查或丟棄。
//
// 若某台機台於 Spin 期間 panic，該機台會被送至 broken，並立即補上一台新機以維持容量。
type MachinePool struct {
	gameName      string
	gs            *spec.GameSetting
	bc            *calc.BoardCalculator
	cf            core.PRNGFactory
	seedMaker     *seedMaker
	pool          chan *Machine // 可用機台的通道，用於取得和歸還機台
	broken        chan *Machine // 壞掉機台的通道
	done          chan struct{} // 關閉訊號：關閉後不再允許借機/歸還/補機
	closeOnce     sync.Once     // 確保 Close() 只執行一次
	poolsize      int           // 好機台
	rebuild       atomic.Int32  // 重起機台次數
	inflight      atomic.Int32  // 使用中
	panics        atomic.Int32  // panic 次數
	closeReason   atomic.Value  // string: 關閉原因
	closeInflight atomic.Int32  // 關閉當下 inflight（快照）
}

// newMachinePool 建立機台池，n 至少為 1，預先建立 n 台機台放入 pool。
func newMachinePool(n int, gs *spec.GameSetting, bc *calc.BoardCalculator, cf core.PRNGFactory, seed int64) (*MachinePool, error) {
	n = max(1, n) // 確保機台數量至少為1
	p := &MachinePool{
		gameName:  gs.GameName,
		gs:        gs,
		bc:        bc,
		cf:        cf,
		seedMaker: newSeedMaker(seed),
		pool:      make(chan *Machine, n),  // 建立有緩衝的機台通道，容量為 n
		broken:    make(chan *Machine, 16), // 壞機台 backlog 上限
		done:      make(chan struct{}),
		poolsize:  n,
	}
	p.closeReason.Store("")
	p.closeInflight.Store(-1)

	// 上架機台
	for i := 0; i < n; i++ {
		m, err := newMachineWithSeed(gs, bc, cf, p.seedMaker.next())
		if err != nil {
			return nil, err
		}
		p.pool <- m
	}
	return p, nil
}

// Close 進入關閉狀態，之後所有 Spin() 直接回 error。
func (p *MachinePool) Close() {
	p.closeWithReason("closed")
}

// Closed 回報池是否已進入關閉狀態。
func (p *MachinePool) Closed() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *MachinePool) closeWithReason(reason string) {
	p.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		p.closeReason.Store(reason)
		p.closeInflight.Store(p.inflight.Load())
		close(p.done)
	})
}

// Spin 借一台機台旋轉一次，結束後歸還；panic 會被轉成 Fatal error 並補機。
func (p *MachinePool) Spin(ctx context.Context, id int) (sr *buf.SpinResult, err error) {
	err = p.with(ctx, func(m *Machine) error {
		sr = m.Spin(id)
		return nil
	})
	return sr, err
}

func (p *MachinePool) with(ctx context.Context, fn func(m *Machine) error) (err error) {
	var m *Machine
	select {
	case <-p.done:
		return errs.NewFatal("machine pool closed: " + p.ClosedReason())
	case <-ctx.Done():
		return errs.NewWarn("spin canceled/timeout: " + ctx.Err().Error())
	case m = <-p.pool:
		p.inflight.Add(1)
	}

	// 理論上不會拿到 nil；若發生代表 pool 有嚴重問題。
	if m == nil {
		return errs.NewFatal("machine pool got nil machine")
	}

	defer func() {
		p.inflight.Add(-1)
		isPanic := false
		if r := recover(); r != nil {
			isPanic = true
			p.panics.Add(1)
			err = errs.NewFatal(fmt.Sprintf("machine %s panic : %v", m.gameName, r))
		}

		// 若已關閉，直接丟棄機台（不歸還、不補機）
		if p.Closed() {
			return
		}

		if isPanic {
			select {
			case p.broken <- m:
			default:
				// broken 通道滿代表系統正在連續故障：進入關閉狀態讓上層接管
				p.closeWithReason("overwhelmed_by_failures")
				return
			}
			nm, buildErr := newMachineWithSeed(p.gs, p.bc, p.cf, p.seedMaker.next())
			p.rebuild.Add(1)
			if buildErr != nil {
				err = errs.NewFatal(fmt.Sprintf("machine %s can not build", p.gameName))
				p.closeWithReason("rebuild_failed")
				return
			}
			m = nm
		}

		select {
		case <-p.done:
		case p.pool <- m:
		}
	}()

	return fn(m)
}

func (p *MachinePool) PoolSize() int {
	return p.poolsize
}

func (p *MachinePool) Inflight() int {
	return int(p.inflight.Load())
}

func (p *MachinePool) ClosedReason() string {
	if v := p.closeReason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MachinePoolMetrics 拉取式觀測快照。
// Available / BrokenBacklog 來自 len(chan)，高併發下為近似值。
type MachinePoolMetrics struct {
	GameName      string `json:"game_name"`
	PoolSize      int    `json:"pool_size"`
	Available     int    `json:"available"`
	Inflight      int    `json:"inflight"`
	BrokenBacklog int    `json:"broken_backlog"`
	Rebuild       int    `json:"rebuild"`
	Panics        int    `json:"panics"`
	Closed        bool   `json:"closed"`
	CloseReason   string `json:"close_reason"`
	CloseInflight int    `json:"close_inflight"` // -1 表示尚未關閉
}

func (p *MachinePool) Metrics() MachinePoolMetrics {
	return MachinePoolMetrics{
		GameName:      p.gameName,
		PoolSize:      p.poolsize,
		Available:     len(p.pool),
		Inflight:      int(p.inflight.Load()),
		BrokenBacklog: len(p.broken),
		Rebuild:       int(p.rebuild.Load()),
		Panics:        int(p.panics.Load()),
		Closed:        p.Closed(),
		CloseReason:   p.ClosedReason(),
		CloseInflight: int(p.closeInflight.Load()),
	}
}
