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
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/sdk/calc"
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/sdk/gen"
	"github.com/zintix-labs/reelmath/spec"
)

// Machine 一台可以 Spin 的機台：抽盤面 -> 逐線算分 -> 分散 -> bonus 判定 -> 封頂。
//
// 並發語意：
//   - Machine 持有自己的 RNG 與盤面緩衝，同一台 Machine 不應被多 goroutine 同時 Spin。
//   - 併發模擬由 Simulator 為每個 worker 建立一台 Machine；服務端由 MachinePool 借出 / 歸還。
//
// 回傳的 SpinResult 是全新配置的物件，Spin 之後可以直接保留。
type Machine struct {
	gameName string                // 遊戲名稱（主要用於觀測/日誌）
	gs       *spec.GameSetting     // 唯讀設定
	core     *core.Core            // RNG 核心
	sampler  *gen.BoardSampler     // 盤面抽樣
	calc     *calc.BoardCalculator // 算分器（唯讀，可共用）
	criteria string
	initseed int64 // 出生 seed（便於追溯；完整重現請用 SnapshotCore/RestoreCore）
}

// newMachine 以 crypto/rand 產生的 seed 建立 Machine，供對外服務使用。
func newMachine(gs *spec.GameSetting, bc *calc.BoardCalculator, cf core.PRNGFactory) (*Machine, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return newMachineWithSeed(gs, bc, cf, seed)
}

// newMachineWithSeed 以指定 seed 建立 Machine。
// 同一份 GameSetting + 同一個 seed 會得到一致的盤面序列。
func newMachineWithSeed(gs *spec.GameSetting, bc *calc.BoardCalculator, cf core.PRNGFactory, seed int64) (*Machine, error) {
	if gs == nil || bc == nil || cf == nil {
		return nil, errs.NewFatal("machine requires game setting, calculator and prng factory")
	}
	c := core.New(cf.New(seed))
	return &Machine{
		gameName: gs.GameName,
		gs:       gs,
		core:     c,
		sampler:  gen.NewBoardSampler(c, &gs.ScreenSetting, &gs.StripSetting),
		calc:     bc,
		criteria: gs.Simulation.Criteria,
		initseed: seed,
	}, nil
}

// Spin 執行一次旋轉並以 id 標記結果。
func (m *Machine) Spin(id int) *buf.SpinResult {
	board := m.sampler.Sample()
	return m.evaluate(id, board)
}

// SpinBoard 以指定盤面算分（回放 / 測試用），不消耗亂數。
func (m *Machine) SpinBoard(id int, board []int16) (*buf.SpinResult, error) {
	if len(board) != m.calc.BoardSize {
		return nil, errs.Warnf("board size %d, want %d", len(board), m.calc.BoardSize)
	}
	for _, s := range board {
		if s < 0 || int(s) >= m.gs.SymbolSetting.SymbolCount {
			return nil, errs.Warnf("unknown symbol id %d on board", s)
		}
	}
	return m.evaluate(id, board), nil
}

func (m *Machine) evaluate(id int, board []int16) *buf.SpinResult {
	sr := buf.NewSpinResult(id, board, m.criteria)
	m.calc.CalcBoard(sr.Board, sr)
	sr.BonusTriggered = m.calc.BonusCount(sr.Board) >= m.gs.BonusTriggerCount
	sr.Cap(m.gs.MaxWinMultiplier)
	return sr
}

// InitSeed 出生 seed
func (m *Machine) InitSeed() int64 {
	return m.initseed
}

// SnapshotCore 取得 Core 狀態暫存
func (m *Machine) SnapshotCore() ([]byte, error) {
	return m.core.Snapshot()
}

// RestoreCore 恢復 Core 狀態暫存
func (m *Machine) RestoreCore(src []byte) error {
	return m.core.Restore(src)
}
