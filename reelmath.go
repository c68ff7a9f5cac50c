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

// Package reelmath 提供老虎機數學引擎的組裝入口與執行入口。
//
// Engine 把三個地基組裝在一起：
//  1. GameSetting：已驗證的遊戲設定（輪帶 / 賠率表 / 線表 / 押注範圍 / 目標 RTP）。
//  2. BoardCalculator：由設定預處理出的唯讀算分器，所有機台共用。
//  3. PRNGFactory：亂數核心工廠，保證同一個 seed 可重現。
//
// 典型使用情境：
//   - 模擬器：NewSimulator 以 master seed 平行跑 N 轉，產出依 id 排序的結果，交給 optimizer / stats / publish。
//   - 後端服務：EvaluateSpin 驗證押注後從機台池借一台機台旋轉一次，回傳未乘押注的結果與事件。
package reelmath

import (
	"context"
	"crypto/rand"
	"math"
	"math/big"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/calc"
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/spec"
)

// DefaultPoolSize 服務端機台池預設大小
const DefaultPoolSize = 8

// Engine 組裝器與執行入口。
//
// 除了機台池之外 Engine 不持有任何可變狀態，可以在多個 goroutine 之間共用。
type Engine struct {
	gs       *spec.GameSetting
	bc       *calc.BoardCalculator
	cf       core.PRNGFactory
	poolSize int
	seed     int64
	pool     *MachinePool
}

// Option 調整 Engine 建立參數
type Option func(*Engine)

// WithPRNG 指定亂數核心工廠（預設 PCG64）
func WithPRNG(cf core.PRNGFactory) Option {
	return func(e *Engine) {
		if cf != nil {
			e.cf = cf
		}
	}
}

// WithPoolSize 指定機台池大小
func WithPoolSize(n int) Option {
	return func(e *Engine) {
		e.poolSize = n
	}
}

// WithSeed 指定機台池的 master seed（預設由 crypto/rand 產生）
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New 建立 Engine。gs 必須是透過 spec.GetGameSettingByYAML / JSON 取得的已驗證設定。
func New(gs *spec.GameSetting, opts ...Option) (*Engine, error) {
	if gs == nil {
		return nil, errs.Configf("game setting required")
	}
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		gs:       gs,
		cf:       core.Default(),
		poolSize: DefaultPoolSize,
		seed:     seed,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.bc = calc.NewBoardCalculator(gs)
	e.pool, err = newMachinePool(e.poolSize, gs, e.bc, e.cf, e.seed)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// NewByYAML 解析 YAML 設定後建立 Engine。
func NewByYAML(raw []byte, opts ...Option) (*Engine, error) {
	gs, err := spec.GetGameSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return New(gs, opts...)
}

// Setting 回傳唯讀設定
func (e *Engine) Setting() *spec.GameSetting {
	return e.gs
}

// NewMachine 以隨機 seed 建立獨立機台
func (e *Engine) NewMachine() (*Machine, error) {
	return newMachine(e.gs, e.bc, e.cf)
}

// NewMachineWithSeed 以指定 seed 建立獨立機台
func (e *Engine) NewMachineWithSeed(seed int64) (*Machine, error) {
	return newMachineWithSeed(e.gs, e.bc, e.cf, seed)
}

// NewSimulator 以隨機 master seed 建立批次模擬器
func (e *Engine) NewSimulator() (*Simulator, error) {
	seed, err := cryptoSeed()
	if err != nil {
		return nil, err
	}
	return e.NewSimulatorWithSeed(seed), nil
}

// NewSimulatorWithSeed 以指定 master seed 建立批次模擬器
func (e *Engine) NewSimulatorWithSeed(seed int64) *Simulator {
	return newSimulatorWithSeed(e.gs, e.bc, e.cf, seed)
}

// SpinOutcome 單次旋轉的對外結果，所有金額皆為未乘押注的倍數。
type SpinOutcome struct {
	PayoutMultiplier float64  `json:"payoutMultiplier"`
	Wins             []Win    `json:"wins"`
	Events           []Event  `json:"events"`
	Criteria         string   `json:"criteria"`
	BonusTriggered   bool     `json:"bonusTriggered"`
	Board            []string `json:"board"`
}

// Win 對外的得分細項
type Win struct {
	Symbol     string  `json:"symbol"`
	Count      int     `json:"count"`
	Multiplier float64 `json:"multiplier"`
	Positions  []int16 `json:"positions"`
	Payline    int     `json:"payline"`
}

// EvaluateSpin 驗證押注後旋轉一次。
//
// bet 只用於檢查範圍；乘上押注與餘額處理由呼叫端負責。
// 押注不合法時回傳 KindInvalidBet（Warn），不會借出機台也不會推進任何亂數。
func (e *Engine) EvaluateSpin(ctx context.Context, bet float64) (SpinOutcome, error) {
	if err := e.gs.BetSetting.CheckBet(bet); err != nil {
		return SpinOutcome{}, err
	}
	sr, err := e.pool.Spin(ctx, 1)
	if err != nil {
		return SpinOutcome{}, err
	}
	sym := &e.gs.SymbolSetting
	out := SpinOutcome{
		PayoutMultiplier: sr.Payout,
		Wins:             make([]Win, len(sr.Wins)),
		Events:           BuildEvents(sr, sym),
		Criteria:         sr.Criteria,
		BonusTriggered:   sr.BonusTriggered,
		Board:            make([]string, len(sr.Board)),
	}
	for i, w := range sr.Wins {
		out.Wins[i] = Win{
			Symbol:     w.SymbolName,
			Count:      w.Count,
			Multiplier: w.Multiplier,
			Positions:  w.Positions,
			Payline:    w.Payline,
		}
	}
	for i, s := range sr.Board {
		out.Board[i] = sym.Name(s)
	}
	return out, nil
}

// PoolMetrics 機台池觀測快照
func (e *Engine) PoolMetrics() MachinePoolMetrics {
	return e.pool.Metrics()
}

// Close 關閉機台池，之後 EvaluateSpin 一律回 Fatal。
func (e *Engine) Close() {
	e.pool.Close()
}

func cryptoSeed() (int64, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return seed.Int64(), nil
}
