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

package buf

import "slices"

// ScatterPayline 分散圖標得分的線號
const ScatterPayline = -1

const capWinsGrow int = 8

// Win 單筆得分細項（線獎或分散）。
type Win struct {
	Symbol     int16   `json:"symbol_id"`
	SymbolName string  `json:"symbol"`
	Count      int     `json:"kind"`      // 連線長度 / 分散顆數
	Multiplier float64 `json:"win"`       // 未乘押注的倍數
	Positions  []int16 `json:"positions"` // 實際構成得分的盤面位置
	Payline    int     `json:"payline"`   // -1 代表分散
}

// IsScatter 是否為分散得分
func (w *Win) IsScatter() bool {
	return w.Payline == ScatterPayline
}

// SpinResult 單次旋轉的完整結果。
//
// 建立後視為唯讀：Board / Wins 都是該次旋轉獨有的切片，不與其他結果共用底層陣列。
type SpinResult struct {
	ID             int     `json:"id"`
	Board          []int16 `json:"board"`
	Wins           []Win   `json:"wins"`
	Payout         float64 `json:"payoutMultiplier"` // 封頂後總倍數
	RawPayout      float64 `json:"rawPayoutMultiplier"`
	BonusTriggered bool    `json:"bonusTriggered"`
	Capped         bool    `json:"capped"`
	Criteria       string  `json:"criteria"`
}

// NewSpinResult 以盤面建立結果，盤面會被複製一份。
func NewSpinResult(id int, board []int16, criteria string) *SpinResult {
	return &SpinResult{
		ID:       id,
		Board:    slices.Clone(board),
		Wins:     make([]Win, 0, capWinsGrow),
		Criteria: criteria,
	}
}

// AddWin 累積一筆得分
func (sr *SpinResult) AddWin(w Win) {
	sr.Wins = append(sr.Wins, w)
	sr.RawPayout += w.Multiplier
	sr.Payout = sr.RawPayout
}

// Cap 以 maxWin 封頂總倍數，細項倍數保持原樣。
func (sr *SpinResult) Cap(maxWin float64) {
	if maxWin > 0 && sr.RawPayout > maxWin {
		sr.Payout = maxWin
		sr.Capped = true
	}
}

// HasWin 是否有任何得分
func (sr *SpinResult) HasWin() bool {
	return len(sr.Wins) > 0
}

// LineWins 回傳線獎細項（不含分散）。
func (sr *SpinResult) LineWins() []Win {
	out := make([]Win, 0, len(sr.Wins))
	for _, w := range sr.Wins {
		if !w.IsScatter() {
			out = append(out, w)
		}
	}
	return out
}
