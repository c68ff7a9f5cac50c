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

package calc

import (
	"slices"

	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/spec"
)

// MinLineRun 線獎最少連線數
const MinLineRun = 3

// LineEvaluator 單線算分（左到右，wild 代任）。
type LineEvaluator struct {
	Reels         int
	LineCount     int     // 線表數量
	LineTableFlat []int16 // 平坦化的線表，每條線佔 Reels 格

	wildMask    SymbolMask // Wild符號遮罩
	specialMask SymbolMask // scatter / bonus 遮罩，不可代任也不可起手
	symbols     *spec.SymbolSetting
}

// NewLineEvaluator 建立單線算分器。
func NewLineEvaluator(ss *spec.ScreenSetting, sym *spec.SymbolSetting, ls *spec.LineSetting) *LineEvaluator {
	le := &LineEvaluator{
		Reels:         ss.Reels,
		LineCount:     ls.LineCount,
		LineTableFlat: ls.LineTableFlat,
		symbols:       sym,
	}
	for i, k := range sym.Kinds {
		if k == spec.KindWild {
			le.wildMask |= 1 << uint(i)
		}
		if k.IsSpecial() {
			le.specialMask |= 1 << uint(i)
		}
	}
	return le
}

// Eval 計算第 lineIdx 條線，沒有得分回傳 false。
//
// 規則：
//   - 首格為起手；起手是 scatter / bonus 則本線不計分。
//   - 本格等於已決定的起手、或本格是 wild、或起手仍是 wild 且本格不是特殊圖標，連線延長。
//     起手仍是 wild 時遇到的第一個非 wild 圖標，成為本線的起手。
//   - 第一個斷點即停，連線數 < 3 或查表為 0 不計分。
//   - 全 wild 連線以 wild 自己的賠率計分。
func (le *LineEvaluator) Eval(board []int16, lineIdx int) (buf.Win, bool) {
	reels := le.Reels
	start := lineIdx * reels
	line := le.LineTableFlat[start : start+reels] // 固定長度，BCE 友善

	anchor := board[line[0]]
	if maskHas(le.specialMask, anchor) {
		return buf.Win{}, false
	}
	wild, special := le.wildMask, le.specialMask

	run := 1
	for pos := 1; pos < reels; pos++ {
		s := board[line[pos]]
		if s == anchor || maskHas(wild, s) {
			run++
			continue
		}
		if maskHas(wild, anchor) && !maskHas(special, s) {
			anchor = s
			run++
			continue
		}
		break
	}

	if run < MinLineRun {
		return buf.Win{}, false
	}
	pay := le.symbols.Pay(anchor, run)
	if pay <= 0 {
		return buf.Win{}, false
	}
	return buf.Win{
		Symbol:     anchor,
		SymbolName: le.symbols.Name(anchor),
		Count:      run,
		Multiplier: pay,
		Positions:  slices.Clone(line[:run]),
		Payline:    lineIdx,
	}, true
}
