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
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/spec"
)

// SymbolMask 使用 uint64 以支援最多 64 種不同的圖標
// 使用方式為將圖標的索引位置對應到遮罩的位元位置
// 例如 : 若圖標索引為 3，則對應的遮罩位元為 1 << 3
// 判斷圖標是否在遮罩中，可以使用位元運算 (mask >> index) & 1 == 1
type SymbolMask = uint64

func maskHas(m SymbolMask, s int16) bool {
	return s >= 0 && (m>>uint(s))&1 == 1
}

// BoardCalculator 負責根據盤面計算輸贏結果：先逐線算線獎，再算一次分散。
//
// 內部只持有唯讀的預處理資料，可以在多個 goroutine 之間共用。
type BoardCalculator struct {
	Line    *LineEvaluator
	Scatter *ScatterEvaluator

	Reels     int // 快取軸數
	Rows      int // 快取列數
	BoardSize int // 快取盤面大小

	symbols *spec.SymbolSetting
	bonus   int16
}

// NewBoardCalculator 建立算分器，gs 必須是已初始化的設定。
func NewBoardCalculator(gs *spec.GameSetting) *BoardCalculator {
	return &BoardCalculator{
		Line:      NewLineEvaluator(&gs.ScreenSetting, &gs.SymbolSetting, &gs.LineSetting),
		Scatter:   NewScatterEvaluator(&gs.SymbolSetting),
		Reels:     gs.ScreenSetting.Reels,
		Rows:      gs.ScreenSetting.Rows,
		BoardSize: gs.ScreenSetting.ScreenSize,
		symbols:   &gs.SymbolSetting,
		bonus:     gs.SymbolSetting.Bonus,
	}
}

// CalcBoard 計算盤面並把得分依序寫入 sr：線獎依線號順序，最後是分散。
func (bc *BoardCalculator) CalcBoard(board []int16, sr *buf.SpinResult) {
	if len(board) != bc.BoardSize {
		panic("board size not match")
	}
	for i := 0; i < bc.Line.LineCount; i++ {
		if w, ok := bc.Line.Eval(board, i); ok {
			sr.AddWin(w)
		}
	}
	if w, ok := bc.Scatter.Eval(board); ok {
		sr.AddWin(w)
	}
}

// BonusCount 盤面上 bonus 圖標數量，未設定 bonus 時回 0。
func (bc *BoardCalculator) BonusCount(board []int16) int {
	return CountSymbol(board, bc.bonus)
}

// SymbolName 依 id 取名稱
func (bc *BoardCalculator) SymbolName(id int16) string {
	return bc.symbols.Name(id)
}

// CountSymbol 計算 sym 在盤面上出現的次數，sym 為 NoSymbol 時回 0。
func CountSymbol(board []int16, sym int16) int {
	if sym == spec.NoSymbol {
		return 0
	}
	n := 0
	for _, s := range board {
		if s == sym {
			n++
		}
	}
	return n
}
