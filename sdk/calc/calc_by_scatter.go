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

// MinScatterCount 分散最少顆數
const MinScatterCount = 3

// ScatterEvaluator 全盤分散算分，與線表無關。
type ScatterEvaluator struct {
	scatter int16
	symbols *spec.SymbolSetting
}

// NewScatterEvaluator 建立分散算分器，未設定 scatter 時 Eval 永遠回 false。
func NewScatterEvaluator(sym *spec.SymbolSetting) *ScatterEvaluator {
	return &ScatterEvaluator{scatter: sym.Scatter, symbols: sym}
}

// Eval 數全盤 scatter，達 3 顆且賠率表有定義時回傳一筆得分（含全部 scatter 位置）。
func (se *ScatterEvaluator) Eval(board []int16) (buf.Win, bool) {
	if se.scatter == spec.NoSymbol {
		return buf.Win{}, false
	}
	count := CountSymbol(board, se.scatter)
	if count < MinScatterCount {
		return buf.Win{}, false
	}
	pay := se.symbols.Pay(se.scatter, count)
	if pay <= 0 {
		return buf.Win{}, false
	}
	pos := make([]int16, 0, count)
	for i, s := range board {
		if s == se.scatter {
			pos = append(pos, int16(i))
		}
	}
	return buf.Win{
		Symbol:     se.scatter,
		SymbolName: se.symbols.Name(se.scatter),
		Count:      count,
		Multiplier: pay,
		Positions:  pos,
		Payline:    buf.ScatterPayline,
	}, true
}
