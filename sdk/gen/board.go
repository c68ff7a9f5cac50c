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

package gen

import (
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/spec"
)

// BoardSampler 保存依輪帶抽盤面所需的所有狀態。
// 會快取軸數、列數與輪帶，並重用輸出緩衝，避免熱路徑重複配置。
//
// 不可跨 goroutine 共用：每個 worker 持有自己的 BoardSampler 與亂數流。
type BoardSampler struct {
	core   *core.Core
	Reels  int
	Rows   int
	Strips [][]int16
	Board  []int16 // 盤面 Buffer（欄優先：reel*rows+row）
}

// NewBoardSampler 根據設定與核心亂數器建立抽樣器。
// 設定必須已經通過 spec 的初始化（輪帶長度 >= 列數）。
func NewBoardSampler(c *core.Core, ss *spec.ScreenSetting, st *spec.StripSetting) *BoardSampler {
	return &BoardSampler{
		core:   c,
		Reels:  ss.Reels,
		Rows:   ss.Rows,
		Strips: st.Strips,
		Board:  make([]int16, ss.Reels*ss.Rows),
	}
}

// Sample 抽盤面熱路徑函數。
//
// 每軸在 [0, len(strip)-rows] 之間均勻抽起點，取連續 rows 顆（以 len 取模環繞）。
// 回傳的切片為內部緩衝，下次 Sample 會被覆寫；需要保留請自行複製。
func (bs *BoardSampler) Sample() []int16 {
	rows := bs.Rows
	b := bs.Board
	_ = b[bs.Reels*rows-1] // BCE hint

	for reel := range bs.Reels {
		strip := bs.Strips[reel]
		off := bs.core.Offset(len(strip), rows)
		bs.fill(reel, off)
	}
	return b
}

// SampleAt 以指定起點組出盤面（回放 / 測試用），起點以輪帶長度取模。
func (bs *BoardSampler) SampleAt(offsets []int) []int16 {
	for reel := range bs.Reels {
		off := 0
		if reel < len(offsets) {
			off = offsets[reel]
		}
		n := len(bs.Strips[reel])
		bs.fill(reel, ((off%n)+n)%n)
	}
	return bs.Board
}

func (bs *BoardSampler) fill(reel, off int) {
	rows := bs.Rows
	strip := bs.Strips[reel]
	length := len(strip)
	base := reel * rows
	for row := range rows {
		bs.Board[base+row] = strip[(off+row)%length]
	}
}
