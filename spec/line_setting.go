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

package spec

import "github.com/zintix-labs/reelmath/errs"

// LineSetting 線表設定。
//
// 每條線是一串盤面位置，長度必須等於軸數，且第 i 個位置必須落在第 i 軸上。
type LineSetting struct {
	Paylines      [][]int `yaml:"paylines" json:"paylines"`
	LineCount     int     `yaml:"-"        json:"-"`
	LineTableFlat []int16 `yaml:"-"        json:"-"` // 平坦化的線表，每條線佔 Reels 格
	initFlag      bool
}

func (ls *LineSetting) Init(ss *ScreenSetting) error {
	if ls.initFlag {
		return nil
	}
	if len(ls.Paylines) == 0 {
		return errs.Configf("paylines is empty")
	}
	reels, rows := ss.Reels, ss.Rows
	ls.LineTableFlat = make([]int16, 0, len(ls.Paylines)*reels)
	for i, line := range ls.Paylines {
		if len(line) != reels {
			return errs.Configf("payline %d has %d positions, want %d", i, len(line), reels)
		}
		for reel, pos := range line {
			if pos < 0 || pos >= ss.ScreenSize {
				return errs.Configf("payline %d position %d out of board range", i, pos)
			}
			if pos/rows != reel {
				return errs.Configf("payline %d position %d is not on reel %d", i, pos, reel)
			}
			ls.LineTableFlat = append(ls.LineTableFlat, int16(pos))
		}
	}
	ls.LineCount = len(ls.Paylines)
	ls.initFlag = true
	return nil
}

// Line 回傳第 i 條線的位置切片（唯讀）。
func (ls *LineSetting) Line(i, reels int) []int16 {
	start := i * reels
	return ls.LineTableFlat[start : start+reels : start+reels]
}
