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

// ScreenSetting 盤面尺寸。
//
// 盤面以「軸優先」(column-major) 攤平：index = reel*rows + row。
type ScreenSetting struct {
	Reels      int `yaml:"reels"  json:"reels"`
	Rows       int `yaml:"rows"   json:"rows"`
	ScreenSize int `yaml:"-"      json:"-"`
	initFlag   bool
}

func (ss *ScreenSetting) Init() error {
	// 檢查初始化旗標
	if ss.initFlag {
		return nil
	}
	if ss.Reels <= 0 || ss.Rows <= 0 {
		return errs.Configf("invalid screen dimensions: reels=%d rows=%d", ss.Reels, ss.Rows)
	}
	ss.ScreenSize = ss.Reels * ss.Rows
	ss.initFlag = true
	return nil
}

// Index 回傳 (reel,row) 在攤平盤面上的位置。
func (ss *ScreenSetting) Index(reel, row int) int {
	return reel*ss.Rows + row
}
