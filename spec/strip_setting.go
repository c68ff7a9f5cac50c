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

// StripSetting 每軸一條輪帶，以圖標名稱撰寫，初始化後轉成圖標 id。
type StripSetting struct {
	ReelStrips [][]string `yaml:"reel_strips" json:"reel_strips"`
	Strips     [][]int16  `yaml:"-"           json:"-"`
	initFlag   bool
}

func (st *StripSetting) Init(ss *ScreenSetting, sym *SymbolSetting) error {
	if st.initFlag {
		return nil
	}
	if len(st.ReelStrips) != ss.Reels {
		return errs.Configf("reel_strips has %d strips, want %d", len(st.ReelStrips), ss.Reels)
	}
	st.Strips = make([][]int16, ss.Reels)
	for r, names := range st.ReelStrips {
		if len(names) < ss.Rows {
			return errs.Configf("reel %d strip length %d shorter than rows %d", r, len(names), ss.Rows)
		}
		strip := make([]int16, len(names))
		for i, name := range names {
			id, ok := sym.ID(name)
			if !ok {
				return errs.Configf("reel %d position %d has unknown symbol %q", r, i, name)
			}
			strip[i] = id
		}
		st.Strips[r] = strip
	}
	st.initFlag = true
	return nil
}
