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

import (
	"math"

	"github.com/zintix-labs/reelmath/errs"
)

// BetSetting 押注上下限（含端點）
type BetSetting struct {
	MinBet float64 `yaml:"min_bet" json:"min_bet"`
	MaxBet float64 `yaml:"max_bet" json:"max_bet"`
}

func (bs BetSetting) valid() error {
	if !(bs.MinBet > 0) || math.IsInf(bs.MinBet, 0) {
		return errs.Configf("min_bet must be > 0, got %v", bs.MinBet)
	}
	if !(bs.MaxBet >= bs.MinBet) || math.IsInf(bs.MaxBet, 0) {
		return errs.Configf("max_bet must be >= min_bet, got min=%v max=%v", bs.MinBet, bs.MaxBet)
	}
	return nil
}

// CheckBet 檢查押注是否在 [MinBet, MaxBet]，失敗回傳 KindInvalidBet。
func (bs BetSetting) CheckBet(bet float64) error {
	if math.IsNaN(bet) || bet < bs.MinBet || bet > bs.MaxBet {
		return errs.InvalidBetf("bet %v out of range [%v, %v]", bet, bs.MinBet, bs.MaxBet)
	}
	return nil
}
