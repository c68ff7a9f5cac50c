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

const DefaultBonusTriggerCount = 3

// GameSetting 一款遊戲的完整靜態設定。
//
// 只透過 GetGameSettingByYAML / GetGameSettingByJSON 取得，
// 取得後已初始化並驗證完畢，可在多個 worker 間唯讀共享。
type GameSetting struct {
	GameName          string            `yaml:"game_name"           json:"game_name"`
	Version           string            `yaml:"version"             json:"version"`
	ScreenSetting     ScreenSetting     `yaml:"screen_setting"      json:"screen_setting"`
	SymbolSetting     SymbolSetting     `yaml:"symbol_setting"      json:"symbol_setting"`
	LineSetting       LineSetting       `yaml:"line_setting"        json:"line_setting"`
	StripSetting      StripSetting      `yaml:"strip_setting"       json:"strip_setting"`
	BetSetting        BetSetting        `yaml:"bet_setting"         json:"bet_setting"`
	TargetRTP         float64           `yaml:"target_rtp"          json:"target_rtp"`
	MaxWinMultiplier  float64           `yaml:"max_win_multiplier"  json:"max_win_multiplier"` // 0 代表不封頂
	BonusTriggerCount int               `yaml:"bonus_trigger_count" json:"bonus_trigger_count"`
	Simulation        SimulationSetting `yaml:"simulation"          json:"simulation"`
	Optimizer         OptimizerSetting  `yaml:"optimizer"           json:"optimizer"`
}

func (gs *GameSetting) init() error {
	if gs.BonusTriggerCount == 0 {
		gs.BonusTriggerCount = DefaultBonusTriggerCount
	}
	if gs.Version == "" {
		gs.Version = "1.0"
	}
	if err := gs.ScreenSetting.Init(); err != nil {
		return err
	}
	if err := gs.SymbolSetting.Init(gs.ScreenSetting.ScreenSize); err != nil {
		return err
	}
	if err := gs.LineSetting.Init(&gs.ScreenSetting); err != nil {
		return err
	}
	if err := gs.StripSetting.Init(&gs.ScreenSetting, &gs.SymbolSetting); err != nil {
		return err
	}
	if err := gs.Simulation.init(); err != nil {
		return err
	}
	if err := gs.Optimizer.init(); err != nil {
		return err
	}
	return gs.valid()
}

func (gs *GameSetting) valid() error {
	if gs.GameName == "" {
		return errs.Configf("game_name is required")
	}
	if err := gs.BetSetting.valid(); err != nil {
		return err
	}
	if !(gs.TargetRTP > 0) || math.IsInf(gs.TargetRTP, 0) {
		return errs.Configf("game_name: %s err: target_rtp must be > 0, got %v", gs.GameName, gs.TargetRTP)
	}
	if gs.MaxWinMultiplier < 0 || math.IsNaN(gs.MaxWinMultiplier) || math.IsInf(gs.MaxWinMultiplier, 0) {
		return errs.Configf("game_name: %s err: max_win_multiplier must be >= 0 (0 disables the cap)", gs.GameName)
	}
	if gs.BonusTriggerCount < 1 {
		return errs.Configf("game_name: %s err: bonus_trigger_count must be >= 1", gs.GameName)
	}
	return nil
}

// Summary 對外公開的設定摘要
type Summary struct {
	GameName         string   `json:"game_name"`
	Reels            int      `json:"reels"`
	Rows             int      `json:"rows"`
	Paylines         int      `json:"paylines"`
	Symbols          []string `json:"symbols"`
	TargetRTP        float64  `json:"target_rtp"`
	MinBet           float64  `json:"min_bet"`
	MaxBet           float64  `json:"max_bet"`
	MaxWinMultiplier float64  `json:"max_win_multiplier"`
}

func (gs *GameSetting) Summary() Summary {
	return Summary{
		GameName:         gs.GameName,
		Reels:            gs.ScreenSetting.Reels,
		Rows:             gs.ScreenSetting.Rows,
		Paylines:         gs.LineSetting.LineCount,
		Symbols:          append([]string(nil), gs.SymbolSetting.Names...),
		TargetRTP:        gs.TargetRTP,
		MinBet:           gs.BetSetting.MinBet,
		MaxBet:           gs.BetSetting.MaxBet,
		MaxWinMultiplier: gs.MaxWinMultiplier,
	}
}
