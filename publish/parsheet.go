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

package publish

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
)

// ParSheet 對外公開的機率表
type ParSheet struct {
	GameInfo           GameInfo           `json:"game_info"`
	Mathematics        Mathematics        `json:"mathematics"`
	SimulationData     SimulationData     `json:"simulation_data"`
	PayoutDistribution map[string]float64 `json:"payout_distribution"`
}

type GameInfo struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Type     string `json:"type"`
	Reels    string `json:"reels"`
	Paylines int    `json:"paylines"`
}

type Mathematics struct {
	RTPPercent           float64 `json:"rtp_percent"`
	HitFrequencyPercent  float64 `json:"hit_frequency_percent"`
	Volatility           string  `json:"volatility"`
	MaxWinMultiplier     float64 `json:"max_win_multiplier"`
	AverageWinMultiplier float64 `json:"average_win_multiplier"`
}

type SimulationData struct {
	TotalSimulations   int   `json:"total_simulations"`
	WinningSimulations int   `json:"winning_simulations"`
	TotalWeight        int64 `json:"total_weight"`
}

// 預設分桶的欄位名稱
var defaultDistKeys = []string{
	"no_win_percent",
	"small_win_1_10x_percent",
	"medium_win_11_50x_percent",
	"large_win_51_100x_percent",
	"mega_win_100x_plus_percent",
}

// NewParSheet 由設定與加權統計組出機率表，數值四捨五入到小數兩位。
func NewParSheet(gs *spec.GameSetting, ps *stats.PopulationStats) *ParSheet {
	sheet := &ParSheet{
		GameInfo: GameInfo{
			Name:     gs.GameName,
			Version:  gs.Version,
			Type:     "Video Slot",
			Reels:    fmt.Sprintf("%dx%d", gs.ScreenSetting.Reels, gs.ScreenSetting.Rows),
			Paylines: gs.LineSetting.LineCount,
		},
		Mathematics: Mathematics{
			RTPPercent:           round2(ps.RTP),
			HitFrequencyPercent:  round2(ps.HitFrequency),
			Volatility:           ps.Volatility,
			MaxWinMultiplier:     ps.MaxWin,
			AverageWinMultiplier: round2(ps.AvgWin),
		},
		SimulationData: SimulationData{
			TotalSimulations:   ps.Simulations,
			WinningSimulations: ps.WinningSimulations,
			TotalWeight:        ps.TotalWeight,
		},
		PayoutDistribution: make(map[string]float64, len(ps.Buckets)),
	}
	named := len(ps.Buckets) == len(defaultDistKeys) && slices.Equal(effectiveEdges(gs), stats.DefaultEdges)
	for i, b := range ps.Buckets {
		key := b.Label
		if named {
			key = defaultDistKeys[i]
		}
		sheet.PayoutDistribution[key] = round2(b.Percent)
	}
	return sheet
}

func effectiveEdges(gs *spec.GameSetting) []float64 {
	if len(gs.Optimizer.Buckets) == 0 {
		return stats.DefaultEdges
	}
	return gs.Optimizer.Buckets
}

// WriteParSheet 以縮排 JSON 寫出機率表
func WriteParSheet(path string, sheet *ParSheet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(err, "create dir for "+path)
	}
	raw, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return errs.Wrap(err, "marshal par sheet")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errs.Wrap(err, "write "+path)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
