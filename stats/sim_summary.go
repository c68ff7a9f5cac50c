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

package stats

// SimSummary 批次模擬的原始（未加權）統計，由 recorder 於模擬時累積。
type SimSummary struct {
	GameName      string        `json:"game_name"      yaml:"game_name"`
	Spins         int           `json:"spins"          yaml:"spins"`
	TotalPayout   float64       `json:"total_payout"   yaml:"total_payout"`
	RTP           float64       `json:"rtp"            yaml:"rtp"`
	RtpCI         CI            `json:"rtp_ci"         yaml:"rtp_ci"`
	StdDev        float64       `json:"std_dev"        yaml:"std_dev"`
	HitRate       float64       `json:"hit_rate"       yaml:"hit_rate"`
	MaxPayout     float64       `json:"max_payout"     yaml:"max_payout"`
	LineWins      int           `json:"line_wins"      yaml:"line_wins"`
	ScatterWins   int           `json:"scatter_wins"   yaml:"scatter_wins"`
	BonusTriggers int           `json:"bonus_triggers" yaml:"bonus_triggers"`
	TriggerRate   float64       `json:"trigger_rate"   yaml:"trigger_rate"`
	Capped        int           `json:"capped"         yaml:"capped"`
	Dist          []BucketShare `json:"dist"           yaml:"dist"`
}

// NewSimSummary 由累積量組出摘要，sqSum 為倍數平方和。
func NewSimSummary(name string, spins, hits int, total, sqSum float64) *SimSummary {
	s := &SimSummary{GameName: name, Spins: spins, TotalPayout: total}
	if spins == 0 {
		return s
	}
	n := float64(spins)
	mean := total / n
	s.RTP = mean * 100
	s.HitRate = float64(hits) / n * 100
	if spins > 1 {
		variance := (sqSum - total*total/n) / (n - 1)
		s.StdDev = sqrtNonNeg(variance)
	}
	s.RtpCI = rtpCI(s.RTP, s.StdDev, spins, 0.95)
	return s
}
