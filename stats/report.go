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

import (
	"math"

	"github.com/zintix-labs/reelmath/optimizer"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// 波動度分級（以加權倍數標準差判斷）
const (
	VolatilityLow      = "Low"
	VolatilityMedium   = "Medium"
	VolatilityHigh     = "High"
	VolatilityVeryHigh = "Very High"
)

// 信賴區間
type CI struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// BucketShare 單一分桶的權重占比（百分比）
type BucketShare struct {
	Label   string  `json:"label"   yaml:"label"`
	Weight  int64   `json:"weight"  yaml:"weight"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// PopulationStats 加權母體統計，所有百分比都以 0~100 表示。
type PopulationStats struct {
	RTP                float64       `json:"rtp"                 yaml:"rtp"`
	RtpCI              CI            `json:"rtp_ci"              yaml:"rtp_ci"`
	HitFrequency       float64       `json:"hit_frequency"       yaml:"hit_frequency"`
	MaxWin             float64       `json:"max_win"             yaml:"max_win"`
	AvgWin             float64       `json:"avg_win"             yaml:"avg_win"`
	StdDev             float64       `json:"std_dev"             yaml:"std_dev"`
	Volatility         string        `json:"volatility"          yaml:"volatility"`
	Simulations        int           `json:"simulations"         yaml:"simulations"`
	WinningSimulations int           `json:"winning_simulations" yaml:"winning_simulations"`
	TotalWeight        int64         `json:"total_weight"        yaml:"total_weight"`
	Buckets            []BucketShare `json:"buckets"             yaml:"buckets"`
}

// Report 計算加權母體統計。
//
// 空母體或總權重為 0 時回傳全 0（分桶標籤仍然存在）。edges 為空時使用 DefaultEdges。
func Report(pop []optimizer.Outcome, edges []float64) (*PopulationStats, error) {
	pb, err := NewPayoutBuckets(edges)
	if err != nil {
		return nil, err
	}
	ps := &PopulationStats{
		Simulations: len(pop),
		Buckets:     make([]BucketShare, pb.Len()),
	}
	for i, l := range pb.Labels {
		ps.Buckets[i].Label = l
	}

	var tw, winW int64
	var tp float64
	x := make([]float64, len(pop))
	w := make([]float64, len(pop))
	for i, o := range pop {
		x[i], w[i] = o.Payout, float64(o.Weight)
		tw += int64(o.Weight)
		tp += float64(o.Weight) * o.Payout
		if o.Payout > 0 {
			winW += int64(o.Weight)
			ps.WinningSimulations++
		}
		ps.MaxWin = max(ps.MaxWin, o.Payout)
		ps.Buckets[pb.Index(o.Payout)].Weight += int64(o.Weight)
	}
	ps.TotalWeight = tw
	if tw == 0 {
		ps.MaxWin = 0
		ps.WinningSimulations = 0
		ps.Volatility = VolatilityLow
		return ps, nil
	}

	ftw := float64(tw)
	ps.RTP = tp / ftw * 100
	ps.HitFrequency = float64(winW) / ftw * 100
	if winW > 0 {
		ps.AvgWin = tp / float64(winW)
	}
	for i := range ps.Buckets {
		ps.Buckets[i].Percent = float64(ps.Buckets[i].Weight) / ftw * 100
	}

	// 權重總和 <= 1 時 gonum 的無偏估計會除以 0
	if tw > 1 && len(pop) > 1 {
		_, std := stat.MeanStdDev(x, w)
		if !math.IsNaN(std) {
			ps.StdDev = std
		}
	}
	ps.Volatility = Volatility(ps.StdDev)
	ps.RtpCI = rtpCI(ps.RTP, ps.StdDev, len(pop), 0.95)
	return ps, nil
}

// Volatility 依倍數標準差分級
func Volatility(std float64) string {
	switch {
	case std < 3:
		return VolatilityLow
	case std < 8:
		return VolatilityMedium
	case std < 15:
		return VolatilityHigh
	default:
		return VolatilityVeryHigh
	}
}

// rtpCI 常態近似的 RTP 信賴區間，下界不低於 0
func rtpCI(rtp, std float64, n int, level float64) CI {
	if n < 2 {
		return CI{Lo: rtp, Hi: rtp}
	}
	z := distuv.UnitNormal.Quantile(0.5 + level/2)
	se := std / math.Sqrt(float64(n)) * 100
	return CI{Lo: max(rtp-z*se, 0), Hi: rtp + z*se}
}

func sqrtNonNeg(v float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return math.Sqrt(v)
}
