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

package optimizer

import "github.com/zintix-labs/reelmath/sdk/buf"

// Outcome 優化器的工作單位：一局結果壓縮成 id / 權重 / 倍數 / 類別。
// Weight 從 1 開始，只有優化器會改動，永遠 >= 1。
type Outcome struct {
	ID       int     `json:"simulation_id"`
	Weight   int     `json:"weight"`
	Payout   float64 `json:"payout_multiplier"`
	Criteria string  `json:"criteria"`
}

// FromResults 以權重 1 建立母體，順序與 results 相同。
func FromResults(results []*buf.SpinResult) []Outcome {
	pop := make([]Outcome, len(results))
	for i, sr := range results {
		pop[i] = Outcome{
			ID:       sr.ID,
			Weight:   1,
			Payout:   sr.Payout,
			Criteria: sr.Criteria,
		}
	}
	return pop
}

// WeightedRTP Σ(w·p) / Σw * 100，空母體或總權重為 0 時回 0。
func WeightedRTP(pop []Outcome) float64 {
	tw, tp := 0.0, 0.0
	for _, o := range pop {
		tw += float64(o.Weight)
		tp += float64(o.Weight) * o.Payout
	}
	if tw == 0 {
		return 0
	}
	return tp / tw * 100
}

// TotalWeight 總權重
func TotalWeight(pop []Outcome) int64 {
	var tw int64
	for _, o := range pop {
		tw += int64(o.Weight)
	}
	return tw
}
