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

package recorder

import (
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/stats"
)

// SpinRecorder 遊戲紀錄員
//
// 每個 worker 各自持有一個，模擬時逐局累積未加權的計數，結束後以 Merge 合併、Done 輸出摘要。
// 不是併發安全的。
type SpinRecorder struct {
	GameName string
	buckets  *stats.PayoutBuckets
	Basic    BasicRecord
	Dist     []int64 // 分桶落點局數
}

// BasicRecord 基本計數
type BasicRecord struct {
	Spins       int
	Hits        int
	TotalPayout float64
	SqSum       float64 // 倍數平方和
	MaxPayout   float64
	LineWins    int
	ScatterWins int
	Trigger     int
	Capped      int
}

func NewSpinRecorder(name string, edges []float64) (*SpinRecorder, error) {
	b, err := stats.NewPayoutBuckets(edges)
	if err != nil {
		return nil, err
	}
	return &SpinRecorder{
		GameName: name,
		buckets:  b,
		Dist:     make([]int64, b.Len()),
	}, nil
}

// Record 以單局結果更新計數
func (s *SpinRecorder) Record(sr *buf.SpinResult) {
	p := sr.Payout
	b := &s.Basic
	b.Spins++
	b.TotalPayout += p
	b.SqSum += p * p
	b.MaxPayout = max(b.MaxPayout, p)
	if p > 0 {
		b.Hits++
	}
	for i := range sr.Wins {
		if sr.Wins[i].IsScatter() {
			b.ScatterWins++
		} else {
			b.LineWins++
		}
	}
	if sr.BonusTriggered {
		b.Trigger++
	}
	if sr.Capped {
		b.Capped++
	}
	s.Dist[s.buckets.Index(p)]++
}

// MergeSpinRecorder 合併多個 worker 的紀錄，分桶設定必須相同。
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : no recorder")
	}
	r0 := r[0]
	s := &SpinRecorder{
		GameName: r0.GameName,
		buckets:  r0.buckets,
		Dist:     make([]int64, len(r0.Dist)),
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return nil, errs.NewFatal("merge spin record err : different game name")
		}
		if len(v.Dist) != len(r0.Dist) {
			return nil, errs.NewFatal("merge spin record err : different buckets")
		}
		s.Basic.Spins += v.Basic.Spins
		s.Basic.Hits += v.Basic.Hits
		s.Basic.TotalPayout += v.Basic.TotalPayout
		s.Basic.SqSum += v.Basic.SqSum
		s.Basic.MaxPayout = max(s.Basic.MaxPayout, v.Basic.MaxPayout)
		s.Basic.LineWins += v.Basic.LineWins
		s.Basic.ScatterWins += v.Basic.ScatterWins
		s.Basic.Trigger += v.Basic.Trigger
		s.Basic.Capped += v.Basic.Capped

		// 整合Dist
		for i := range v.Dist {
			s.Dist[i] += v.Dist[i]
		}
	}
	return s, nil
}

// Done 輸出摘要
func (s *SpinRecorder) Done() *stats.SimSummary {
	b := s.Basic
	sum := stats.NewSimSummary(s.GameName, b.Spins, b.Hits, b.TotalPayout, b.SqSum)
	sum.MaxPayout = b.MaxPayout
	sum.LineWins = b.LineWins
	sum.ScatterWins = b.ScatterWins
	sum.BonusTriggers = b.Trigger
	sum.Capped = b.Capped
	if b.Spins > 0 {
		sum.TriggerRate = float64(b.Trigger) / float64(b.Spins) * 100
	}
	sum.Dist = make([]stats.BucketShare, len(s.Dist))
	for i, c := range s.Dist {
		sum.Dist[i] = stats.BucketShare{Label: s.buckets.Labels[i], Weight: c}
		if b.Spins > 0 {
			sum.Dist[i].Percent = float64(c) / float64(b.Spins) * 100
		}
	}
	return sum
}
