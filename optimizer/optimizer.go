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

// Package optimizer 調整每一局的整數權重，讓加權 RTP 收斂到目標值。
//
// 演算法是定點迭代：
//  1. 算目前加權 RTP，與目標差距 < tolerance 即收斂。
//  2. adj = target / rtp（rtp 為 0 直接回報失敗）。
//  3. 未中獎的局：rtp 高於目標時加權（稀釋中獎比重），否則不動。
//  4. 中獎的局：rtp 低於目標時權重乘 adj，高於目標時權重除以 rtp/target；一律取整並至少為 1。
//  5. 一輪調整沒有改動任何權重時，權重整體放大 10 倍再繼續；總權重到達上限才算停滯。
//  6. 重複直到收斂或用完迭代預算，用完預算回報 KindConvergence。
//
// 已收斂的母體再跑一次不會有任何改動；相同輸入一定得到相同輸出。
package optimizer

import (
	"fmt"
	"math"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/spec"
)

const (
	// DefaultResolution 第一次調整前，權重會被等比放大到至少這個值，避免取整吃掉調整量
	DefaultResolution = 10000
	// zeroBoost 未中獎局在 rtp 過高時的放大倍率
	zeroBoost = 1.1
	// stallGrowth 調整量小於 1 而停滯時，權重整體放大的倍率
	stallGrowth = 10
	// maxTotalWeight 總權重上限，超過後 float64 無法精確表示
	maxTotalWeight = int64(1) << 53
)

// Setting 優化參數
type Setting struct {
	Target        float64 // 目標 RTP（百分比）
	Tolerance     float64 // 收斂容忍（百分點）
	MaxIterations int     // 迭代預算
	Resolution    int     // 權重解析度
}

// NewSetting 由遊戲設定取得預設優化參數
func NewSetting(gs *spec.GameSetting) Setting {
	return Setting{
		Target:        gs.TargetRTP,
		Tolerance:     gs.Optimizer.Tolerance,
		MaxIterations: gs.Optimizer.MaxIterations,
		Resolution:    DefaultResolution,
	}
}

func (s *Setting) valid() error {
	if !(s.Target > 0) || math.IsInf(s.Target, 0) {
		return errs.Configf("optimizer target must be > 0, got %v", s.Target)
	}
	if s.Tolerance == 0 {
		s.Tolerance = spec.DefaultTolerance
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = spec.DefaultMaxIterations
	}
	if s.Resolution == 0 {
		s.Resolution = DefaultResolution
	}
	if s.Tolerance < 0 || s.MaxIterations < 1 || s.MaxIterations > spec.MaxIterationsCap || s.Resolution < 1 {
		return errs.Configf("invalid optimizer setting: %+v", *s)
	}
	return nil
}

// Result 優化結果摘要
type Result struct {
	Target     float64 `json:"target_rtp"`
	InitialRTP float64 `json:"initial_rtp"`
	FinalRTP   float64 `json:"final_rtp"`
	BestRTP    float64 `json:"best_rtp"` // 迭代過程中最接近目標的 RTP
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
}

// Optimize 就地調整 pop 的權重。
//
// 收斂時回傳 nil error；rtp 為 0、迭代停滯或用完預算時回傳 KindConvergence（Warn），
// Result 仍然有效，權重停在最後一次迭代的狀態。
func Optimize(pop []Outcome, s Setting) (Result, error) {
	if err := s.valid(); err != nil {
		return Result{}, err
	}
	rtp := WeightedRTP(pop)
	res := Result{
		Target:     s.Target,
		InitialRTP: rtp,
		FinalRTP:   rtp,
		BestRTP:    rtp,
	}
	scaled := false
	for res.Iterations < s.MaxIterations {
		if math.Abs(rtp-s.Target) < s.Tolerance {
			res.Converged = true
			return res, nil
		}
		if rtp == 0 {
			return res, convergenceFailure(res, "weighted rtp is zero")
		}
		if !scaled {
			rescale(pop, s.Resolution)
			scaled = true
		}
		changed := Step(pop, rtp, s.Target)
		res.Iterations++
		rtp = WeightedRTP(pop)
		res.FinalRTP = rtp
		if math.Abs(rtp-s.Target) < math.Abs(res.BestRTP-s.Target) {
			res.BestRTP = rtp
		}
		if !changed && !grow(pop) {
			return res, convergenceFailure(res, "weights stalled")
		}
	}
	if math.Abs(rtp-s.Target) < s.Tolerance {
		res.Converged = true
		return res, nil
	}
	return res, convergenceFailure(res, "iteration budget exhausted")
}

// Step 依目前 rtp 做一次權重調整，回傳是否有任何權重改變。
func Step(pop []Outcome, rtp, target float64) bool {
	if rtp == 0 || rtp == target {
		return false
	}
	adj := target / rtp
	above := rtp > target
	changed := false
	for i := range pop {
		o := &pop[i]
		w := o.Weight
		switch {
		case o.Payout == 0:
			if above {
				w = max(w+1, int(float64(w)*zeroBoost))
			}
		case above:
			// 高於目標：除以 rtp/target，降低中獎權重
			w = max(1, int(float64(w)/(1/adj)))
		default:
			w = max(1, int(float64(w)*adj))
		}
		if w != o.Weight {
			o.Weight = w
			changed = true
		}
	}
	return changed
}

// rescale 權重等比放大到最小權重 >= res，不改變任何一局的相對機率。
func rescale(pop []Outcome, res int) {
	minW := math.MaxInt
	for _, o := range pop {
		minW = min(minW, o.Weight)
	}
	if minW >= res || minW < 1 {
		return
	}
	k := (res + minW - 1) / minW
	for i := range pop {
		pop[i].Weight *= k
	}
}

// grow 權重整體乘 stallGrowth，提高解析度讓下一輪的細微調整不被取整吃掉；
// 放大後總權重會超過 maxTotalWeight 時不動並回 false。
func grow(pop []Outcome) bool {
	if TotalWeight(pop) > maxTotalWeight/stallGrowth {
		return false
	}
	for i := range pop {
		pop[i].Weight *= stallGrowth
	}
	return true
}

func convergenceFailure(res Result, reason string) error {
	return errs.NewWithExtra(errs.Warn,
		fmt.Sprintf("optimizer did not converge: %s", reason),
		fmt.Sprintf("target=%.4f best=%.4f final=%.4f iterations=%d", res.Target, res.BestRTP, res.FinalRTP, res.Iterations),
	).WithKind(errs.KindConvergence)
}
