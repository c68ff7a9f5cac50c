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

// Package sampler 依優化後的權重重播結果表。
//
// AliasTable 是整數版的 Vose Alias Method：建表 O(N)，抽樣 O(1)（固定兩次 IntN），
// 記憶體只與局數相關、與權重總和無關。全程整數比較，沒有浮點誤差累積。
package sampler

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/core"
)

// AliasTable
//
//   - Prob: 每格調整後的機率，以 weight*Size 做整數 scaling。
//   - Aliases: 機率不足時補位的索引。
//   - Total: 權重總和，抽樣時作為整數版的 [0,1)。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 權重不需正規化，可以有 0，但不能為負或全為 0。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	n := len(weights)
	if n == 0 {
		return nil, errs.NewWarn("alias table: no weights")
	}
	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.Warnf("alias table: negative weight %d", w)
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.NewWarn("alias table: total weight overflow int range")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.NewWarn("alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.NewWarn("alias table: weights are too large, causing overflow")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)

	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		// 維持 sum(prob) = total * n
		prob[l] = prob[l] + prob[s] - int(total)

		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// 剩下的格子機率為滿格，自己就是別名
	for _, i := range append(small, large...) {
		prob[i] = int(total)
		aliases[i] = i
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Size:    n,
		Total:   int(total),
	}, nil
}

// isSafeMultiply a*b 是否仍在 int64 範圍內
func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && (lo <= math.MaxInt64)
}

// Pick 抽出一個索引：先選格子，再以 IntN(Total) < Prob[idx] 決定自己或別名。
func (at *AliasTable) Pick(c *core.Core) int {
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
