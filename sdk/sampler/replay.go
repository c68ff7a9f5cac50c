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

package sampler

import (
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/sdk/core"
)

// OutcomeTable 依權重抽出 simulation id，抽中機率 = weight / Σweight。
// 建好後唯讀，多個 goroutine 可以各自帶 Core 共用。
type OutcomeTable struct {
	ids []int
	at  *AliasTable
}

func NewOutcomeTable(pop []optimizer.Outcome) (*OutcomeTable, error) {
	if len(pop) == 0 {
		return nil, errs.NewWarn("outcome table is empty")
	}
	ids := make([]int, len(pop))
	weights := make([]int, len(pop))
	for i, o := range pop {
		if o.Weight < 1 {
			return nil, errs.Warnf("outcome %d has weight %d < 1", o.ID, o.Weight)
		}
		ids[i] = o.ID
		weights[i] = o.Weight
	}
	at, err := BuildAliasTable(weights)
	if err != nil {
		return nil, err
	}
	return &OutcomeTable{ids: ids, at: at}, nil
}

// Len 局數
func (t *OutcomeTable) Len() int { return len(t.ids) }

// TotalWeight 權重總和
func (t *OutcomeTable) TotalWeight() int { return t.at.Total }

// Pick 回傳抽中的 simulation id
func (t *OutcomeTable) Pick(c *core.Core) int {
	return t.ids[t.at.Pick(c)]
}
