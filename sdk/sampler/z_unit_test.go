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
	"math"
	"testing"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, name string, weights []int, counts map[int]int, trials int, tolerance float64) {
	t.Helper()
	totalW := 0
	for _, w := range weights {
		totalW += w
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] > 0 {
				t.Errorf("[%s] expected 0 samples for index %d (weight 0), got %d", name, i, counts[i])
			}
			continue
		}
		expectedProb := float64(w) / float64(totalW)
		actualProb := float64(counts[i]) / float64(trials)
		if diff := math.Abs(expectedProb - actualProb); diff > tolerance {
			t.Errorf("[%s] index %d: expected prob %.3f, got %.3f (diff %.3f > tol %.3f)",
				name, i, expectedProb, actualProb, diff, tolerance)
		}
	}
}

func TestAliasTable_Distribution(t *testing.T) {
	c := core.New(core.Default().New(20251019))
	weights := []int{10, 0, 20, 70}
	at, err := BuildAliasTable(weights)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	trials := 200000
	counts := make(map[int]int)
	for range trials {
		counts[at.Pick(c)]++
	}
	checkDistribution(t, "AliasTable", weights, counts, trials, 0.01)
}

// TestAliasTable_Errors 全零、負權重、總和溢位、空表都要回錯誤
func TestAliasTable_Errors(t *testing.T) {
	cases := map[string][]int{
		"empty":    nil,
		"all zero": {0, 0, 0},
		"negative": {10, -1},
		"overflow": {math.MaxInt, 1},
	}
	for name, w := range cases {
		if _, err := BuildAliasTable(w); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestOutcomeTable_Pick(t *testing.T) {
	pop := []optimizer.Outcome{
		{ID: 11, Weight: 1},
		{ID: 22, Weight: 3},
		{ID: 33, Weight: 6},
	}
	tbl, err := NewOutcomeTable(pop)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tbl.Len() != 3 || tbl.TotalWeight() != 10 {
		t.Fatalf("len=%d total=%d", tbl.Len(), tbl.TotalWeight())
	}
	c := core.New(core.Default().New(7))
	trials := 100000
	byID := make(map[int]int)
	for range trials {
		byID[tbl.Pick(c)]++
	}
	counts := map[int]int{0: byID[11], 1: byID[22], 2: byID[33]}
	if len(byID) != 3 {
		t.Fatalf("unexpected ids drawn: %v", byID)
	}
	checkDistribution(t, "OutcomeTable", []int{1, 3, 6}, counts, trials, 0.01)
}

func TestOutcomeTable_Deterministic(t *testing.T) {
	pop := []optimizer.Outcome{{ID: 1, Weight: 5}, {ID: 2, Weight: 9}, {ID: 3, Weight: 1}}
	tbl, err := NewOutcomeTable(pop)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a := core.New(core.Default().New(99))
	b := core.New(core.Default().New(99))
	for i := range 1000 {
		if x, y := tbl.Pick(a), tbl.Pick(b); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestOutcomeTable_Errors(t *testing.T) {
	if _, err := NewOutcomeTable(nil); err == nil {
		t.Fatalf("empty table should fail")
	}
	_, err := NewOutcomeTable([]optimizer.Outcome{{ID: 1, Weight: 0}})
	if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
		t.Fatalf("zero weight should be a warn error, got %v", err)
	}
}
