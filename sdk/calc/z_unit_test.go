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

package calc

import (
	"testing"

	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/spec"
)

const testYAML = `
game_name: calc_test
screen_setting: {reels: 5, rows: 3}
symbol_setting:
  symbols:
    - {name: A, pays: {3: 5, 4: 10, 5: 20}}
    - {name: B, pays: {3: 2, 4: 4, 5: 8}}
    - {name: C}
    - {name: W, kind: wild, pays: {3: 10, 4: 50, 5: 100}}
    - {name: S, kind: scatter, pays: {3: 2, 4: 10, 5: 50}}
    - {name: X, kind: bonus}
line_setting:
  paylines:
    - [1, 4, 7, 10, 13]
    - [0, 3, 6, 9, 12]
strip_setting:
  reel_strips:
    - [A, B, C, W, S, X]
    - [A, B, C, W, S, X]
    - [A, B, C, W, S, X]
    - [A, B, C, W, S, X]
    - [A, B, C, W, S, X]
bet_setting: {min_bet: 1, max_bet: 10}
target_rtp: 96
`

const (
	symA int16 = iota
	symB
	symC
	symW
	symS
	symX
)

func testCalculator(t *testing.T) *BoardCalculator {
	t.Helper()
	gs, err := spec.GetGameSettingByYAML([]byte(testYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return NewBoardCalculator(gs)
}

// board 以 C 填滿，再把 middle 線（row 1）設成 mid。
func boardWithMiddle(mid ...int16) []int16 {
	b := make([]int16, 15)
	for i := range b {
		b[i] = symC
	}
	for reel, s := range mid {
		b[reel*3+1] = s
	}
	return b
}

func TestLineThreeOfKind(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symA, symA, symA, symB, symA)
	w, ok := bc.Line.Eval(b, 0)
	if !ok {
		t.Fatalf("expected a win")
	}
	if w.Symbol != symA || w.Count != 3 || w.Multiplier != 5 || w.Payline != 0 {
		t.Fatalf("unexpected win: %+v", w)
	}
	if len(w.Positions) != 3 || w.Positions[0] != 1 || w.Positions[2] != 7 {
		t.Fatalf("positions should cover the run only: %v", w.Positions)
	}
	if w.SymbolName != "A" {
		t.Fatalf("symbol name want A got %s", w.SymbolName)
	}
}

func TestLineAllWildPaysWild(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symW, symW, symW, symW, symW)
	w, ok := bc.Line.Eval(b, 0)
	if !ok || w.Symbol != symW || w.Count != 5 || w.Multiplier != 100 {
		t.Fatalf("five wilds should pay wild 5-count: %+v ok=%v", w, ok)
	}
}

func TestLineWildResolvesToFirstConcrete(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symW, symW, symB, symW, symB)
	w, ok := bc.Line.Eval(b, 0)
	if !ok || w.Symbol != symB || w.Count != 5 || w.Multiplier != 8 {
		t.Fatalf("wild prefix should resolve to B: %+v ok=%v", w, ok)
	}
}

func TestLineWildInMiddle(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symA, symW, symA, symW, symC)
	w, ok := bc.Line.Eval(b, 0)
	if !ok || w.Symbol != symA || w.Count != 4 || w.Multiplier != 10 {
		t.Fatalf("wild should substitute A: %+v ok=%v", w, ok)
	}
}

func TestLineWildDoesNotExtendIntoScatter(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symW, symW, symS, symA, symA)
	if w, ok := bc.Line.Eval(b, 0); ok {
		t.Fatalf("wild run of 2 broken by scatter should not pay: %+v", w)
	}
	b = boardWithMiddle(symW, symW, symW, symS, symA)
	w, ok := bc.Line.Eval(b, 0)
	if !ok || w.Symbol != symW || w.Count != 3 || w.Multiplier != 10 {
		t.Fatalf("three wilds then scatter should pay wild 3-count: %+v ok=%v", w, ok)
	}
}

func TestLineSpecialAnchorNeverPays(t *testing.T) {
	bc := testCalculator(t)
	for _, anchor := range []int16{symS, symX} {
		b := boardWithMiddle(anchor, symW, symW, symW, symW)
		if w, ok := bc.Line.Eval(b, 0); ok {
			t.Fatalf("special anchor %d should not pay: %+v", anchor, w)
		}
	}
}

func TestLineShortRunOrZeroPay(t *testing.T) {
	bc := testCalculator(t)
	if _, ok := bc.Line.Eval(boardWithMiddle(symA, symA, symB, symA, symA), 0); ok {
		t.Fatalf("run of 2 should not pay")
	}
	// C 沒有賠率
	if _, ok := bc.Line.Eval(boardWithMiddle(symC, symC, symC, symC, symC), 0); ok {
		t.Fatalf("zero paytable entry should not pay")
	}
	// wild 起手解析成 C，即使 wild 前綴本身有賠率也只看 C
	if _, ok := bc.Line.Eval(boardWithMiddle(symW, symW, symW, symC, symA), 0); ok {
		t.Fatalf("resolved symbol without pay should not pay")
	}
}

func TestScatterFourAnywhere(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symA, symB, symA, symB, symA)
	for _, p := range []int{0, 5, 8, 14} {
		b[p] = symS
	}
	w, ok := bc.Scatter.Eval(b)
	if !ok {
		t.Fatalf("expected scatter win")
	}
	if w.Count != 4 || w.Multiplier != 10 || w.Payline != buf.ScatterPayline || !w.IsScatter() {
		t.Fatalf("unexpected scatter win: %+v", w)
	}
	if len(w.Positions) != 4 || w.Positions[0] != 0 || w.Positions[3] != 14 {
		t.Fatalf("unexpected positions: %v", w.Positions)
	}
}

func TestScatterBelowMinimumOrBeyondTable(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symS, symS, symA, symB, symA)
	if _, ok := bc.Scatter.Eval(b); ok {
		t.Fatalf("2 scatters should not pay")
	}
	// 6 顆超出賠率表，查表為 0
	for _, p := range []int{0, 2, 3, 5, 6, 8} {
		b[p] = symS
	}
	b[1], b[4] = symA, symB
	if n := CountSymbol(b, symS); n != 6 {
		t.Fatalf("want 6 scatters got %d", n)
	}
	if _, ok := bc.Scatter.Eval(b); ok {
		t.Fatalf("scatter count without pay entry should not pay")
	}
}

func TestCalcBoardOrderAndTotal(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symA, symA, symA, symA, symB)
	// top 線 W W W B B -> B x5? 第 4 格 B、第 5 格 B
	for reel, s := range []int16{symW, symW, symW, symB, symB} {
		b[reel*3] = s
	}
	for _, p := range []int{2, 5, 8} {
		b[p] = symS
	}
	sr := buf.NewSpinResult(1, b, "basegame")
	bc.CalcBoard(b, sr)
	if len(sr.Wins) != 3 {
		t.Fatalf("want 3 wins got %+v", sr.Wins)
	}
	if sr.Wins[0].Payline != 0 || sr.Wins[1].Payline != 1 || !sr.Wins[2].IsScatter() {
		t.Fatalf("wins out of order: %+v", sr.Wins)
	}
	// A x4 = 10, B x5 = 8, S x3 = 2
	if sr.Payout != 20 {
		t.Fatalf("want payout 20 got %v", sr.Payout)
	}
}

func TestBonusCount(t *testing.T) {
	bc := testCalculator(t)
	b := boardWithMiddle(symX, symA, symX, symB, symX)
	if n := bc.BonusCount(b); n != 3 {
		t.Fatalf("want 3 bonus got %d", n)
	}
	if CountSymbol(b, spec.NoSymbol) != 0 {
		t.Fatalf("NoSymbol should count 0")
	}
}

// 任何盤面的線獎連線數都在 [3, reels]，倍數都 > 0。
func TestLineWinInvariantsOnSampledBoards(t *testing.T) {
	bc := testCalculator(t)
	syms := []int16{symA, symB, symC, symW, symS, symX}
	b := make([]int16, 15)
	x := uint32(7)
	for range 5000 {
		for i := range b {
			x = x*1664525 + 1013904223
			b[i] = syms[(x>>16)%uint32(len(syms))]
		}
		for li := 0; li < bc.Line.LineCount; li++ {
			w, ok := bc.Line.Eval(b, li)
			if !ok {
				continue
			}
			if w.Count < MinLineRun || w.Count > bc.Reels || w.Multiplier <= 0 || len(w.Positions) != w.Count {
				t.Fatalf("bad line win %+v on board %v", w, b)
			}
		}
	}
}
