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

package gen

import (
	"testing"

	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/spec"
)

func testSettings(t *testing.T, rows int, strips [][]int16) (*spec.ScreenSetting, *spec.StripSetting) {
	t.Helper()
	ss := &spec.ScreenSetting{Reels: len(strips), Rows: rows}
	if err := ss.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	return ss, &spec.StripSetting{Strips: strips}
}

func TestSampleColumnMajorWindow(t *testing.T) {
	strips := [][]int16{
		{0, 1, 2, 3, 4},
		{5, 6, 7, 8, 9},
	}
	ss, st := testSettings(t, 3, strips)
	bs := NewBoardSampler(core.New(core.Default().New(1)), ss, st)

	for range 200 {
		b := bs.Sample()
		if len(b) != 6 {
			t.Fatalf("board size want 6 got %d", len(b))
		}
		for reel := range 2 {
			first := b[reel*3]
			off := int(first) - reel*5
			if off < 0 || off > 2 {
				t.Fatalf("offset %d out of [0,2] on reel %d: %v", off, reel, b)
			}
			for row := range 3 {
				if b[reel*3+row] != strips[reel][off+row] {
					t.Fatalf("reel %d not consecutive: %v", reel, b)
				}
			}
		}
	}
}

func TestSampleCoversAllOffsets(t *testing.T) {
	strips := [][]int16{{0, 1, 2, 3}}
	ss, st := testSettings(t, 2, strips)
	bs := NewBoardSampler(core.New(core.Default().New(42)), ss, st)
	seen := map[int16]bool{}
	for range 500 {
		seen[bs.Sample()[0]] = true
	}
	// 起點只能是 0..2
	if len(seen) != 3 || seen[3] {
		t.Fatalf("unexpected offsets seen: %v", seen)
	}
}

func TestSampleAtWraps(t *testing.T) {
	strips := [][]int16{{0, 1, 2}, {3, 4, 5}}
	ss, st := testSettings(t, 2, strips)
	bs := NewBoardSampler(core.New(core.Default().New(1)), ss, st)
	b := bs.SampleAt([]int{2, -1})
	want := []int16{2, 0, 5, 3}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("want %v got %v", want, b)
		}
	}
}

func TestSampleDeterministic(t *testing.T) {
	strips := [][]int16{{0, 1, 2, 3, 4, 5, 6}, {0, 1, 2, 3, 4, 5, 6}, {0, 1, 2, 3, 4, 5, 6}}
	ss, st := testSettings(t, 3, strips)
	a := NewBoardSampler(core.New(core.Default().New(9)), ss, st)
	b := NewBoardSampler(core.New(core.Default().New(9)), ss, st)
	for range 50 {
		x, y := a.Sample(), b.Sample()
		for i := range x {
			if x[i] != y[i] {
				t.Fatalf("same seed should give same board: %v vs %v", x, y)
			}
		}
	}
}
