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

package publish

import (
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/stats"
)

type testBook struct {
	ID     int     `json:"id"`
	Payout float64 `json:"payoutMultiplier"`
}

func testRun(t *testing.T) *Run {
	t.Helper()
	gs, err := demo_configs.Default()
	if err != nil {
		t.Fatalf("load demo config: %v", err)
	}
	pop := []optimizer.Outcome{
		{ID: 1, Weight: 3, Payout: 0, Criteria: "basegame"},
		{ID: 2, Weight: 1, Payout: 2.5, Criteria: "basegame"},
		{ID: 3, Weight: 2, Payout: 120, Criteria: "bonus"},
	}
	ps, err := stats.Report(pop, nil)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var books iter.Seq[any] = func(yield func(any) bool) {
		for _, o := range pop {
			if !yield(testBook{ID: o.ID, Payout: o.Payout}) {
				return
			}
		}
	}
	return &Run{Setting: gs, Population: pop, Stats: ps, Converged: true, Books: books}
}

func TestPublishLayout(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, "", true)
	run := testRun(t)
	idx, err := w.Publish(run)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if idx.RunID == "" || idx.TotalSimulations != 3 || idx.GameName != run.Setting.GameName {
		t.Fatalf("unexpected index: %+v", idx)
	}
	for _, rel := range []string{
		"books/books_base.jsonl.gz",
		"books/books_base.jsonl.zst",
		"lookup_tables/lookUpTable_base.csv",
		"lookup_tables/lookUpTableIdToCriteria_base.csv",
		"publish_files/index.json",
		"publish_files/par_sheet_base.json",
	} {
		if _, err := os.Stat(filepath.Join(root, rel)); err != nil {
			t.Fatalf("missing %s: %v", rel, err)
		}
	}
	back, err := ReadIndex(w.Layout.IndexPath())
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if back.RunID != idx.RunID || back.Files["books.gz"] != "books/books_base.jsonl.gz" {
		t.Fatalf("index round trip: %+v", back)
	}
	if back.Config.Paylines != run.Setting.LineSetting.LineCount || len(back.Config.Symbols) == 0 {
		t.Fatalf("index config: %+v", back.Config)
	}
}

func TestLookupTableRoundTrip(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, "base", false)
	run := testRun(t)
	if _, err := w.Publish(run); err != nil {
		t.Fatalf("publish: %v", err)
	}
	pop, err := ReadLookupTable(w.Layout.LookupPath())
	if err != nil {
		t.Fatalf("read lookup: %v", err)
	}
	if len(pop) != len(run.Population) {
		t.Fatalf("got %d rows want %d", len(pop), len(run.Population))
	}
	for i := range pop {
		if pop[i] != run.Population[i] {
			t.Fatalf("row %d got %+v want %+v", i, pop[i], run.Population[i])
		}
	}
}

func TestReadLookupTableRejectsBadRows(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"header": "id,w,p\n1,1,0\n",
		"weight": "simulation_id,weight,payout_multiplier\n1,0,2\n",
		"number": "simulation_id,weight,payout_multiplier\n1,x,2\n",
	}
	for name, body := range cases {
		p := filepath.Join(dir, "lookUpTable_"+name+".csv")
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadLookupTable(p); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestBooksRoundTrip(t *testing.T) {
	run := testRun(t)
	dir := t.TempDir()
	for _, c := range []Codec{CodecGzip, CodecZstd, CodecNone} {
		p := filepath.Join(dir, "books.jsonl"+c.Ext())
		n, err := WriteBooks(p, c, run.Books)
		if err != nil || n != 3 {
			t.Fatalf("codec %d: write n=%d err=%v", c, n, err)
		}
		books, err := ReadBooks(p)
		if err != nil {
			t.Fatalf("codec %d: read: %v", c, err)
		}
		var b testBook
		if err := json.Unmarshal(books[3], &b); err != nil || b.Payout != 120 {
			t.Fatalf("codec %d: book 3 got %+v err=%v", c, b, err)
		}
	}
}

func TestParSheet(t *testing.T) {
	run := testRun(t)
	sheet := NewParSheet(run.Setting, run.Stats)
	if sheet.GameInfo.Reels != "5x3" || sheet.GameInfo.Type != "Video Slot" {
		t.Fatalf("game info: %+v", sheet.GameInfo)
	}
	// (2.5 + 240) / 6 * 100 = 4041.666...
	if sheet.Mathematics.RTPPercent != 4041.67 {
		t.Fatalf("rtp rounding: %v", sheet.Mathematics.RTPPercent)
	}
	if sheet.PayoutDistribution["no_win_percent"] != 50 || sheet.PayoutDistribution["mega_win_100x_plus_percent"] != 33.33 {
		t.Fatalf("distribution: %+v", sheet.PayoutDistribution)
	}
	if sheet.SimulationData.TotalWeight != 6 || sheet.SimulationData.WinningSimulations != 2 {
		t.Fatalf("simulation data: %+v", sheet.SimulationData)
	}
}

func TestCodecByPath(t *testing.T) {
	if CodecByPath("a.jsonl.gz") != CodecGzip || CodecByPath("a.jsonl.zst") != CodecZstd || CodecByPath("a.jsonl") != CodecNone {
		t.Fatalf("codec by path")
	}
}
