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
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
)

// Run 一次要發佈的完整結果
type Run struct {
	RunID      string // 空字串時自動產生 uuid
	Setting    *spec.GameSetting
	Population []optimizer.Outcome
	Stats      *stats.PopulationStats
	Converged  bool
	Books      iter.Seq[any] // 需可重複迭代（同時輸出 gzip 與 zstd 時會走兩次）
}

// Writer 發佈器
type Writer struct {
	Layout Layout
	Zstd   bool // 另外輸出一份 zstd 的 books
}

func NewWriter(root, mode string, zstd bool) *Writer {
	return &Writer{Layout: NewLayout(root, mode), Zstd: zstd}
}

// Publish 依序寫出結果表、類別表、books、機率表與 index.json。
func (w *Writer) Publish(run *Run) (*Index, error) {
	if run == nil || run.Setting == nil || run.Stats == nil {
		return nil, errs.NewFatal("publish: run, setting and stats are required")
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	l := w.Layout
	if err := l.Ensure(); err != nil {
		return nil, err
	}

	files := make(map[string]string, 6)
	if err := WriteLookupTable(l.LookupPath(), run.Population); err != nil {
		return nil, err
	}
	files["lookup_table"] = l.rel(l.LookupPath())
	if err := WriteCriteriaTable(l.CriteriaPath(), run.Population); err != nil {
		return nil, err
	}
	files["criteria_table"] = l.rel(l.CriteriaPath())

	if run.Books != nil {
		codecs := []Codec{CodecGzip}
		if w.Zstd {
			codecs = append(codecs, CodecZstd)
		}
		for _, c := range codecs {
			p := l.BooksPath(c)
			n, err := WriteBooks(p, c, run.Books)
			if err != nil {
				return nil, err
			}
			if n != len(run.Population) {
				return nil, errs.Fatalf("publish: wrote %d books for %d outcomes", n, len(run.Population))
			}
			files["books"+c.Ext()] = l.rel(p)
		}
	}

	if err := WriteParSheet(l.ParSheetPath(), NewParSheet(run.Setting, run.Stats)); err != nil {
		return nil, err
	}
	files["par_sheet"] = l.rel(l.ParSheetPath())

	idx := &Index{
		RunID:               run.RunID,
		GameName:            run.Setting.GameName,
		Version:             run.Setting.Version,
		Mode:                l.Mode,
		TotalSimulations:    len(run.Population),
		RTPPercent:          round2(run.Stats.RTP),
		HitFrequencyPercent: round2(run.Stats.HitFrequency),
		Converged:           run.Converged,
		Files:               files,
		Config:              newIndexConfig(run.Setting),
		CreatedAt:           time.Now().UTC(),
	}
	if err := WriteIndex(l.IndexPath(), idx); err != nil {
		return nil, err
	}
	return idx, nil
}
