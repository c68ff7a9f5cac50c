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

package v1

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"os"
	"sync"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/sdk/sampler"
	"github.com/zintix-labs/reelmath/server/httperr"
	"github.com/zintix-labs/reelmath/server/svrcfg"
)

// ReplayHandler 依優化後權重從已發佈的 library 抽出一筆 book 並乘上押注。
type ReplayHandler struct {
	eng   *reelmath.Engine
	runID string
	table *sampler.OutcomeTable
	books map[int]json.RawMessage

	mu sync.Mutex // 保護 core，core 非併發安全
	c  *core.Core
}

// ReplayResponse GET /v1/replay
type ReplayResponse struct {
	RunID        string        `json:"run_id"`
	SimulationID int           `json:"simulation_id"`
	Book         reelmath.Book `json:"book"`
}

// NewReplayHandler 載入 library 內的 lookup table 與 books，seed 為 0 時使用隨機 seed。
func NewReplayHandler(sCfg *svrcfg.SvrCfg, seed int64) (*ReplayHandler, error) {
	if sCfg == nil || sCfg.Engine == nil {
		return nil, errs.NewFatal("build replay handler error: engine is nil")
	}
	l := publish.NewLayout(sCfg.Library, sCfg.Mode)
	idx, err := publish.ReadIndex(l.IndexPath())
	if err != nil {
		return nil, errs.Wrap(err, "replay: read index")
	}
	pop, err := publish.ReadLookupTable(l.LookupPath())
	if err != nil {
		return nil, errs.Wrap(err, "replay: read lookup table")
	}
	table, err := sampler.NewOutcomeTable(pop)
	if err != nil {
		return nil, err
	}
	books, err := readAnyBooks(l)
	if err != nil {
		return nil, err
	}
	if len(books) != table.Len() {
		return nil, errs.Fatalf("replay: %d books for %d outcomes", len(books), table.Len())
	}
	if seed == 0 {
		seed = rand.Int64()
	}
	return &ReplayHandler{
		eng:   sCfg.Engine,
		runID: idx.RunID,
		table: table,
		books: books,
		c:     core.New(core.Default().New(seed)),
	}, nil
}

func readAnyBooks(l publish.Layout) (map[int]json.RawMessage, error) {
	for _, c := range []publish.Codec{publish.CodecGzip, publish.CodecZstd, publish.CodecNone} {
		p := l.BooksPath(c)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		return publish.ReadBooks(p)
	}
	return nil, errs.Fatalf("replay: no books file under %s", l.Root)
}

func (h *ReplayHandler) Replay(w http.ResponseWriter, q *http.Request) {
	req, err := buf.DecodeSpinRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := h.eng.Setting().BetSetting.CheckBet(req.Bet); err != nil {
		httperr.Errs(w, err)
		return
	}
	h.mu.Lock()
	id := h.table.Pick(h.c)
	h.mu.Unlock()

	var b reelmath.Book
	if err := json.Unmarshal(h.books[id], &b); err != nil {
		httperr.Errs(w, errs.Wrap(err, "replay: decode book"))
		return
	}
	writeJSON(w, ReplayResponse{RunID: h.runID, SimulationID: id, Book: reelmath.ScaleBook(b, req.Bet)})
}
