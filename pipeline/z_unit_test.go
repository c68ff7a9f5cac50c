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

package pipeline_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/pipeline"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/store"
)

func TestPipelineEndToEnd(t *testing.T) {
	gs, err := demo_configs.Default()
	if err != nil {
		t.Fatalf("load demo: %v", err)
	}
	eng, err := reelmath.New(gs, reelmath.WithSeed(11))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer eng.Close()

	dir := t.TempDir()
	st, err := store.OpenSQLite(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer st.Close()
	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	out := filepath.Join(dir, "library")
	res, err := pipeline.Run(ctx, eng, eng.NewSimulatorWithSeed(20251019), pipeline.Config{
		Spins:   3000,
		Workers: 3,
		OutDir:  out,
		Zstd:    true,
		Store:   st,
	})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	r := res.Report
	if r.RunID == "" || r.RunID != res.Index.RunID || r.Simulation == nil || r.Simulation.Spins != 3000 {
		t.Fatalf("unexpected report %+v", r)
	}
	if r.Optimizer.Converged {
		if res.Warning != nil || math.Abs(r.Final.RTP-gs.TargetRTP) >= gs.Optimizer.Tolerance {
			t.Fatalf("converged run: rtp %v warning %v", r.Final.RTP, res.Warning)
		}
	} else if !errs.IsKind(res.Warning, errs.KindConvergence) {
		t.Fatalf("unconverged run must carry a convergence warning, got %v", res.Warning)
	}
	if res.Index.Converged != r.Optimizer.Converged {
		t.Fatalf("index converged flag mismatch")
	}

	// library 可讀回，權重與報表一致
	l := publish.NewLayout(out, "")
	pop, err := publish.ReadLookupTable(l.LookupPath())
	if err != nil {
		t.Fatalf("read lookup: %v", err)
	}
	if len(pop) != 3000 || pop[0].ID != 1 {
		t.Fatalf("lookup size %d first id %d", len(pop), pop[0].ID)
	}
	for _, o := range pop {
		if o.Weight < 1 {
			t.Fatalf("outcome %d has weight %d", o.ID, o.Weight)
		}
	}
	if got := optimizer.WeightedRTP(pop); math.Abs(got-r.Final.RTP) > 1e-9 {
		t.Fatalf("lookup rtp %v, report %v", got, r.Final.RTP)
	}
	for _, c := range []publish.Codec{publish.CodecGzip, publish.CodecZstd} {
		books, err := publish.ReadBooks(l.BooksPath(c))
		if err != nil || len(books) != 3000 {
			t.Fatalf("books %v: n=%d err=%v", c, len(books), err)
		}
	}

	// 資料庫
	run, err := st.GetRun(ctx, r.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Spins != 3000 || run.Seed != 20251019 || run.Iterations != r.Optimizer.Iterations {
		t.Fatalf("unexpected stored run %+v", run)
	}
	saved, err := st.GetOutcomes(ctx, r.RunID)
	if err != nil || len(saved) != 3000 {
		t.Fatalf("stored outcomes n=%d err=%v", len(saved), err)
	}
}

func TestPipelineRequiresEngine(t *testing.T) {
	if _, err := pipeline.Run(context.Background(), nil, nil, pipeline.Config{}); err == nil {
		t.Fatalf("nil engine should fail")
	}
}
