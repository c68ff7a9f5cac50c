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

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// 重複 migrate 不可出錯
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	run := &Run{Game: "Market Surge", Spins: 1000, Seed: 42, TargetRTP: 96.5, InitialRTP: 88, FinalRTP: 96.45, Converged: true, Iterations: 7}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("id / created_at should be filled: %+v", run)
	}
	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Game != run.Game || got.Seed != 42 || !got.Converged || got.Iterations != 7 || got.FinalRTP != 96.45 {
		t.Fatalf("round trip: %+v", got)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Fatalf("created_at: got %v want %v", got.CreatedAt, run.CreatedAt)
	}
	if _, err := s.GetRun(ctx, "missing"); err == nil {
		t.Fatalf("missing run should fail")
	}
}

func TestSaveOutcomesBatches(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	run := &Run{Game: "g", Spins: outcomeBatch + 5}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	pop := make([]optimizer.Outcome, outcomeBatch+5)
	for i := range pop {
		pop[i] = optimizer.Outcome{ID: i + 1, Weight: i%7 + 1, Payout: float64(i % 3), Criteria: "basegame"}
	}
	if err := s.SaveOutcomes(ctx, run.ID, pop); err != nil {
		t.Fatalf("save outcomes: %v", err)
	}
	got, err := s.GetOutcomes(ctx, run.ID)
	if err != nil {
		t.Fatalf("get outcomes: %v", err)
	}
	if len(got) != len(pop) {
		t.Fatalf("got %d outcomes want %d", len(got), len(pop))
	}
	for i := range got {
		if got[i] != pop[i] {
			t.Fatalf("outcome %d: got %+v want %+v", i, got[i], pop[i])
		}
	}
}

func TestSaveOutcomesRejectsZeroWeight(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	run := &Run{Game: "g"}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	err := s.SaveOutcomes(ctx, run.ID, []optimizer.Outcome{{ID: 1, Weight: 1}, {ID: 2, Weight: 0}})
	if err == nil {
		t.Fatalf("zero weight should violate the check constraint")
	}
	if _, ok := errs.AsErr(err); !ok {
		t.Fatalf("store errors should be *errs.E, got %T", err)
	}
	got, _ := s.GetOutcomes(ctx, run.ID)
	if len(got) != 0 {
		t.Fatalf("failed batch must roll back, got %d rows", len(got))
	}
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, game := range []string{"a", "b", "a"} {
		if err := s.SaveRun(ctx, &Run{Game: game, CreatedAt: base.Add(time.Duration(i) * time.Hour)}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	all, err := s.ListRuns(ctx, "", 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %d %v", len(all), err)
	}
	if !all[0].CreatedAt.After(all[1].CreatedAt) {
		t.Fatalf("runs should be newest first")
	}
	as, err := s.ListRuns(ctx, "a", 1)
	if err != nil || len(as) != 1 || as[0].Game != "a" {
		t.Fatalf("list a: %+v %v", as, err)
	}
}
