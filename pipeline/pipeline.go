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

// Package pipeline 串起一次完整的 RTP 管線：
// 批次模擬 → 建立 outcome 表 → 優化前統計 → 權重優化 → 優化後統計 → 發佈 library → （選用）寫入資料庫。
//
// 優化未收斂不會中斷管線：結果照常發佈，index.json 與 RunReport 都標記 converged=false，
// 錯誤以 Result.Warning 回傳給呼叫端決定如何呈現。
package pipeline

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/stats"
	"github.com/zintix-labs/reelmath/store"
)

// Config 單次管線參數，零值欄位沿用遊戲設定
type Config struct {
	Spins         int
	Workers       int
	Seed          int64
	OutDir        string
	Mode          string
	MaxIterations int
	Zstd          bool
	ShowProgress  bool
	Store         store.Store // nil 則不寫資料庫
	Log           *slog.Logger
}

// Result 管線輸出
type Result struct {
	Report  *stats.RunReport
	Index   *publish.Index
	Warning error         // 未收斂時的 KindConvergence 錯誤
	Used    time.Duration // 模擬用時
}

// Run 執行管線，sim 決定 master seed（cfg.Seed 只用於紀錄）。
func Run(ctx context.Context, eng *reelmath.Engine, sim *reelmath.Simulator, cfg Config) (*Result, error) {
	if eng == nil || sim == nil {
		return nil, errs.NewFatal("pipeline: engine and simulator are required")
	}
	gs := eng.Setting()
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	spins := cfg.Spins
	if spins <= 0 {
		spins = gs.Simulation.Spins
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = gs.Simulation.Workers
	}
	runID := uuid.NewString()
	log = log.With(slog.String("run_id", runID), slog.String("game", gs.GameName))

	// 1. 模擬
	log.Info("simulate", slog.Int("spins", spins), slog.Int("workers", workers), slog.Int64("seed", sim.Seed()))
	rep, err := sim.Run(ctx, spins, workers, cfg.ShowProgress)
	if err != nil {
		return nil, errs.Wrap(err, "pipeline: simulate")
	}

	// 2. 統計與優化
	edges := gs.Optimizer.Buckets
	pop := optimizer.FromResults(rep.Results)
	initial, err := stats.Report(pop, edges)
	if err != nil {
		return nil, err
	}
	setting := optimizer.NewSetting(gs)
	if cfg.MaxIterations > 0 {
		setting.MaxIterations = cfg.MaxIterations
	}
	log.Info("optimize", slog.Float64("rtp", initial.RTP), slog.Float64("target", setting.Target))
	res, optErr := optimizer.Optimize(pop, setting)
	var warning error
	if optErr != nil {
		if !errs.IsKind(optErr, errs.KindConvergence) {
			return nil, optErr
		}
		warning = optErr
		log.Warn("optimizer did not converge", slog.Float64("best_rtp", res.BestRTP), slog.Int("iterations", res.Iterations), slog.Any("err", optErr))
	} else {
		log.Info("optimized", slog.Float64("rtp", res.FinalRTP), slog.Int("iterations", res.Iterations))
	}
	final, err := stats.Report(pop, edges)
	if err != nil {
		return nil, err
	}

	// 3. 發佈
	sym := &gs.SymbolSetting
	books := iter.Seq[any](func(yield func(any) bool) {
		for _, sr := range rep.Results {
			if !yield(reelmath.NewBook(sr, sym)) {
				return
			}
		}
	})
	w := publish.NewWriter(cfg.OutDir, cfg.Mode, cfg.Zstd)
	idx, err := w.Publish(&publish.Run{
		RunID:      runID,
		Setting:    gs,
		Population: pop,
		Stats:      final,
		Converged:  res.Converged,
		Books:      books,
	})
	if err != nil {
		return nil, errs.Wrap(err, "pipeline: publish")
	}
	log.Info("published", slog.String("root", w.Layout.Root), slog.Int("files", len(idx.Files)))

	// 4. 持久化
	if cfg.Store != nil {
		if err := persist(ctx, cfg.Store, runID, spins, sim.Seed(), pop, res, gs.GameName); err != nil {
			return nil, err
		}
		log.Info("stored", slog.Int("outcomes", len(pop)))
	}

	return &Result{
		Report: &stats.RunReport{
			GameName:   gs.GameName,
			RunID:      runID,
			Seed:       sim.Seed(),
			Simulation: rep.Summary,
			Initial:    initial,
			Final:      final,
			Optimizer:  &res,
		},
		Index:   idx,
		Warning: warning,
		Used:    rep.Used,
	}, nil
}

func persist(ctx context.Context, st store.Store, runID string, spins int, seed int64, pop []optimizer.Outcome, res optimizer.Result, game string) error {
	run := &store.Run{
		ID:         runID,
		Game:       game,
		Spins:      spins,
		Seed:       seed,
		TargetRTP:  res.Target,
		InitialRTP: res.InitialRTP,
		FinalRTP:   res.FinalRTP,
		Converged:  res.Converged,
		Iterations: res.Iterations,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return errs.Wrap(err, "pipeline: save run")
	}
	if err := st.SaveOutcomes(ctx, runID, pop); err != nil {
		return errs.Wrap(err, "pipeline: save outcomes")
	}
	return nil
}
