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

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/server/logger"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
)

// 對既有的 lookup table 重新優化
func main() {
	cfg, err := bindVar(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if _, err := execute(cfg, logger.NewDefaultLogger(logger.ModeDev), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type config struct {
	table      string
	configPath string
	target     float64
	iters      int
}

func bindVar(args []string) (*config, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("opt", flag.ContinueOnError)
	fs.StringVar(&cfg.table, "table", "", "lookup table csv (simulation_id,weight,payout_multiplier)")
	fs.StringVar(&cfg.configPath, "config", "", "game config for the PAR sheet, embedded demo when empty")
	fs.Float64Var(&cfg.target, "target", 0, "target rtp percent (default from config)")
	fs.IntVar(&cfg.iters, "iters", 0, "optimizer max iterations (default from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.table == "" {
		return nil, errs.NewWarn("-table is required")
	}
	if cfg.target < 0 {
		return nil, errs.Warnf("target must be > 0, got %v", cfg.target)
	}
	return cfg, nil
}

// outputs 回傳已寫出的檔案路徑
type outputs struct {
	Table    string // 已收斂時為空
	ParSheet string
}

func execute(cfg *config, log *slog.Logger, w io.Writer) (*outputs, error) {
	var (
		gs  *spec.GameSetting
		err error
	)
	if cfg.configPath == "" {
		gs, err = demo_configs.Default()
	} else {
		gs, err = spec.LoadGameSetting(cfg.configPath)
	}
	if err != nil {
		return nil, err
	}
	pop, err := publish.ReadLookupTable(cfg.table)
	if err != nil {
		return nil, err
	}

	s := optimizer.NewSetting(gs)
	if cfg.target > 0 {
		s.Target = cfg.target
	}
	if cfg.iters > 0 {
		s.MaxIterations = cfg.iters
	}
	log = log.With(slog.String("table", cfg.table), slog.Int("outcomes", len(pop)))

	res, optErr := optimizer.Optimize(pop, s)
	if optErr != nil && !errs.IsKind(optErr, errs.KindConvergence) {
		return nil, optErr
	}

	base := strings.TrimSuffix(cfg.table, filepath.Ext(cfg.table))
	out := &outputs{ParSheet: base + "_par_sheet.json"}
	if res.Iterations == 0 && res.Converged {
		log.Info("already within tolerance, table unchanged", slog.Float64("rtp", res.FinalRTP))
	} else {
		out.Table = base + "_optimized.csv"
		if err := publish.WriteLookupTable(out.Table, pop); err != nil {
			return nil, err
		}
		log.Info("optimized table written", slog.String("path", out.Table), slog.Float64("rtp", res.FinalRTP), slog.Int("iterations", res.Iterations))
	}
	if optErr != nil {
		log.Warn("optimizer did not converge", slog.Float64("best_rtp", res.BestRTP), slog.Any("err", optErr))
	}

	ps, err := stats.Report(pop, gs.Optimizer.Buckets)
	if err != nil {
		return nil, err
	}
	if err := publish.WriteParSheet(out.ParSheet, publish.NewParSheet(gs, ps)); err != nil {
		return nil, err
	}
	rep := &stats.RunReport{GameName: gs.GameName, Final: ps, Optimizer: &res}
	fmt.Fprint(w, rep.Table())
	return out, nil
}
