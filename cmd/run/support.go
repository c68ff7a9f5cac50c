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
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/pipeline"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/sdk/perf"
	"github.com/zintix-labs/reelmath/server/logger"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
	"github.com/zintix-labs/reelmath/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type config struct {
	configPath string
	spins      int
	worker     int
	seed       int64
	out        string
	mode       string
	iters      int
	db         string
	zstd       bool
	report     string
	logMode    string
	progress   bool
	pprofmode  string
}

func bindVar(args []string) (*config, error) {
	cfg := new(config)
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&cfg.configPath, "config", "", "game config (.yaml/.json), embedded demo when empty")
	fs.IntVar(&cfg.spins, "spins", 0, "number of simulations (default from config)")
	fs.IntVar(&cfg.worker, "worker", 0, "number of workers (default from config)")
	fs.Int64Var(&cfg.seed, "seed", -1, "int64 master seed, random when < 1")
	fs.StringVar(&cfg.out, "out", publish.DefaultRoot, "library output directory")
	fs.StringVar(&cfg.mode, "mode", publish.DefaultMode, "publish mode name")
	fs.IntVar(&cfg.iters, "iters", 0, "optimizer max iterations (default from config)")
	fs.StringVar(&cfg.db, "db", "", "sqlite path for run persistence, disabled when empty")
	fs.BoolVar(&cfg.zstd, "zstd", false, "also write a zstd books file")
	fs.StringVar(&cfg.report, "report", "table", "report format: table|json|yaml")
	fs.StringVar(&cfg.logMode, "log-mode", "dev", "log mode: dev|prod|silence")
	fs.BoolVar(&cfg.progress, "pb", true, "show progress bar")
	fs.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, cfg.valid()
}

func (cfg *config) valid() error {
	if cfg.spins < 0 {
		return errs.Warnf("spins must be > 0, got %d", cfg.spins)
	}
	if cfg.worker < 0 {
		return errs.Warnf("worker must be > 0, got %d", cfg.worker)
	}
	if cfg.iters < 0 || cfg.iters > spec.MaxIterationsCap {
		return errs.Warnf("iters must be in [1,%d], got %d", spec.MaxIterationsCap, cfg.iters)
	}
	if !slices.Contains(perf.Modes, cfg.pprofmode) {
		return errs.Warnf("unknown pprof mode %q", cfg.pprofmode)
	}
	if _, err := logger.ParseLogMode(cfg.logMode); err != nil {
		return err
	}
	_, err := stats.NewRender(cfg.report)
	return err
}

func loadSetting(path string) (*spec.GameSetting, error) {
	if path == "" {
		return demo_configs.Default()
	}
	return spec.LoadGameSetting(path)
}

func execute(cfg *config, w io.Writer) error {
	lm, _ := logger.ParseLogMode(cfg.logMode)
	log := logger.NewDefaultLogger(lm)

	gs, err := loadSetting(cfg.configPath)
	if err != nil {
		return err
	}
	eng, err := reelmath.New(gs)
	if err != nil {
		return err
	}
	defer eng.Close()

	var sim *reelmath.Simulator
	if cfg.seed < 1 {
		if sim, err = eng.NewSimulator(); err != nil {
			return err
		}
	} else {
		sim = eng.NewSimulatorWithSeed(cfg.seed)
	}

	var st store.Store
	if cfg.db != "" {
		s, err := store.OpenSQLite(cfg.db)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(context.Background()); err != nil {
			return err
		}
		st = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	green, reset := "\033[1;32m", "\033[0m"
	p := message.NewPrinter(language.English)
	spins := cfg.spins
	if spins == 0 {
		spins = gs.Simulation.Spins
	}
	p.Fprintf(os.Stderr, "%s[GAME:%s] [SPINS:%d] [SEED:%d]%s\n", green, gs.GameName, spins, sim.Seed(), reset)

	res, err := pipeline.Run(ctx, eng, sim, pipeline.Config{
		Spins:         cfg.spins,
		Workers:       cfg.worker,
		OutDir:        cfg.out,
		Mode:          cfg.mode,
		MaxIterations: cfg.iters,
		Zstd:          cfg.zstd,
		ShowProgress:  cfg.progress,
		Store:         st,
		Log:           log,
	})
	if err != nil {
		return err
	}
	render, _ := stats.NewRender(cfg.report)
	if err := render.Write(w, res.Report); err != nil {
		return err
	}
	if cfg.report == "table" {
		fmt.Fprintln(w, stats.FormatDuration(res.Used, spins))
	}
	if res.Warning != nil {
		log.Warn("library published without convergence", slog.String("run_id", res.Report.RunID), slog.Any("err", res.Warning))
	}
	return nil
}
