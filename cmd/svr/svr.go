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
	"os"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/server"
	"github.com/zintix-labs/reelmath/server/logger"
	"github.com/zintix-labs/reelmath/server/session"
	"github.com/zintix-labs/reelmath/server/svrcfg"
	"github.com/zintix-labs/reelmath/spec"
)

// 示範伺服器：session 餘額 + 單次旋轉 + library 重播
func main() {
	sCfg, closeLog, err := loadConfigFromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()
	if err := server.Run(sCfg); err != nil {
		closeLog()
		os.Exit(1)
	}
}

type config struct {
	logMode    string
	addr       string
	configPath string
	balance    float64
	library    string
	mode       string
	pool       int
}

func loadConfigFromFlags(args []string) (*svrcfg.SvrCfg, func(), error) {
	cfg := new(config)
	fs := flag.NewFlagSet("svr", flag.ContinueOnError)
	fs.StringVar(&cfg.logMode, "log-mode", "dev", "log mode: dev|prod|silence")
	fs.StringVar(&cfg.addr, "addr", svrcfg.DefaultAddr, "listen address")
	fs.StringVar(&cfg.configPath, "config", "", "game config (.yaml/.json), embedded demo when empty")
	fs.Float64Var(&cfg.balance, "balance", 1000, "initial balance of a new session")
	fs.StringVar(&cfg.library, "library", "", "published library root for /v1/replay, disabled when empty")
	fs.StringVar(&cfg.mode, "mode", "", "published mode name")
	fs.IntVar(&cfg.pool, "pool", 0, "machine pool size, GOMAXPROCS when 0")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	lm, err := logger.ParseLogMode(cfg.logMode)
	if err != nil {
		return nil, nil, err
	}

	var gs *spec.GameSetting
	if cfg.configPath == "" {
		gs, err = demo_configs.Default()
	} else {
		gs, err = spec.LoadGameSetting(cfg.configPath)
	}
	if err != nil {
		return nil, nil, err
	}
	var opts []reelmath.Option
	if cfg.pool > 0 {
		opts = append(opts, reelmath.WithPoolSize(cfg.pool))
	}
	eng, err := reelmath.New(gs, opts...)
	if err != nil {
		return nil, nil, err
	}

	log, ah := logger.NewAsync(4096, lm)
	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Addr:     cfg.addr,
		Engine:   eng,
		Sessions: session.NewStore(svrcfg.InitialBalance(cfg.balance)),
		Library:  cfg.library,
		Mode:     cfg.mode,
	}
	return sCfg, ah.Close, nil
}
