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

package api

import (
	"log/slog"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/server/api/stake"
	v1 "github.com/zintix-labs/reelmath/server/api/v1"
	"github.com/zintix-labs/reelmath/server/netsvr"
	"github.com/zintix-labs/reelmath/server/netsvr/middleware"
	"github.com/zintix-labs/reelmath/server/svrcfg"
)

// RegisterRoutes 註冊 middleware 與全部路由，sCfg 需已通過 Valid。
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log)
	if err := registerStakeAPI(svr, sCfg); err != nil {
		return err
	}
	return registerV1API(svr, sCfg)
}

func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

func registerStakeAPI(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	h, err := stake.NewHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/api/stake", func(r netsvr.NetRouter) {
		r.Get("/balance", h.Balance)
		r.Post("/play", h.Play)
		r.Get("/config", h.Config)
	})
	return nil
}

func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg) error {
	s, err := v1.NewSpinHandler(sCfg)
	if err != nil {
		return err
	}
	var rp *v1.ReplayHandler
	if sCfg.Library != "" {
		rp, err = v1.NewReplayHandler(sCfg, 0)
		if err != nil {
			return errs.Wrap(err, "load library "+sCfg.Library)
		}
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/spin", s.Spin)
		vOne.Post("/spin", s.Spin)
		if rp != nil {
			vOne.Get("/replay", rp.Replay)
		}
	})
	return nil
}
