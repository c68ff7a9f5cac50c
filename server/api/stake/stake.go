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

// Package stake 示範用的押注 API：session 餘額、下注旋轉與遊戲設定摘要。
package stake

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/server/httperr"
	"github.com/zintix-labs/reelmath/server/session"
	"github.com/zintix-labs/reelmath/server/svrcfg"
)

const playTimeout = 5 * time.Second

type Handler struct {
	eng      *reelmath.Engine
	sessions *session.Store
	log      *slog.Logger
}

func NewHandler(sCfg *svrcfg.SvrCfg) (*Handler, error) {
	if sCfg == nil || sCfg.Engine == nil || sCfg.Sessions == nil {
		return nil, errs.NewFatal("stake handler requires engine and session store")
	}
	return &Handler{eng: sCfg.Engine, sessions: sCfg.Sessions, log: sCfg.Log}, nil
}

// BalanceResponse GET /api/stake/balance
type BalanceResponse struct {
	Session string  `json:"session"`
	Balance float64 `json:"balance"`
}

// PlayResponse POST /api/stake/play，result 已乘上押注
type PlayResponse struct {
	Balance float64              `json:"balance"`
	Result  reelmath.SpinOutcome `json:"result"`
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	req, err := buf.DecodeSpinRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	id := sessionID(req.Session)
	bal, _ := h.sessions.Balance(id).Float64()
	writeJSON(w, BalanceResponse{Session: id, Balance: bal})
}

func (h *Handler) Play(w http.ResponseWriter, r *http.Request) {
	req, err := buf.DecodeSpinRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := h.eng.Setting().BetSetting.CheckBet(req.Bet); err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), playTimeout)
	defer cancel()

	var out reelmath.SpinOutcome
	bet := decimal.NewFromFloat(req.Bet)
	bal, err := h.sessions.Settle(sessionID(req.Session), bet, func() (decimal.Decimal, error) {
		o, err := h.eng.EvaluateSpin(ctx, req.Bet)
		if err != nil {
			return decimal.Zero, err
		}
		out = reelmath.ScaleOutcome(o, req.Bet)
		return decimal.NewFromFloat(o.PayoutMultiplier).Mul(bet), nil
	})
	if err != nil {
		httperr.Log(h.log, "stake play failed", err)
		httperr.Errs(w, err)
		return
	}
	f, _ := bal.Float64()
	writeJSON(w, PlayResponse{Balance: f, Result: out})
}

func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.eng.Setting().Summary())
}

func sessionID(s string) string {
	if s == "" {
		return session.DefaultSession
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, err)
	}
}
