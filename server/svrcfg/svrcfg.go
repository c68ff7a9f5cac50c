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

package svrcfg

import (
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/server/logger"
	"github.com/zintix-labs/reelmath/server/session"
)

const DefaultAddr = ":8080"

// SvrCfg server 組裝所需的全部依賴，全部透過欄位明確注入。
type SvrCfg struct {
	Log      *slog.Logger
	Addr     string
	Engine   *reelmath.Engine
	Sessions *session.Store
	Library  string // 已發佈的 library 根目錄，空字串則不掛 /v1/replay
	Mode     string // 發佈模式名稱，預設 base
}

// Valid 補預設值並檢查必要依賴
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.Engine == nil {
		return errs.NewFatal("engine is required")
	}
	if sc.Sessions == nil {
		sc.Sessions = session.NewStore(session.DefaultBalance)
	}
	sc.Addr = strings.TrimSpace(sc.Addr)
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.Configf("invalid listen address: %s", sc.Addr)
	}
	sc.Library = strings.TrimSpace(sc.Library)
	if sc.Mode == "" {
		sc.Mode = publish.DefaultMode
	}
	return nil
}

// InitialBalance 沿用 session store 的預設
func InitialBalance(v float64) decimal.Decimal {
	if v <= 0 {
		return session.DefaultBalance
	}
	return decimal.NewFromFloat(v)
}
