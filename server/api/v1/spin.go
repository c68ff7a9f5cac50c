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
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/server/httperr"
	"github.com/zintix-labs/reelmath/server/svrcfg"
)

// SpinHandler 單次旋轉，結果為未乘押注的倍數
type SpinHandler struct {
	eng *reelmath.Engine
}

func NewSpinHandler(sCfg *svrcfg.SvrCfg) (*SpinHandler, error) {
	if sCfg == nil || sCfg.Engine == nil {
		return nil, errs.NewFatal("build spin handler error: engine is nil")
	}
	return &SpinHandler{eng: sCfg.Engine}, nil
}

func (c *SpinHandler) Spin(w http.ResponseWriter, q *http.Request) {
	req, err := buf.DecodeSpinRequest(q)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	// 請求解析完成，設置超時 context
	ctx, cancel := context.WithTimeout(q.Context(), 5*time.Second)
	defer cancel()

	result, err := c.eng.EvaluateSpin(ctx, req.Bet)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httperr.Errs(w, err)
	}
}
