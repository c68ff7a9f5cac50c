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

package buf

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/reelmath/errs"
)

// SpinRequest 單次旋轉 / 下注請求
type SpinRequest struct {
	Session string  `json:"session"` // 會話識別碼（play / balance 用）
	Bet     float64 `json:"bet"`     // 投注額
}

// DecodeSpinRequest 會把 HTTP 請求解碼成 SpinRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（session/bet）。
//   - POST：從 JSON body 反序列化。
//
// 注意：
//   - 這裡只負責解碼與基本型別轉換，bet 是否在合法範圍由 Engine 決定。
//   - POST 會對 body 做大小限制（1MiB）。
func DecodeSpinRequest(r *http.Request) (*SpinRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}

	req := new(SpinRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Session = strings.TrimSpace(q.Get("session"))

		if s := q.Get("bet"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("invalid bet: %v", err))
			}
			req.Bet = v
		}
		return req, nil

	case http.MethodPost:
		// 防止 body 過大（1MiB）
		const maxBody = 1 << 20
		body := io.LimitReader(r.Body, maxBody)
		dec := json.NewDecoder(body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, errs.NewWarn(fmt.Sprintf("invalid json: %v", err))
		}
		req.Session = strings.TrimSpace(req.Session)
		return req, nil

	default:
		return nil, errs.NewWarn("method not allowed")
	}
}
