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
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpinResultAddWinAndCap(t *testing.T) {
	board := []int16{1, 2, 3}
	sr := NewSpinResult(7, board, "basegame")
	board[0] = 9
	if sr.Board[0] != 1 {
		t.Fatalf("board should be copied, got %v", sr.Board)
	}

	sr.AddWin(Win{Symbol: 1, Count: 3, Multiplier: 40, Positions: []int16{0, 3, 6}, Payline: 0})
	sr.AddWin(Win{Symbol: 2, Count: 3, Multiplier: 2, Positions: []int16{1, 4, 7}, Payline: ScatterPayline})
	if sr.Payout != 42 || sr.RawPayout != 42 {
		t.Fatalf("expected payout 42, got %v raw %v", sr.Payout, sr.RawPayout)
	}
	if !sr.HasWin() {
		t.Fatalf("expected HasWin")
	}
	if got := sr.LineWins(); len(got) != 1 || got[0].Payline != 0 {
		t.Fatalf("unexpected line wins: %+v", got)
	}

	sr.Cap(50)
	if sr.Capped || sr.Payout != 42 {
		t.Fatalf("should not cap below limit: %+v", sr)
	}
	sr.Cap(30)
	if !sr.Capped || sr.Payout != 30 || sr.RawPayout != 42 {
		t.Fatalf("expected capped payout 30, got %+v", sr)
	}
}

func TestWinJSONShape(t *testing.T) {
	w := Win{Symbol: 3, SymbolName: "GOLD", Count: 4, Multiplier: 25, Positions: []int16{1, 4, 7, 10}, Payline: 2}
	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["symbol"] != "GOLD" || m["kind"].(float64) != 4 || m["win"].(float64) != 25 {
		t.Fatalf("unexpected json: %s", raw)
	}
}

func TestDecodeSpinRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/spin?session=abc&bet=2.5", nil)
	req, err := DecodeSpinRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Session != "abc" || req.Bet != 2.5 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeSpinRequestGETBadBet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/spin?bet=abc", nil)
	if _, err := DecodeSpinRequest(r); err == nil {
		t.Fatalf("expected error for bad bet")
	}
}

func TestDecodeSpinRequestPOST(t *testing.T) {
	data, _ := json.Marshal(map[string]any{"session": " s1 ", "bet": 5})
	r := httptest.NewRequest(http.MethodPost, "/play", bytes.NewReader(data))
	req, err := DecodeSpinRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Session != "s1" || req.Bet != 5 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestDecodeSpinRequestRejectsUnknownFields(t *testing.T) {
	data := []byte(`{"session":"s","bet":1,"unknown":true}`)
	r := httptest.NewRequest(http.MethodPost, "/play", bytes.NewReader(data))
	if _, err := DecodeSpinRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDecodeSpinRequestMethod(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/play", nil)
	if _, err := DecodeSpinRequest(r); err == nil {
		t.Fatalf("expected error for DELETE")
	}
}
