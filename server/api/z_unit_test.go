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

package api_test

import (
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zintix-labs/reelmath"
	"github.com/zintix-labs/reelmath/demo/demo_configs"
	"github.com/zintix-labs/reelmath/optimizer"
	"github.com/zintix-labs/reelmath/publish"
	"github.com/zintix-labs/reelmath/server/api"
	"github.com/zintix-labs/reelmath/server/api/stake"
	v1 "github.com/zintix-labs/reelmath/server/api/v1"
	"github.com/zintix-labs/reelmath/server/netsvr"
	"github.com/zintix-labs/reelmath/server/session"
	"github.com/zintix-labs/reelmath/server/svrcfg"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
)

func newServer(t *testing.T, library string) *httptest.Server {
	t.Helper()
	gs, err := demo_configs.Default()
	if err != nil {
		t.Fatalf("load demo config: %v", err)
	}
	eng, err := reelmath.New(gs, reelmath.WithSeed(7), reelmath.WithPoolSize(2))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(eng.Close)
	sCfg := &svrcfg.SvrCfg{Engine: eng, Library: library}
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if err := api.RegisterRoutes(svr, sCfg); err != nil {
		t.Fatalf("register: %v", err)
	}
	ts := httptest.NewServer(svr.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func play(t *testing.T, base, body string, v any) int {
	t.Helper()
	resp, err := http.Post(base+"/api/stake/play", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post play: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode play: %v", err)
		}
	}
	return resp.StatusCode
}

func TestStakeBalanceAndPlay(t *testing.T) {
	ts := newServer(t, "")

	var bal stake.BalanceResponse
	if code := getJSON(t, ts.URL+"/api/stake/balance?session=alice", &bal); code != http.StatusOK {
		t.Fatalf("balance status %d", code)
	}
	if bal.Session != "alice" || bal.Balance != 1000 {
		t.Fatalf("unexpected balance %+v", bal)
	}

	var pr stake.PlayResponse
	if code := play(t, ts.URL, `{"session":"alice","bet":2}`, &pr); code != http.StatusOK {
		t.Fatalf("play status %d", code)
	}
	want := 1000 - 2 + pr.Result.PayoutMultiplier
	if diff := pr.Balance - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("balance %v, want %v", pr.Balance, want)
	}
	if code := getJSON(t, ts.URL+"/api/stake/balance?session=alice", &bal); code != http.StatusOK || bal.Balance != pr.Balance {
		t.Fatalf("balance not persisted: %+v", bal)
	}
	// 其他 session 不受影響
	if getJSON(t, ts.URL+"/api/stake/balance?session=bob", &bal); bal.Balance != 1000 {
		t.Fatalf("bob balance %v", bal.Balance)
	}
}

func TestStakePlayRejects(t *testing.T) {
	ts := newServer(t, "")
	cases := []string{
		`{"session":"carol","bet":0.01}`,  // 低於 min_bet
		`{"session":"carol","bet":500}`,   // 高於 max_bet
		`{"session":"carol","bet":"two"}`, // 型別錯誤
		`{"session":"carol","coins":1}`,   // 未知欄位
	}
	for _, body := range cases {
		if code := play(t, ts.URL, body, nil); code != http.StatusBadRequest {
			t.Fatalf("%s: want 400 got %d", body, code)
		}
	}
	var bal stake.BalanceResponse
	getJSON(t, ts.URL+"/api/stake/balance?session=carol", &bal)
	if bal.Balance != 1000 {
		t.Fatalf("rejected plays must not change balance, got %v", bal.Balance)
	}
}

func TestStakeInsufficientBalance(t *testing.T) {
	gs, _ := demo_configs.Default()
	eng, err := reelmath.New(gs, reelmath.WithSeed(3))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer eng.Close()
	sCfg := &svrcfg.SvrCfg{Engine: eng, Sessions: session.NewStore(svrcfg.InitialBalance(1))}
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	h, err := stake.NewHandler(sCfg)
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	h.Play(rec, httptest.NewRequest(http.MethodPost, "/api/stake/play", strings.NewReader(`{"bet":5}`)))
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "insufficient") {
		t.Fatalf("want 400 insufficient, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestStakeConfig(t *testing.T) {
	ts := newServer(t, "")
	var s spec.Summary
	if code := getJSON(t, ts.URL+"/api/stake/config", &s); code != http.StatusOK {
		t.Fatalf("config status %d", code)
	}
	if s.Reels != 5 || s.Rows != 3 || s.MinBet != 0.1 || s.MaxBet != 100 || len(s.Symbols) == 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestV1Spin(t *testing.T) {
	ts := newServer(t, "")
	var out reelmath.SpinOutcome
	if code := getJSON(t, ts.URL+"/v1/spin?bet=1", &out); code != http.StatusOK {
		t.Fatalf("spin status %d", code)
	}
	if len(out.Board) != 15 || out.Criteria == "" {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if code := getJSON(t, ts.URL+"/v1/spin?bet=abc", nil); code != http.StatusBadRequest {
		t.Fatalf("bad bet want 400 got %d", code)
	}
	if code := getJSON(t, ts.URL+"/v1/replay?bet=1", nil); code != http.StatusNotFound {
		t.Fatalf("replay without library want 404 got %d", code)
	}
}

func TestV1Replay(t *testing.T) {
	dir := t.TempDir()
	gs, _ := demo_configs.Default()
	pop := []optimizer.Outcome{
		{ID: 0, Weight: 1, Payout: 0, Criteria: "basegame"},
		{ID: 1, Weight: 3, Payout: 4, Criteria: "basegame"},
	}
	st, err := stats.Report(pop, nil)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	books := iter.Seq[any](func(yield func(any) bool) {
		for _, o := range pop {
			if !yield(reelmath.Book{ID: o.ID, PayoutMultiplier: o.Payout, BaseGameWins: o.Payout, Criteria: o.Criteria}) {
				return
			}
		}
	})
	if _, err := publish.NewWriter(dir, "", false).Publish(&publish.Run{Setting: gs, Population: pop, Stats: st, Books: books}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ts := newServer(t, dir)
	seen := map[int]int{}
	for range 200 {
		var r v1.ReplayResponse
		if code := getJSON(t, ts.URL+"/v1/replay?bet=0.5", &r); code != http.StatusOK {
			t.Fatalf("replay status %d", code)
		}
		if r.Book.ID != r.SimulationID || r.RunID == "" {
			t.Fatalf("unexpected replay %+v", r)
		}
		if r.SimulationID == 1 && r.Book.PayoutMultiplier != 2 {
			t.Fatalf("book not scaled by bet: %v", r.Book.PayoutMultiplier)
		}
		seen[r.SimulationID]++
	}
	// 權重 1:3
	if seen[1] < seen[0] {
		t.Fatalf("weight 3 outcome drawn less often: %v", seen)
	}
}

func TestRegisterRoutesBadLibrary(t *testing.T) {
	gs, _ := demo_configs.Default()
	eng, err := reelmath.New(gs)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	defer eng.Close()
	sCfg := &svrcfg.SvrCfg{Engine: eng, Library: t.TempDir()}
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if err := api.RegisterRoutes(netsvr.NewChiServer(sCfg.Addr), sCfg); err == nil {
		t.Fatalf("empty library should fail")
	}
}
