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

package reelmath

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/recorder"
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/sdk/calc"
	"github.com/zintix-labs/reelmath/sdk/core"
	"github.com/zintix-labs/reelmath/spec"
	"github.com/zintix-labs/reelmath/stats"
	"golang.org/x/sync/errgroup"
)

// progressStep 每個 worker 累積多少轉才回報一次進度條與檢查 ctx
const progressStep = 1024

// Simulator 批次模擬器：把 N 轉切成 P 段連續的 id 區間，每段由一個 worker 以自己的機台跑完。
//
// worker 之間不共享任何可變狀態；唯一的同步點是 errgroup.Wait 之後的合併與依 id 排序。
type Simulator struct {
	GameName  string
	gs        *spec.GameSetting
	bc        *calc.BoardCalculator
	cf        core.PRNGFactory
	initSeed  int64      // 初始下的種子
	seedmaker *seedMaker // 種子生成器
	spinFn    func(m *Machine, id int) *buf.SpinResult
}

// SimReport 批次模擬結果：依 id 排好序的 SpinResult，id 為 1..N 連續。
type SimReport struct {
	Results []*buf.SpinResult
	Summary *stats.SimSummary // 未加權的原始統計
	Seed    int64
	Workers int
	Used    time.Duration
}

func newSimulatorWithSeed(gs *spec.GameSetting, bc *calc.BoardCalculator, cf core.PRNGFactory, seed int64) *Simulator {
	return &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		bc:        bc,
		cf:        cf,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		spinFn:    (*Machine).Spin,
	}
}

// Seed 回傳建立時的 master seed
func (s *Simulator) Seed() int64 {
	return s.initSeed
}

// idRange 單一 worker 負責的 [start, end] 區間（含兩端）
type idRange struct {
	start, end int
}

// partition 切分 id：每段 spins/workers 轉，最後一段吃掉餘數。
func partition(spins, workers int) []idRange {
	batch := spins / workers
	out := make([]idRange, workers)
	for w := range workers {
		start := w*batch + 1
		n := batch
		if w == workers-1 {
			n = spins - w*batch
		}
		out[w] = idRange{start: start, end: start + n - 1}
	}
	return out
}

// Run 平行執行 spins 轉，回傳依 id 排序的結果與用時。
//
// 任何一個 worker 失敗（錯誤、panic 或 ctx 取消）整批作廢，回傳 KindWorker 錯誤並註明未完成的 id 區間，
// 不會回傳部分結果。
func (s *Simulator) Run(ctx context.Context, spins int, workers int, showpb bool) (*SimReport, error) {
	if spins < 1 {
		return nil, errs.NewWarn("spins must > 0")
	}
	if workers < 1 {
		return nil, errs.NewWarn("workers must > 0")
	}
	workers = min(workers, spins)
	ranges := partition(spins, workers)

	// 依 worker 順序取種子，同一個 master seed + 同樣的 workers 可完整重現
	machines := make([]*Machine, workers)
	recs := make([]*recorder.SpinRecorder, workers)
	for w := range workers {
		m, err := newMachineWithSeed(s.gs, s.bc, s.cf, s.seedmaker.next())
		if err != nil {
			return nil, err
		}
		machines[w] = m
		if recs[w], err = recorder.NewSpinRecorder(s.GameName, s.gs.Optimizer.Buckets); err != nil {
			return nil, err
		}
	}

	bar := pb.StartNew(spins)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var done atomic.Int64

	parts := make([][]*buf.SpinResult, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		g.Go(func() (err error) {
			r := ranges[w]
			m := machines[w]
			rec := recs[w]
			out := make([]*buf.SpinResult, 0, r.end-r.start+1)
			id := r.start
			defer func() {
				if rec := recover(); rec != nil {
					err = workerFailure(w, id, r.end, fmt.Errorf("panic: %v", rec))
				}
			}()
			for ; id <= r.end; id++ {
				if (id-r.start)%progressStep == 0 {
					if cerr := gctx.Err(); cerr != nil {
						return workerFailure(w, id, r.end, cerr)
					}
				}
				sr := s.spinFn(m, id)
				rec.Record(sr)
				out = append(out, sr)
				if (id-r.start+1)%progressStep == 0 {
					bar.Add(progressStep)
				}
			}
			bar.Add(len(out) % progressStep)
			done.Add(int64(len(out)))
			parts[w] = out
			return nil
		})
	}
	err := g.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return nil, err
	}
	if int(done.Load()) != spins {
		return nil, errs.Fatalf("batch produced %d results, want %d", done.Load(), spins).WithKind(errs.KindWorker)
	}

	results := make([]*buf.SpinResult, 0, spins)
	for _, p := range parts {
		results = append(results, p...)
	}
	slices.SortFunc(results, func(a, b *buf.SpinResult) int { return a.ID - b.ID })
	merged, err := recorder.MergeSpinRecorder(recs)
	if err != nil {
		return nil, err
	}

	return &SimReport{
		Results: results,
		Summary: merged.Done(),
		Seed:    s.initSeed,
		Workers: workers,
		Used:    used,
	}, nil
}

func workerFailure(worker, from, to int, cause error) error {
	return errs.WrapWithExtra(cause, fmt.Sprintf("worker %d failed", worker),
		fmt.Sprintf("incomplete ids [%d, %d]", from, to)).WithKind(errs.KindWorker)
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：MachinePool 補機時可能被多 goroutines 同時呼叫，
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
