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

// Package store 把每次管線執行的摘要與優化後的結果表存進 SQLite，方便事後比對不同 seed / 目標的結果。
package store

import (
	"context"
	"time"

	"github.com/zintix-labs/reelmath/optimizer"
)

// Store 持久化介面
type Store interface {
	Close() error
	Migrate(ctx context.Context) error
	SaveRun(ctx context.Context, run *Run) error
	SaveOutcomes(ctx context.Context, runID string, pop []optimizer.Outcome) error
	GetRun(ctx context.Context, id string) (*Run, error)
	GetOutcomes(ctx context.Context, runID string) ([]optimizer.Outcome, error)
	ListRuns(ctx context.Context, game string, limit int) ([]Run, error)
}

// Run 一次管線執行
type Run struct {
	ID         string    `json:"id"`
	Game       string    `json:"game"`
	Spins      int       `json:"spins"`
	Seed       int64     `json:"seed"`
	TargetRTP  float64   `json:"target_rtp"`
	InitialRTP float64   `json:"initial_rtp"`
	FinalRTP   float64   `json:"final_rtp"`
	Converged  bool      `json:"converged"`
	Iterations int       `json:"iterations"`
	CreatedAt  time.Time `json:"created_at"`
}
