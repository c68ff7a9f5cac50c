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

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/optimizer"
	_ "modernc.org/sqlite"
)

// outcomeBatch 每個 transaction 最多寫入的筆數
const outcomeBatch = 10000

// tsLayout 固定長度，字串排序即時間排序
const tsLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore Store 的 SQLite 實作（modernc，純 Go）
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite 開啟資料庫並啟用 WAL
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errs.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "enable wal")
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errs.Wrap(err, "enable foreign keys")
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		game        TEXT    NOT NULL,
		spins       INTEGER NOT NULL,
		seed        INTEGER NOT NULL,
		target_rtp  REAL    NOT NULL,
		initial_rtp REAL    NOT NULL,
		final_rtp   REAL    NOT NULL,
		converged   INTEGER NOT NULL DEFAULT 0,
		iterations  INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT    NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outcomes (
		run_id        TEXT    NOT NULL,
		simulation_id INTEGER NOT NULL,
		weight        INTEGER NOT NULL CHECK (weight >= 1),
		payout        REAL    NOT NULL,
		criteria      TEXT    NOT NULL,
		PRIMARY KEY (run_id, simulation_id),
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_game_created ON runs(game, created_at DESC)`,
}

// Migrate 建表，可重複執行
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return errs.Wrap(err, "migration failed")
		}
	}
	return nil
}

// SaveRun ID 為空時自動產生 uuid，CreatedAt 為零值時填入現在時間
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO runs (
		id, game, spins, seed, target_rtp, initial_rtp, final_rtp, converged, iterations, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Game, run.Spins, run.Seed, run.TargetRTP, run.InitialRTP, run.FinalRTP,
		boolInt(run.Converged), run.Iterations, run.CreatedAt.UTC().Format(tsLayout),
	)
	if err != nil {
		return errs.Wrap(err, "save run")
	}
	return nil
}

// SaveOutcomes 分批以 transaction 寫入結果表
func (s *SQLiteStore) SaveOutcomes(ctx context.Context, runID string, pop []optimizer.Outcome) error {
	for start := 0; start < len(pop); start += outcomeBatch {
		end := min(start+outcomeBatch, len(pop))
		if err := s.saveOutcomeBatch(ctx, runID, pop[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) saveOutcomeBatch(ctx context.Context, runID string, pop []optimizer.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO outcomes (run_id, simulation_id, weight, payout, criteria) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return errs.Wrap(err, "prepare outcome insert")
	}
	defer stmt.Close()

	for _, o := range pop {
		if _, err := stmt.ExecContext(ctx, runID, o.ID, o.Weight, o.Payout, o.Criteria); err != nil {
			return errs.Wrap(err, "insert outcome")
		}
	}
	if err := tx.Commit(); err != nil {
		return errs.Wrap(err, "commit outcomes")
	}
	return nil
}

const runColumns = `id, game, spins, seed, target_rtp, initial_rtp, final_rtp, converged, iterations, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var converged int
	var created string
	if err := sc.Scan(&run.ID, &run.Game, &run.Spins, &run.Seed, &run.TargetRTP, &run.InitialRTP,
		&run.FinalRTP, &converged, &run.Iterations, &created); err != nil {
		return nil, err
	}
	run.Converged = converged == 1
	t, err := time.Parse(tsLayout, created)
	if err != nil {
		return nil, errs.Wrap(err, "parse created_at")
	}
	run.CreatedAt = t
	return &run, nil
}

// GetRun 找不到時回傳 Warn 等級錯誤
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Warnf("run %s not found", id)
	}
	if err != nil {
		return nil, errs.Wrap(err, "get run")
	}
	return run, nil
}

// GetOutcomes 依 simulation_id 排序
func (s *SQLiteStore) GetOutcomes(ctx context.Context, runID string) ([]optimizer.Outcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT simulation_id, weight, payout, criteria FROM outcomes WHERE run_id = ? ORDER BY simulation_id`, runID)
	if err != nil {
		return nil, errs.Wrap(err, "query outcomes")
	}
	defer rows.Close()

	var pop []optimizer.Outcome
	for rows.Next() {
		var o optimizer.Outcome
		if err := rows.Scan(&o.ID, &o.Weight, &o.Payout, &o.Criteria); err != nil {
			return nil, errs.Wrap(err, "scan outcome")
		}
		pop = append(pop, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate outcomes")
	}
	return pop, nil
}

// ListRuns 依建立時間新到舊，game 為空時列出全部
func (s *SQLiteStore) ListRuns(ctx context.Context, game string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if game != "" {
		q += ` WHERE game = ?`
		args = append(args, game)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errs.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errs.Wrap(err, "scan run")
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate runs")
	}
	return runs, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
