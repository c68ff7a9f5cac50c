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

// Package session 保存示範伺服器的玩家餘額。
//
// 餘額以 decimal 計算，避免押注 0.1 這類金額在 float64 下累積誤差。
// Store 只透過參數注入給 handler，不是全域狀態。
package session

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/zintix-labs/reelmath/errs"
)

// DefaultSession 未帶 session 時使用的帳號
const DefaultSession = "default"

// DefaultBalance 新 session 的初始餘額
var DefaultBalance = decimal.NewFromInt(1000)

type account struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

// Store 以 session id 區分帳號，每個帳號有自己的鎖，不同帳號互不阻塞。
type Store struct {
	mu       sync.Mutex
	initial  decimal.Decimal
	accounts map[string]*account
}

func NewStore(initial decimal.Decimal) *Store {
	return &Store{
		initial:  initial,
		accounts: make(map[string]*account),
	}
}

func normalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultSession
	}
	return id
}

func (s *Store) get(id string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		a = &account{balance: s.initial}
		s.accounts[id] = a
	}
	return a
}

// Balance 查詢餘額，第一次查詢會以初始餘額開戶
func (s *Store) Balance(id string) decimal.Decimal {
	a := s.get(normalize(id))
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Settle 扣押注、執行 play、加上贏分，整段在帳號鎖內完成。
//
// 餘額不足時回傳 Warn 錯誤且不執行 play；play 失敗時餘額不變。
func (s *Store) Settle(id string, bet decimal.Decimal, play func() (decimal.Decimal, error)) (decimal.Decimal, error) {
	if !bet.IsPositive() {
		return decimal.Zero, errs.Warnf("bet must be > 0, got %s", bet)
	}
	a := s.get(normalize(id))
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.balance.LessThan(bet) {
		return a.balance, errs.Warnf("insufficient balance: %s < %s", a.balance, bet)
	}
	win, err := play()
	if err != nil {
		return a.balance, err
	}
	a.balance = a.balance.Sub(bet).Add(win)
	return a.balance, nil
}
