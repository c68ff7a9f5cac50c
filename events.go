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
	"github.com/zintix-labs/reelmath/sdk/buf"
	"github.com/zintix-labs/reelmath/spec"
)

// 事件類型
const (
	EventReveal      = "reveal"
	EventWinInfo     = "winInfo"
	EventSetWin      = "setWin"
	EventSetTotalWin = "setTotalWin"
	EventFinalWin    = "finalWin"
)

// Event 前端表演事件，只描述已發生的結果，不含任何決策。
//
// 依類型只會填部分欄位，其餘以 omitempty 省略。
type Event struct {
	Index            int        `json:"index"`
	Type             string     `json:"type"`
	Board            []string   `json:"board,omitempty"`
	PaddingPositions *[]int     `json:"paddingPositions,omitempty"`
	GameType         string     `json:"gameType,omitempty"`
	Anticipation     *[]int     `json:"anticipation,omitempty"`
	TotalWin         *float64   `json:"totalWin,omitempty"`
	Wins             []EventWin `json:"wins,omitempty"`
	Amount           *float64   `json:"amount,omitempty"`
	WinLevel         *int       `json:"winLevel,omitempty"`
}

// EventWin winInfo 內的單筆得分
type EventWin struct {
	Symbol    string         `json:"symbol"`
	Kind      int            `json:"kind"`
	Win       float64        `json:"win"`
	Positions []int16        `json:"positions"`
	Meta      map[string]any `json:"meta"`
}

// Book 一局的完整紀錄（books_*.jsonl 的一行）。
type Book struct {
	ID               int     `json:"id"`
	PayoutMultiplier float64 `json:"payoutMultiplier"`
	Events           []Event `json:"events"`
	Criteria         string  `json:"criteria"`
	BaseGameWins     float64 `json:"baseGameWins"`
	FreeGameWins     float64 `json:"freeGameWins"`
	BonusTriggered   bool    `json:"bonusTriggered,omitempty"`
}

// WinLevel 依總倍數分級：0 / <10 / <50 / <100 / 其餘。
func WinLevel(win float64) int {
	switch {
	case win == 0:
		return 0
	case win < 10:
		return 1
	case win < 50:
		return 2
	case win < 100:
		return 3
	default:
		return 4
	}
}

// BuildEvents 由 SpinResult 推導事件序列：reveal，若有得分再接 winInfo / setWin / setTotalWin / finalWin。
// 相同的 SpinResult 一定得到相同的事件。
func BuildEvents(sr *buf.SpinResult, sym *spec.SymbolSetting) []Event {
	board := make([]string, len(sr.Board))
	for i, s := range sr.Board {
		board[i] = sym.Name(s)
	}
	events := make([]Event, 0, 5)
	events = append(events, Event{
		Index:            0,
		Type:             EventReveal,
		Board:            board,
		PaddingPositions: &[]int{},
		GameType:         spec.DefaultCriteria,
		Anticipation:     &[]int{},
	})
	if !sr.HasWin() {
		return events
	}

	total := sr.Payout
	wins := make([]EventWin, len(sr.Wins))
	for i, w := range sr.Wins {
		wins[i] = EventWin{
			Symbol:    w.SymbolName,
			Kind:      w.Count,
			Win:       w.Multiplier,
			Positions: w.Positions,
			Meta:      map[string]any{},
		}
		if w.IsScatter() {
			wins[i].Meta["scatter"] = true
		} else {
			wins[i].Meta["payline"] = w.Payline
		}
	}
	level := WinLevel(total)
	events = append(events,
		Event{Index: 1, Type: EventWinInfo, TotalWin: ptr(total), Wins: wins},
		Event{Index: 2, Type: EventSetWin, Amount: ptr(total), WinLevel: &level},
		Event{Index: 3, Type: EventSetTotalWin, Amount: ptr(total)},
		Event{Index: 4, Type: EventFinalWin, Amount: ptr(total)},
	)
	return events
}

// NewBook 由 SpinResult 組出未乘押注的 Book。
func NewBook(sr *buf.SpinResult, sym *spec.SymbolSetting) Book {
	return Book{
		ID:               sr.ID,
		PayoutMultiplier: sr.Payout,
		Events:           BuildEvents(sr, sym),
		Criteria:         sr.Criteria,
		BaseGameWins:     sr.Payout / 100.0,
		FreeGameWins:     0,
		BonusTriggered:   sr.BonusTriggered,
	}
}

// ScaleBook 回傳乘上押注後的副本，原 Book 不受影響。
//
// 乘上 bet 的欄位：winInfo.totalWin、每筆 wins[].win、setWin / setTotalWin / finalWin 的 amount、
// payoutMultiplier 與 baseGameWins。winLevel 維持未乘押注時的分級。
func ScaleBook(b Book, bet float64) Book {
	scaled := b.PayoutMultiplier * bet
	out := b
	out.PayoutMultiplier = scaled
	out.BaseGameWins = scaled
	out.Events = scaleEvents(b.Events, scaled, bet)
	return out
}

// ScaleOutcome 與 ScaleBook 相同規則，作用在單次旋轉結果上，回傳副本。
func ScaleOutcome(o SpinOutcome, bet float64) SpinOutcome {
	scaled := o.PayoutMultiplier * bet
	out := o
	out.PayoutMultiplier = scaled
	out.Wins = make([]Win, len(o.Wins))
	for i, w := range o.Wins {
		w.Multiplier *= bet
		out.Wins[i] = w
	}
	out.Events = scaleEvents(o.Events, scaled, bet)
	return out
}

func scaleEvents(events []Event, scaled, bet float64) []Event {
	out := make([]Event, len(events))
	for i, e := range events {
		switch e.Type {
		case EventWinInfo:
			e.TotalWin = ptr(scaled)
			wins := make([]EventWin, len(e.Wins))
			for j, w := range e.Wins {
				w.Win *= bet
				wins[j] = w
			}
			e.Wins = wins
		case EventSetWin, EventSetTotalWin, EventFinalWin:
			e.Amount = ptr(scaled)
		}
		out[i] = e
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
