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

package spec

import (
	"math"
	"strings"

	"github.com/zintix-labs/reelmath/errs"
)

// MaxSymbols 圖標上限，算分器使用 uint64 遮罩
const MaxSymbols = 64

// NoSymbol 代表「未指定」的圖標 id
const NoSymbol int16 = -1

// SymbolKind 圖標類別
type SymbolKind uint8

const (
	KindNormal SymbolKind = iota
	KindWild
	KindScatter
	KindBonus
)

var symbolKindMap = map[string]SymbolKind{
	"":        KindNormal,
	"normal":  KindNormal,
	"wild":    KindWild,
	"scatter": KindScatter,
	"bonus":   KindBonus,
}

func ParseSymbolKind(s string) (SymbolKind, bool) {
	k, ok := symbolKindMap[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// IsSpecial : scatter 與 bonus 不可被 wild 代任，也不能作為線獎的起手
func (k SymbolKind) IsSpecial() bool {
	return k == KindScatter || k == KindBonus
}

// SymbolDef 單一圖標設定
type SymbolDef struct {
	Name string          `yaml:"name" json:"name"`
	Kind string          `yaml:"kind" json:"kind"`
	Pays map[int]float64 `yaml:"pays" json:"pays"` // 連線數 -> 倍數
}

// SymbolSetting 圖標與賠率表。
//
// 賠率表會被攤平成 PayTableFlat，查表方式為 PayTableFlat[PayTableIndex[sym] + (count-1)]，
// 每個圖標佔用 ScreenSize 格：線獎只會用到前 Reels 格，分散圖標可以數到整個盤面。
type SymbolSetting struct {
	Symbols       []SymbolDef      `yaml:"symbols" json:"symbols"`
	Names         []string         `yaml:"-"       json:"-"`
	Kinds         []SymbolKind     `yaml:"-"       json:"-"`
	SymbolCount   int              `yaml:"-"       json:"-"`
	PayTableFlat  []float64        `yaml:"-"       json:"-"`
	PayTableIndex []int            `yaml:"-"       json:"-"`
	Wild          int16            `yaml:"-"       json:"-"`
	Scatter       int16            `yaml:"-"       json:"-"`
	Bonus         int16            `yaml:"-"       json:"-"`
	byName        map[string]int16 // 名稱反查 id
	payLen        int
	initFlag      bool
}

// Init 解析圖標類別並建立攤平賠率表，maxCount 為可計數的最大數量（盤面格數）。
func (ss *SymbolSetting) Init(maxCount int) error {
	// 檢查初始化旗標
	if ss.initFlag {
		return nil
	}
	n := len(ss.Symbols)
	if n == 0 {
		return errs.Configf("symbols is empty")
	}
	if n > MaxSymbols {
		return errs.Configf("too many symbols: %d > %d", n, MaxSymbols)
	}
	if maxCount <= 0 {
		return errs.Configf("invalid max count: %d", maxCount)
	}

	ss.Names = make([]string, n)
	ss.Kinds = make([]SymbolKind, n)
	ss.byName = make(map[string]int16, n)
	ss.Wild, ss.Scatter, ss.Bonus = NoSymbol, NoSymbol, NoSymbol
	ss.payLen = maxCount
	ss.PayTableFlat = make([]float64, n*maxCount)
	ss.PayTableIndex = make([]int, n)

	for i, def := range ss.Symbols {
		id := int16(i)
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return errs.Configf("symbol #%d has empty name", i)
		}
		if _, dup := ss.byName[name]; dup {
			return errs.Configf("duplicate symbol name: %s", name)
		}
		kind, ok := ParseSymbolKind(def.Kind)
		if !ok {
			return errs.Configf("symbol %s has unknown kind %q", name, def.Kind)
		}
		switch kind {
		case KindWild:
			if ss.Wild != NoSymbol {
				return errs.Configf("more than one wild symbol: %s", name)
			}
			ss.Wild = id
		case KindScatter:
			if ss.Scatter != NoSymbol {
				return errs.Configf("more than one scatter symbol: %s", name)
			}
			ss.Scatter = id
		case KindBonus:
			if ss.Bonus != NoSymbol {
				return errs.Configf("more than one bonus symbol: %s", name)
			}
			ss.Bonus = id
		}
		ss.Names[i] = name
		ss.Kinds[i] = kind
		ss.byName[name] = id

		base := i * maxCount
		ss.PayTableIndex[i] = base
		for count, mult := range def.Pays {
			if count < 1 || count > maxCount {
				return errs.Configf("symbol %s pays count %d out of range [1,%d]", name, count, maxCount)
			}
			if mult < 0 || math.IsNaN(mult) || math.IsInf(mult, 0) {
				return errs.Configf("symbol %s pays negative or invalid multiplier %v for %d", name, mult, count)
			}
			ss.PayTableFlat[base+count-1] = mult
		}
	}
	ss.SymbolCount = n
	// set 初始化旗標
	ss.initFlag = true
	return nil
}

// ID 依名稱取得圖標 id。
func (ss *SymbolSetting) ID(name string) (int16, bool) {
	id, ok := ss.byName[strings.TrimSpace(name)]
	return id, ok
}

// Name 依 id 取得圖標名稱，越界回傳空字串。
func (ss *SymbolSetting) Name(id int16) string {
	if id < 0 || int(id) >= len(ss.Names) {
		return ""
	}
	return ss.Names[id]
}

// Pay 查表：圖標 sym 連線 count 的倍數，越界一律回 0。
func (ss *SymbolSetting) Pay(sym int16, count int) float64 {
	if sym < 0 || int(sym) >= ss.SymbolCount || count < 1 || count > ss.payLen {
		return 0
	}
	return ss.PayTableFlat[ss.PayTableIndex[sym]+count-1]
}
