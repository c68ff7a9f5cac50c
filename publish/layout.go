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

// Package publish 把優化後的結果表寫成外部遊戲伺服器讀取的目錄結構：
//
//	<root>/books/books_<mode>.jsonl.gz
//	<root>/lookup_tables/lookUpTable_<mode>.csv
//	<root>/lookup_tables/lookUpTableIdToCriteria_<mode>.csv
//	<root>/publish_files/index.json
//	<root>/publish_files/par_sheet_<mode>.json
package publish

import (
	"os"
	"path/filepath"

	"github.com/zintix-labs/reelmath/errs"
)

const (
	DefaultRoot = "library"
	DefaultMode = "base"

	BooksDir   = "books"
	LookupDir  = "lookup_tables"
	PublishDir = "publish_files"
)

// Layout 輸出目錄
type Layout struct {
	Root string
	Mode string
}

func NewLayout(root, mode string) Layout {
	if root == "" {
		root = DefaultRoot
	}
	if mode == "" {
		mode = DefaultMode
	}
	return Layout{Root: root, Mode: mode}
}

func (l Layout) BooksPath(c Codec) string {
	return filepath.Join(l.Root, BooksDir, "books_"+l.Mode+".jsonl"+c.Ext())
}

func (l Layout) LookupPath() string {
	return filepath.Join(l.Root, LookupDir, "lookUpTable_"+l.Mode+".csv")
}

func (l Layout) CriteriaPath() string {
	return filepath.Join(l.Root, LookupDir, "lookUpTableIdToCriteria_"+l.Mode+".csv")
}

func (l Layout) IndexPath() string {
	return filepath.Join(l.Root, PublishDir, "index.json")
}

func (l Layout) ParSheetPath() string {
	return filepath.Join(l.Root, PublishDir, "par_sheet_"+l.Mode+".json")
}

// rel 相對 Root 的路徑，寫入 index.json 用
func (l Layout) rel(p string) string {
	r, err := filepath.Rel(l.Root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(r)
}

// Ensure 建立所有子目錄
func (l Layout) Ensure() error {
	for _, d := range []string{BooksDir, LookupDir, PublishDir} {
		if err := os.MkdirAll(filepath.Join(l.Root, d), 0o755); err != nil {
			return errs.Wrap(err, "create publish dir "+d)
		}
	}
	return nil
}
