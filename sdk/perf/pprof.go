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

// Package perf 以 runtime/pprof 包住一次 CLI 執行，輸出檔可直接給 go tool pprof 或 PGO 使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/reelmath/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Modes 支援的 -p 參數
var Modes = []string{"", "cpu", "heap", "allocs"}

// RunPProf 依 mode 執行 exe 並寫出 profile：
//   - ""：只執行
//   - cpu：執行期間取樣，寫 cpu.pprof
//   - heap：執行後 GC 一次再寫 heap.pprof（in-use）
//   - allocs：執行後寫 allocs.pprof（累積配置）
//
// exe 的錯誤優先回傳。
func RunPProf(exe func() error, mode, dir string) error {
	if dir == "" {
		dir = DefaultDir
	}
	switch mode {
	case "":
		return exe()
	case "cpu":
		f, err := create(dir, "cpu.pprof")
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile")
		}
		defer pprof.StopCPUProfile()
		return exe()
	case "heap", "allocs":
		if err := exe(); err != nil {
			return err
		}
		if mode == "heap" {
			runtime.GC()
		}
		f, err := create(dir, mode+".pprof")
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.Lookup(mode).WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write "+mode+" profile")
		}
		return nil
	default:
		return errs.Warnf("unknown pprof mode %q (cpu|heap|allocs)", mode)
	}
}

func create(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrap(err, "create profiling dir")
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, errs.Wrap(err, "create "+name)
	}
	return f, nil
}
