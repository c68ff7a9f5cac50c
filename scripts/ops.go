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

// ops 開發用的工作腳本：go run ./scripts <task>
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

type task struct {
	desc   string
	steps  [][]string
	filter func(line string) (string, bool) // nil 則原樣輸出
}

var tasks = map[string]task{
	"test": {
		desc:   "go test 全部套件，只顯示 ok/FAIL",
		steps:  [][]string{{"go", "clean", "-testcache"}, {"go", "test", "./...", "-cover", "-count=1"}},
		filter: summaryOnly,
	},
	"test-race": {
		desc:  "go test -race（模擬 worker、機台池、session 併發）",
		steps: [][]string{{"go", "test", "./...", "-race", "-count=1"}},
	},
	"pipeline": {
		desc:  "以內建示範遊戲跑完整管線，輸出到 build/library",
		steps: [][]string{{"go", "run", "./cmd/run", "-spins", "200000", "-seed", "20251019", "-out", "build/library", "-zstd"}},
	},
	"serve": {
		desc:  "啟動示範伺服器並掛上 build/library",
		steps: [][]string{{"go", "run", "./cmd/svr", "-library", "build/library"}},
	},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	t, ok := tasks[os.Args[1]]
	if !ok {
		printColor(colorYellow, "unknown task: "+os.Args[1])
		usage()
		os.Exit(1)
	}
	for _, step := range t.steps {
		printColor(colorGreen, "$ "+strings.Join(step, " "))
		if err := run(step, t.filter); err != nil {
			printColor(colorRed, err.Error())
			os.Exit(1)
		}
	}
}

func usage() {
	fmt.Println("Usage: go run ./scripts <task>")
	names := make([]string, 0, len(tasks))
	for k := range tasks {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("  %-10s %s\n", k, tasks[k].desc)
	}
}

func run(argv []string, filter func(string) (string, bool)) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	if filter == nil {
		cmd.Stdout, cmd.Stderr = os.Stdout, os.Stderr
		return cmd.Run()
	}
	pr, pw := io.Pipe()
	cmd.Stdout, cmd.Stderr = pw, pw
	if err := cmd.Start(); err != nil {
		return err
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(pr)
		for sc.Scan() {
			if line, ok := filter(sc.Text()); ok {
				fmt.Println(line)
			}
		}
	}()
	err := cmd.Wait()
	pw.Close()
	<-done
	return err
}

// summaryOnly 只留 ok / FAIL 與編譯失敗
func summaryOnly(line string) (string, bool) {
	switch {
	case strings.HasPrefix(line, "ok"):
		return colorGreen + line + colorReset, true
	case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "build failed"), strings.Contains(line, "setup failed"):
		return colorRed + line + colorReset, true
	}
	return "", false
}

func printColor(c, msg string) {
	fmt.Printf("%s%s%s\n", c, msg, colorReset)
}
