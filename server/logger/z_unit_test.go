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

package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogMode(t *testing.T) {
	cases := map[string]LogMode{"": ModeDev, "dev": ModeDev, "PROD": ModeProd, "silence": ModeSilence}
	for in, want := range cases {
		got, err := ParseLogMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLogMode("loud"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestAsyncHandlerDrainsOnClose(t *testing.T) {
	var b bytes.Buffer
	ah := NewAsyncHandler(slog.NewJSONHandler(&b, nil), 64)
	log := slog.New(ah)
	for i := range 10 {
		log.Info("spin", slog.Int("i", i))
	}
	ah.Close()
	if n := strings.Count(b.String(), `"msg":"spin"`); n != 10 {
		t.Fatalf("want 10 records got %d (dropped %d)", n, ah.Dropped())
	}
	// 關閉後的紀錄直接丟棄
	log.Info("late")
	if ah.Dropped() != 1 || strings.Contains(b.String(), "late") {
		t.Fatalf("records after close should be dropped")
	}
	ah.Close()
}

func TestWriterLoggerModes(t *testing.T) {
	var b bytes.Buffer
	NewWriterLogger(&b, ModeProd).Debug("hidden")
	NewWriterLogger(&b, ModeProd).Info("shown")
	NewWriterLogger(&b, ModeSilence).Error("gone")
	out := b.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) || strings.Contains(out, "gone") {
		t.Fatalf("unexpected output: %s", out)
	}
}
