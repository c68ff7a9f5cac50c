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

package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLoadConfigFromFlags(t *testing.T) {
	sCfg, closeLog, err := loadConfigFromFlags([]string{"-log-mode", "silence", "-addr", ":0", "-balance", "50", "-pool", "2"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer closeLog()
	defer sCfg.Engine.Close()
	if err := sCfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	if got := sCfg.Sessions.Balance("x"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("initial balance %s", got)
	}
	if sCfg.Library != "" || sCfg.Mode != "base" {
		t.Fatalf("unexpected library/mode %q %q", sCfg.Library, sCfg.Mode)
	}
}

func TestLoadConfigRejectsBadFlags(t *testing.T) {
	for _, args := range [][]string{{"-log-mode", "loud"}, {"-config", "missing.yaml"}} {
		if _, _, err := loadConfigFromFlags(args); err == nil {
			t.Fatalf("%v should fail", args)
		}
	}
}
