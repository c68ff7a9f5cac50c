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

package demo_configs

import (
	"embed"

	"github.com/zintix-labs/reelmath/spec"
)

// FS provides embedded default config YAMLs for external usage.
//
//go:embed *.yaml
var FS embed.FS

// MarketSurge 內建示範遊戲的設定檔名
const MarketSurge = "market_surge.yaml"

// Default 載入內建示範遊戲設定。
func Default() (*spec.GameSetting, error) {
	return spec.LoadGameSettingFS(FS, MarketSurge)
}
