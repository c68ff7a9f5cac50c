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

package publish

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/zintix-labs/reelmath/errs"
	"github.com/zintix-labs/reelmath/spec"
)

// Index publish_files/index.json
type Index struct {
	RunID               string            `json:"run_id"`
	GameName            string            `json:"game_name"`
	Version             string            `json:"version"`
	Mode                string            `json:"mode"`
	TotalSimulations    int               `json:"total_simulations"`
	RTPPercent          float64           `json:"rtp_percent"`
	HitFrequencyPercent float64           `json:"hit_frequency_percent"`
	Converged           bool              `json:"converged"`
	Files               map[string]string `json:"files"`
	Config              IndexConfig       `json:"config"`
	CreatedAt           time.Time         `json:"created_at"`
}

// IndexConfig index.json 中的設定摘要
type IndexConfig struct {
	Reels     int      `json:"reels"`
	Rows      int      `json:"rows"`
	Paylines  int      `json:"paylines"`
	Symbols   []string `json:"symbols"`
	TargetRTP float64  `json:"target_rtp"`
}

func newIndexConfig(gs *spec.GameSetting) IndexConfig {
	s := gs.Summary()
	return IndexConfig{
		Reels:     s.Reels,
		Rows:      s.Rows,
		Paylines:  s.Paylines,
		Symbols:   s.Symbols,
		TargetRTP: s.TargetRTP,
	}
}

func WriteIndex(path string, idx *Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(err, "create dir for "+path)
	}
	raw, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errs.Wrap(err, "marshal index")
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errs.Wrap(err, "write "+path)
	}
	return nil
}

// ReadIndex 讀回 index.json
func ReadIndex(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read index")
	}
	idx := new(Index)
	if err := json.Unmarshal(raw, idx); err != nil {
		return nil, errs.Wrap(err, "decode index")
	}
	return idx, nil
}
