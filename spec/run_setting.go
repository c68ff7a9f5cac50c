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
	"slices"

	"github.com/zintix-labs/reelmath/errs"
)

const (
	DefaultSpins         = 100000
	DefaultWorkers       = 10
	DefaultCriteria      = "basegame"
	DefaultTolerance     = 0.1
	DefaultMaxIterations = 500
	MaxIterationsCap     = 1000
)

// SimulationSetting 批次模擬的預設值，CLI 參數可覆寫。
type SimulationSetting struct {
	Spins    int    `yaml:"spins"    json:"spins"`
	Workers  int    `yaml:"workers"  json:"workers"`
	Criteria string `yaml:"criteria" json:"criteria"`
}

func (s *SimulationSetting) init() error {
	if s.Spins == 0 {
		s.Spins = DefaultSpins
	}
	if s.Workers == 0 {
		s.Workers = DefaultWorkers
	}
	if s.Criteria == "" {
		s.Criteria = DefaultCriteria
	}
	if s.Spins < 0 || s.Workers < 0 {
		return errs.Configf("simulation spins/workers must be > 0, got spins=%d workers=%d", s.Spins, s.Workers)
	}
	return nil
}

// OptimizerSetting 權重優化的收斂條件與報表分桶。
//
// Buckets 為遞增的倍數邊界，例如 [0,10,50,100] 代表
// [0,0], (0,10], (10,50], (50,100], (100,+inf)。
type OptimizerSetting struct {
	Tolerance     float64   `yaml:"tolerance"      json:"tolerance"`
	MaxIterations int       `yaml:"max_iterations" json:"max_iterations"`
	Buckets       []float64 `yaml:"buckets"        json:"buckets"`
}

func (o *OptimizerSetting) init() error {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance < 0 {
		return errs.Configf("optimizer tolerance must be > 0, got %v", o.Tolerance)
	}
	if o.MaxIterations < 0 || o.MaxIterations > MaxIterationsCap {
		return errs.Configf("optimizer max_iterations must be in [1,%d], got %d", MaxIterationsCap, o.MaxIterations)
	}
	if len(o.Buckets) > 0 {
		if o.Buckets[0] != 0 {
			return errs.Configf("optimizer buckets must start at 0")
		}
		if !slices.IsSorted(o.Buckets) || len(slices.Compact(slices.Clone(o.Buckets))) != len(o.Buckets) {
			return errs.Configf("optimizer buckets must be strictly increasing")
		}
	}
	return nil
}
