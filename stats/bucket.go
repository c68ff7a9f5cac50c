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

package stats

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/zintix-labs/reelmath/errs"
)

// DefaultEdges 預設倍數分桶邊界：[0,0], (0,10], (10,50], (50,100], (100,+inf)
var DefaultEdges = []float64{0, 10, 50, 100}

// PayoutBuckets 倍數 -> 分桶位置
//
// Edges 必須從 0 開始且嚴格遞增，分桶數為 len(Edges)+1。
type PayoutBuckets struct {
	Edges  []float64
	Labels []string
}

// NewPayoutBuckets 空的 edges 使用 DefaultEdges。
func NewPayoutBuckets(edges []float64) (*PayoutBuckets, error) {
	if len(edges) == 0 {
		edges = DefaultEdges
	}
	if edges[0] != 0 {
		return nil, errs.Configf("bucket edges must start at 0, got %v", edges)
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return nil, errs.Configf("bucket edges must be strictly increasing, got %v", edges)
		}
	}
	b := &PayoutBuckets{Edges: slices.Clone(edges)}
	b.Labels = make([]string, 0, len(edges)+1)
	b.Labels = append(b.Labels, "[0,0]")
	for i := 1; i < len(edges); i++ {
		b.Labels = append(b.Labels, fmt.Sprintf("(%s,%s]", fmtEdge(edges[i-1]), fmtEdge(edges[i])))
	}
	b.Labels = append(b.Labels, fmt.Sprintf("(%s,+inf)", fmtEdge(edges[len(edges)-1])))
	return b, nil
}

// Len 分桶數
func (b *PayoutBuckets) Len() int { return len(b.Edges) + 1 }

// Index 倍數所在的分桶位置，<= 0 一律落在第 0 桶。
func (b *PayoutBuckets) Index(payout float64) int {
	if payout <= 0 {
		return 0
	}
	for i := 1; i < len(b.Edges); i++ {
		if payout <= b.Edges[i] {
			return i
		}
	}
	return len(b.Edges)
}

func fmtEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
