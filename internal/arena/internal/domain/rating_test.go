// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeUpdate(t *testing.T) {
	testCases := []struct {
		name      string
		current   RatingRecord
		outcome   SprintOutcome
		reference int64
		want      RatingUpdate
	}{
		{
			name:      "基准用户高分冲刺",
			current:   NewBaselineRecord(1),
			outcome:   SprintOutcome{Difficulty: 3, Score: 9000},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     1021,
				PeakMarketValue: 1021,
				Title:           "初级工程师",
				Delta:           21,
			},
		},
		{
			name:      "得分等于期望得分时身价不变",
			current:   RatingRecord{Uid: 2, MarketValue: 1200, PeakMarketValue: 1300, Version: 3},
			outcome:   SprintOutcome{Difficulty: 3, Score: 5000},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     1200,
				PeakMarketValue: 1300,
				Title:           "中级工程师",
				Delta:           0,
			},
		},
		{
			name:      "零分扣分但巅峰身价不回退",
			current:   RatingRecord{Uid: 3, MarketValue: 1000, PeakMarketValue: 1050, Version: 2},
			outcome:   SprintOutcome{Difficulty: 3, Score: 0},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     992,
				PeakMarketValue: 1050,
				Title:           "初级工程师",
				Delta:           -8,
			},
		},
		{
			name:      "低难度 K 值更小",
			current:   NewBaselineRecord(4),
			outcome:   SprintOutcome{Difficulty: 1, Score: 9000},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     1011,
				PeakMarketValue: 1011,
				Title:           "初级工程师",
				Delta:           11,
			},
		},
		{
			name:      "高身价低得分掉分",
			current:   RatingRecord{Uid: 5, MarketValue: 1500, PeakMarketValue: 1500, Version: 9},
			outcome:   SprintOutcome{Difficulty: 2, Score: 2500},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     1486,
				PeakMarketValue: 1500,
				Title:           "高级工程师",
				Delta:           -14,
			},
		},
		{
			name:      "身价不超过上限",
			current:   RatingRecord{Uid: 6, MarketValue: 2990, PeakMarketValue: 2990, Version: 100},
			outcome:   SprintOutcome{Difficulty: 3, Score: 10000},
			reference: 3000,
			want: RatingUpdate{
				MarketValue:     3000,
				PeakMarketValue: 3000,
				Title:           "技术传奇",
				Delta:           10,
			},
		},
		{
			name:      "远高于参照身价时输了扣满",
			current:   RatingRecord{Uid: 7, MarketValue: 2000, PeakMarketValue: 2000, Version: 5},
			outcome:   SprintOutcome{Difficulty: 3, Score: 0},
			reference: 1200,
			want: RatingUpdate{
				MarketValue:     1968,
				PeakMarketValue: 2000,
				Title:           "资深专家",
				Delta:           -32,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeUpdate(tc.current, tc.outcome, tc.reference)
			assert.Equal(t, tc.want, got)
		})
	}
}

// 巅峰身价单调不减，且始终不低于当前身价
func TestComputeUpdate_PeakInvariant(t *testing.T) {
	scores := []int64{0, 1000, 2500, 5000, 7500, 9000, 10000}
	ratings := []int64{0, 500, 1000, 1200, 1800, 2500, 3000}
	for _, r := range ratings {
		cur := RatingRecord{Uid: 1, MarketValue: r, PeakMarketValue: r, Version: 1}
		for _, s := range scores {
			for d := uint8(1); d <= 3; d++ {
				got := ComputeUpdate(cur, SprintOutcome{Difficulty: d, Score: s}, DefaultReference)
				assert.GreaterOrEqual(t, got.PeakMarketValue, cur.PeakMarketValue)
				assert.GreaterOrEqual(t, got.PeakMarketValue, got.MarketValue)
				assert.LessOrEqual(t, got.MarketValue, MaxRating)
				assert.GreaterOrEqual(t, got.MarketValue, MinRating)
			}
		}
	}
}

func TestExpectedScore(t *testing.T) {
	testCases := []struct {
		name      string
		rating    int64
		reference int64
		want      int64
	}{
		{name: "等于参照", rating: 1200, reference: 1200, want: 5000},
		{name: "低于参照", rating: 1000, reference: 1200, want: 2403},
		{name: "远高于参照", rating: 2000, reference: 1200, want: 9901},
		{name: "远低于参照", rating: 0, reference: 1200, want: 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExpectedScore(tc.rating, tc.reference))
		})
	}
}

// 期望得分关于身价单调不减
func TestExpectedScore_Monotone(t *testing.T) {
	prev := int64(-1)
	for r := int64(0); r <= 3000; r += 50 {
		e := ExpectedScore(r, DefaultReference)
		assert.GreaterOrEqual(t, e, prev)
		prev = e
	}
}

func TestTitleOf(t *testing.T) {
	testCases := []struct {
		name        string
		marketValue int64
		want        string
	}{
		{name: "最低段位", marketValue: 0, want: "见习工程师"},
		{name: "边界含上界", marketValue: 900, want: "见习工程师"},
		{name: "过界进入下一段位", marketValue: 901, want: "初级工程师"},
		{name: "基准身价", marketValue: 1000, want: "初级工程师"},
		{name: "中级", marketValue: 1400, want: "中级工程师"},
		{name: "高级", marketValue: 1401, want: "高级工程师"},
		{name: "资深", marketValue: 2200, want: "资深专家"},
		{name: "顶级", marketValue: 2201, want: "技术传奇"},
		{name: "上限", marketValue: 3000, want: "技术传奇"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TitleOf(tc.marketValue))
		})
	}
}

// 段位映射单调：身价更高的人段位不会更低
func TestTitleOf_Monotone(t *testing.T) {
	rank := func(title string) int {
		order := []string{"见习工程师", "初级工程师", "中级工程师", "高级工程师", "资深专家", "技术传奇"}
		for i, name := range order {
			if name == title {
				return i
			}
		}
		return -1
	}
	prev := -1
	for mv := int64(0); mv <= 3000; mv++ {
		cur := rank(TitleOf(mv))
		assert.GreaterOrEqual(t, cur, prev, "marketValue=%d", mv)
		prev = cur
	}
}
