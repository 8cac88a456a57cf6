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

import "math"

const (
	// BaselineRating 首次参加冲刺的初始身价
	BaselineRating int64 = 1000
	MinRating      int64 = 0
	MaxRating      int64 = 3000
	// DefaultReference 没有任何已结算记录时的参照身价
	DefaultReference int64 = 1200
	// MaxScore 得分采用万分制，避免浮点误差
	MaxScore int64 = 10000
	// 单场身价波动上限
	maxSwing int64 = 50
)

// RatingRecord 一个用户的身价记录，version 用于乐观并发控制
type RatingRecord struct {
	Uid             int64
	MarketValue     int64
	PeakMarketValue int64
	Title           string
	Version         int64
}

// SprintOutcome 一次冲刺的结果。Score 是万分制的归一化得分
type SprintOutcome struct {
	AttemptSN  string
	Track      Track
	Difficulty uint8
	Score      int64
	StartedAt  int64
	FinishedAt int64
}

type RatingUpdate struct {
	MarketValue     int64
	PeakMarketValue int64
	Title           string
	// Delta 实际生效的身价变动，夹逼之后的值
	Delta int64
}

// ComputeUpdate 根据冲刺结果计算新的身价。纯函数，不做任何 IO，
// reference 是滚动参照身价，由调用方提供
func ComputeUpdate(current RatingRecord, outcome SprintOutcome, reference int64) RatingUpdate {
	expected := ExpectedScore(current.MarketValue, reference)
	k := kFactor(outcome.Difficulty)
	delta := int64(math.Round(float64(k*(outcome.Score-expected)) / float64(MaxScore)))
	if delta > maxSwing {
		delta = maxSwing
	} else if delta < -maxSwing {
		delta = -maxSwing
	}
	mv := current.MarketValue + delta
	if mv > MaxRating {
		mv = MaxRating
	} else if mv < MinRating {
		mv = MinRating
	}
	peak := current.PeakMarketValue
	if mv > peak {
		peak = mv
	}
	return RatingUpdate{
		MarketValue:     mv,
		PeakMarketValue: peak,
		Title:           TitleOf(mv),
		Delta:           mv - current.MarketValue,
	}
}

// ExpectedScore 期望得分（万分制）。Elo 式的 logistic 曲线，
// 以 reference 为中心，身价越高期望得分越高
func ExpectedScore(rating, reference int64) int64 {
	return int64(math.Round(float64(MaxScore) / (1.0 + math.Pow(10, float64(reference-rating)/400.0))))
}

// NewBaselineRecord 用户第一次参加冲刺时合成的初始记录
func NewBaselineRecord(uid int64) RatingRecord {
	return RatingRecord{
		Uid:             uid,
		MarketValue:     BaselineRating,
		PeakMarketValue: BaselineRating,
		Title:           TitleOf(BaselineRating),
		Version:         1,
	}
}

// 难度越高 K 越大，单场结果对身价影响越大
func kFactor(difficulty uint8) int64 {
	switch difficulty {
	case 3:
		return 32
	case 2:
		return 24
	default:
		return 16
	}
}

type titleTier struct {
	// upper 是该段位身价的上界，左开右闭
	upper int64
	name  string
}

// 段位表，按 upper 升序。身价恰好落在边界上时归属低段位（含上界）
var titleTiers = []titleTier{
	{upper: 900, name: "见习工程师"},
	{upper: 1100, name: "初级工程师"},
	{upper: 1400, name: "中级工程师"},
	{upper: 1800, name: "高级工程师"},
	{upper: 2200, name: "资深专家"},
}

const topTitle = "技术传奇"

// TitleOf 身价到段位的映射，身价的纯函数
func TitleOf(marketValue int64) string {
	for _, tier := range titleTiers {
		if marketValue <= tier.upper {
			return tier.name
		}
	}
	return topTitle
}
