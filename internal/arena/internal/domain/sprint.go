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

import "time"

type Track uint8

const (
	TrackUnknown    Track = 0
	TrackTechnical  Track = 1
	TrackBehavioral Track = 2
)

func (t Track) ToUint8() uint8 {
	return uint8(t)
}

func (t Track) String() string {
	switch t {
	case TrackTechnical:
		return "technical"
	case TrackBehavioral:
		return "behavioral"
	default:
		return "unknown"
	}
}

func ParseTrack(s string) Track {
	switch s {
	case "technical":
		return TrackTechnical
	case "behavioral":
		return TrackBehavioral
	default:
		return TrackUnknown
	}
}

func ValidDifficulty(d uint8) bool {
	return d >= 1 && d <= 3
}

type AttemptStatus uint8

const (
	// AttemptStatusWarmed 预热完成，题目尚未下发
	AttemptStatusWarmed AttemptStatus = 1
	// AttemptStatusActive 题目已下发，等待提交
	AttemptStatusActive AttemptStatus = 2
	// AttemptStatusSubmitted 客户端已提交结果，等待结算
	AttemptStatusSubmitted AttemptStatus = 3
	// AttemptStatusRated 已结算，终态
	AttemptStatusRated AttemptStatus = 4
	// AttemptStatusRejected 校验失败，终态
	AttemptStatusRejected AttemptStatus = 5
	// AttemptStatusExpired 超时未提交，终态
	AttemptStatusExpired AttemptStatus = 6
)

func (s AttemptStatus) ToUint8() uint8 {
	return uint8(s)
}

func (s AttemptStatus) Terminal() bool {
	return s == AttemptStatusRated || s == AttemptStatusRejected || s == AttemptStatusExpired
}

// SprintAttempt 一次冲刺场次。SN 是幂等键，
// 同一个 SN 的重复提交最多只会产生一次身价变动
type SprintAttempt struct {
	Id          int64
	SN          string
	Uid         int64
	Track       Track
	Difficulty  uint8
	QuestionIds []int64
	Status      AttemptStatus
	StartedAt   int64

	// 结算快照，RATED 之后有效，用于幂等重放
	Score              int64
	Delta              int64
	NewMarketValue     int64
	NewPeakMarketValue int64
	NewVersion         int64

	Ctime int64
	Utime int64
}

// SettledRecord 由结算快照还原结算完成时刻的身价记录，只在 RATED 状态下有意义。
// 同一个用户后续场次的结算不会影响这里的结果
func (a SprintAttempt) SettledRecord() RatingRecord {
	return RatingRecord{
		Uid:             a.Uid,
		MarketValue:     a.NewMarketValue,
		PeakMarketValue: a.NewPeakMarketValue,
		Title:           TitleOf(a.NewMarketValue),
		Version:         a.NewVersion,
	}
}

// Expired 判断场次是否超出存活窗口
func (a SprintAttempt) Expired(now int64, ttl time.Duration) bool {
	return !a.Status.Terminal() && now-a.StartedAt > ttl.Milliseconds()
}

// Submittable 只有 ACTIVE 状态的场次可以提交
func (a SprintAttempt) Submittable() bool {
	return a.Status == AttemptStatusActive
}

// MatchesOutcome 校验提交结果和场次本身是否一致：
// 赛道、难度必须与下发题目时一致，时间戳不能倒流
func (a SprintAttempt) MatchesOutcome(o SprintOutcome) bool {
	if o.Track != a.Track || o.Difficulty != a.Difficulty {
		return false
	}
	if o.Score < 0 || o.Score > MaxScore {
		return false
	}
	if o.FinishedAt < o.StartedAt {
		return false
	}
	return o.StartedAt >= a.StartedAt
}
