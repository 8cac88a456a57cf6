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

package dao

import "github.com/ecodeclub/ekit/sqlx"

type Rating struct {
	Id  int64 `gorm:"primaryKey;autoIncrement;comment:身价主表自增ID"`
	Uid int64 `gorm:"not null;uniqueIndex:unq_uid,comment:用户ID"`
	// 排行榜按 (market_value desc, peak_market_value desc, uid asc) 排序
	MarketValue     int64  `gorm:"not null;index:idx_market_value;comment:当前身价"`
	PeakMarketValue int64  `gorm:"not null;comment:巅峰身价，单调不减"`
	Title           string `gorm:"type:varchar(64);not null;comment:段位，身价的派生字段"`
	Version         int64  `gorm:"not null;default 1;comment:乐观锁版本号"`
	Ctime           int64
	Utime           int64
}

type SprintAttempt struct {
	Id         int64  `gorm:"primaryKey;autoIncrement"`
	SN         string `gorm:"type:varchar(128);uniqueIndex:unq_attempt_sn;comment:场次编号，结算幂等键"`
	Uid        int64  `gorm:"not null;index:idx_uid"`
	Track      uint8  `gorm:"type:tinyint(3);not null;comment:1-technical 2-behavioral"`
	Difficulty uint8  `gorm:"type:tinyint(3);not null"`
	// 本场下发的题目 ID，有序
	QuestionIds sqlx.JsonColumn[[]int64] `gorm:"type:varchar(1024)"`
	Status      uint8                    `gorm:"type:tinyint(3);not null;index:idx_status_ctime;comment:1-预热 2-进行中 3-已提交 4-已评分 5-已拒绝 6-已过期"`
	StartedAt   int64                    `gorm:"not null"`

	// 结算快照，status=4 之后有效。重复提交由这里重放，
	// 不回查身价主表，避免被后续场次的结算污染
	Score              int64
	Delta              int64
	NewMarketValue     int64
	NewPeakMarketValue int64
	NewVersion         int64

	Ctime int64 `gorm:"index:idx_status_ctime"`
	Utime int64
}
