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

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = gorm.ErrRecordNotFound
	// ErrRecordChangedConcurrently 版本检查失败，说明有并发结算抢先更新了身价
	ErrRecordChangedConcurrently = errors.New("身价记录已被并发修改")
	// ErrAttemptAlreadySettled 场次不在可结算状态，通常是另一个结算已经完成
	ErrAttemptAlreadySettled = errors.New("冲刺场次已被结算")
)

//go:generate mockgen -source=./rating.go -destination=../../mocks/rating_dao.mock.go -package=arenamocks -typed=true RatingDAO
type RatingDAO interface {
	FindByUid(ctx context.Context, uid int64) (Rating, error)
	// CreateBaseline 不存在则插入基线记录，存在则原样返回
	CreateBaseline(ctx context.Context, r Rating) (Rating, error)
	// SettleAttempt 在一个事务里完成乐观并发的身价更新和场次的终态落库。
	// 版本不匹配返回 ErrRecordChangedConcurrently，
	// 场次已不在 SUBMITTED 状态返回 ErrAttemptAlreadySettled，两种情况都会整体回滚
	SettleAttempt(ctx context.Context, attemptId int64, expectedVersion int64, r Rating, score, delta int64) error
	// ListTop 排行榜候选池，稳定排序
	ListTop(ctx context.Context, offset, limit int) ([]Rating, error)
	// AvgMarketValue 全体用户的平均身价，没有任何记录时 ok 为 false
	AvgMarketValue(ctx context.Context) (float64, bool, error)
}

type ratingDAO struct {
	db *egorm.Component
}

func NewRatingDAO(db *egorm.Component) RatingDAO {
	return &ratingDAO{db: db}
}

func (g *ratingDAO) FindByUid(ctx context.Context, uid int64) (Rating, error) {
	var res Rating
	err := g.db.WithContext(ctx).First(&res, "uid = ?", uid).Error
	return res, err
}

func (g *ratingDAO) CreateBaseline(ctx context.Context, r Rating) (Rating, error) {
	now := time.Now().UnixMilli()
	r.Ctime, r.Utime = now, now
	var res Rating
	err := g.db.WithContext(ctx).Where(Rating{Uid: r.Uid}).Attrs(r).FirstOrCreate(&res).Error
	if me, ok := err.(*mysql.MySQLError); ok {
		// 多实例同时写首条基线记录，输掉的一方当并发冲突处理，调用方会重试
		const uniqueIndexErrNo uint16 = 1062
		if me.Number == uniqueIndexErrNo {
			return Rating{}, ErrRecordChangedConcurrently
		}
	}
	return res, err
}

func (g *ratingDAO) SettleAttempt(ctx context.Context, attemptId int64, expectedVersion int64, r Rating, score, delta int64) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UnixMilli()
		res := tx.Model(&Rating{}).
			Where("uid = ? AND version = ?", r.Uid, expectedVersion).
			Updates(map[string]any{
				"market_value":      r.MarketValue,
				"peak_market_value": r.PeakMarketValue,
				"title":             r.Title,
				"version":           expectedVersion + 1,
				"utime":             now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRecordChangedConcurrently
		}
		res = tx.Model(&SprintAttempt{}).
			Where("id = ? AND status = ?", attemptId, statusSubmitted).
			Updates(map[string]any{
				"status":                statusRated,
				"score":                 score,
				"delta":                 delta,
				"new_market_value":      r.MarketValue,
				"new_peak_market_value": r.PeakMarketValue,
				"new_version":           expectedVersion + 1,
				"utime":                 now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 回滚身价更新，结算结果以先完成的事务为准
			return ErrAttemptAlreadySettled
		}
		return nil
	})
}

func (g *ratingDAO) ListTop(ctx context.Context, offset, limit int) ([]Rating, error) {
	var res []Rating
	err := g.db.WithContext(ctx).
		Order("market_value DESC, peak_market_value DESC, uid ASC").
		Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (g *ratingDAO) AvgMarketValue(ctx context.Context) (float64, bool, error) {
	var avg sql.NullFloat64
	err := g.db.WithContext(ctx).Model(&Rating{}).
		Select("AVG(market_value)").Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	return avg.Float64, avg.Valid, nil
}
