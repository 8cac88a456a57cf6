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

package repository

import (
	"context"
	"errors"
	"math"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository/cache"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
)

var (
	ErrRatingNotFound = dao.ErrRecordNotFound
	// ErrConcurrentChange 乐观锁版本检查失败，调用方可以重试
	ErrConcurrentChange = dao.ErrRecordChangedConcurrently
	// ErrAttemptSettled 场次已被其他结算抢先终结
	ErrAttemptSettled = dao.ErrAttemptAlreadySettled
)

//go:generate mockgen -source=./rating.go -destination=./mocks/rating.mock.go -package=repomocks -typed=true RatingRepository
type RatingRepository interface {
	// GetByUid 只读查询，不存在时返回 ErrRatingNotFound
	GetByUid(ctx context.Context, uid int64) (domain.RatingRecord, error)
	// Ensure 读取身价记录，没有历史记录时落库一条基线记录
	Ensure(ctx context.Context, uid int64) (domain.RatingRecord, error)
	// Settle 以 expectedVersion 为前提提交一次结算，
	// 版本不匹配返回 ErrConcurrentChange，场次已终结返回 ErrAttemptSettled
	Settle(ctx context.Context, attempt domain.SprintAttempt, update domain.RatingUpdate, expectedVersion int64) error
	// TopRatings 排行榜候选池，(身价 desc, 巅峰身价 desc, uid asc) 稳定排序
	TopRatings(ctx context.Context, offset, limit int) ([]domain.RatingRecord, error)
	// Reference 滚动参照身价：全体平均身价，带短缓存，
	// 没有任何记录时退化为默认参照
	Reference(ctx context.Context) (int64, error)
	LeaderboardSnapshot(ctx context.Context, key string) ([]domain.LeaderboardRow, error)
	SaveLeaderboardSnapshot(ctx context.Context, key string, rows []domain.LeaderboardRow) error
}

type ratingRepository struct {
	dao    dao.RatingDAO
	cache  cache.ArenaCache
	logger *elog.Component
}

func NewRatingRepository(d dao.RatingDAO, c cache.ArenaCache) RatingRepository {
	return &ratingRepository{
		dao:    d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}

func (r *ratingRepository) GetByUid(ctx context.Context, uid int64) (domain.RatingRecord, error) {
	entity, err := r.dao.FindByUid(ctx, uid)
	if err != nil {
		return domain.RatingRecord{}, err
	}
	return r.toDomain(entity), nil
}

func (r *ratingRepository) Ensure(ctx context.Context, uid int64) (domain.RatingRecord, error) {
	baseline := domain.NewBaselineRecord(uid)
	entity, err := r.dao.CreateBaseline(ctx, dao.Rating{
		Uid:             baseline.Uid,
		MarketValue:     baseline.MarketValue,
		PeakMarketValue: baseline.PeakMarketValue,
		Title:           baseline.Title,
		Version:         baseline.Version,
	})
	if err != nil {
		return domain.RatingRecord{}, err
	}
	return r.toDomain(entity), nil
}

func (r *ratingRepository) Settle(ctx context.Context, attempt domain.SprintAttempt,
	update domain.RatingUpdate, expectedVersion int64) error {
	return r.dao.SettleAttempt(ctx, attempt.Id, expectedVersion, dao.Rating{
		Uid:             attempt.Uid,
		MarketValue:     update.MarketValue,
		PeakMarketValue: update.PeakMarketValue,
		Title:           update.Title,
	}, attempt.Score, update.Delta)
}

func (r *ratingRepository) TopRatings(ctx context.Context, offset, limit int) ([]domain.RatingRecord, error) {
	entities, err := r.dao.ListTop(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(idx int, src dao.Rating) domain.RatingRecord {
		return r.toDomain(src)
	}), nil
}

func (r *ratingRepository) Reference(ctx context.Context) (int64, error) {
	ref, err := r.cache.GetReference(ctx)
	if err == nil {
		return ref, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		r.logger.Warn("读取参照身价缓存失败", elog.FieldErr(err))
	}
	avg, ok, err := r.dao.AvgMarketValue(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return domain.DefaultReference, nil
	}
	ref = int64(math.Round(avg))
	if cerr := r.cache.SetReference(ctx, ref); cerr != nil {
		r.logger.Warn("写入参照身价缓存失败", elog.FieldErr(cerr))
	}
	return ref, nil
}

func (r *ratingRepository) LeaderboardSnapshot(ctx context.Context, key string) ([]domain.LeaderboardRow, error) {
	return r.cache.GetLeaderboard(ctx, key)
}

func (r *ratingRepository) SaveLeaderboardSnapshot(ctx context.Context, key string, rows []domain.LeaderboardRow) error {
	return r.cache.SetLeaderboard(ctx, key, rows)
}

func (r *ratingRepository) toDomain(entity dao.Rating) domain.RatingRecord {
	return domain.RatingRecord{
		Uid:             entity.Uid,
		MarketValue:     entity.MarketValue,
		PeakMarketValue: entity.PeakMarketValue,
		Title:           entity.Title,
		Version:         entity.Version,
	}
}
