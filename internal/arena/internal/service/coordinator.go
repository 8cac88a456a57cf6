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

package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/event"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository"
	"github.com/gotomicro/ego/core/elog"
)

var (
	// ErrAttemptNotCommittable 场次已经是 REJECTED/EXPIRED，不可能再结算
	ErrAttemptNotCommittable = errors.New("冲刺场次已终结，无法结算")
	// ErrConcurrentUpdateConflict 有限次重试后版本检查仍然失败，
	// 属于瞬时错误，客户端可以带同一个场次编号重新提交
	ErrConcurrentUpdateConflict = errors.New("结算冲突")
)

// 同一个用户的结算重试上限。进程内已经按 uid 串行，
// 版本冲突只会来自多实例部署或进程重启后的残留提交
const maxSettleRetries = 3

// 按 uid 分片的互斥锁数量
const lockShards = 128

//go:generate mockgen -source=./coordinator.go -destination=../../mocks/coordinator.mock.go -package=arenamocks -typed=true MatchCoordinator
type MatchCoordinator interface {
	// Commit 把一次已提交的冲刺结果结算进身价记录。
	// 同一个场次至多生效一次：重复提交返回此前的结算结果，不产生第二次变动
	Commit(ctx context.Context, attempt domain.SprintAttempt, outcome domain.SprintOutcome) (domain.RatingRecord, error)
}

type matchCoordinator struct {
	ratingRepo  repository.RatingRepository
	attemptRepo repository.AttemptRepository
	producer    event.SprintRatedEventProducer
	// 进程内按用户串行化，跨实例靠乐观锁版本检查兜底
	locks  []sync.Mutex
	logger *elog.Component
}

func NewMatchCoordinator(ratingRepo repository.RatingRepository,
	attemptRepo repository.AttemptRepository,
	producer event.SprintRatedEventProducer) MatchCoordinator {
	return &matchCoordinator{
		ratingRepo:  ratingRepo,
		attemptRepo: attemptRepo,
		producer:    producer,
		locks:       make([]sync.Mutex, lockShards),
		logger:      elog.DefaultLogger,
	}
}

func (c *matchCoordinator) Commit(ctx context.Context,
	attempt domain.SprintAttempt, outcome domain.SprintOutcome) (domain.RatingRecord, error) {
	mu := &c.locks[uint64(attempt.Uid)%lockShards]
	mu.Lock()
	defer mu.Unlock()

	// 拿到锁之后重新读一次权威状态，前面的持锁者可能已经结算过了
	latest, err := c.attemptRepo.GetBySN(ctx, attempt.SN)
	if err != nil {
		return domain.RatingRecord{}, err
	}
	switch latest.Status {
	case domain.AttemptStatusRated:
		return latest.SettledRecord(), nil
	case domain.AttemptStatusRejected, domain.AttemptStatusExpired:
		return domain.RatingRecord{}, ErrAttemptNotCommittable
	case domain.AttemptStatusSubmitted:
	default:
		return domain.RatingRecord{}, ErrAttemptNotCommittable
	}

	// 结算以 SUBMITTED 时落库的记录为准，重试请求携带的结果不参与计算
	outcome.Score = latest.Score
	outcome.Difficulty = latest.Difficulty

	for i := 0; i < maxSettleRetries; i++ {
		current, err := c.ratingRepo.Ensure(ctx, latest.Uid)
		if errors.Is(err, repository.ErrConcurrentChange) {
			// 多实例同时落基线记录，输掉的一方重读即可
			continue
		}
		if err != nil {
			return domain.RatingRecord{}, err
		}
		reference, err := c.ratingRepo.Reference(ctx)
		if err != nil {
			c.logger.Warn("读取参照身价失败，使用默认参照", elog.FieldErr(err))
			reference = domain.DefaultReference
		}
		update := domain.ComputeUpdate(current, outcome, reference)
		err = c.ratingRepo.Settle(ctx, latest, update, current.Version)
		switch {
		case err == nil:
			res := domain.RatingRecord{
				Uid:             latest.Uid,
				MarketValue:     update.MarketValue,
				PeakMarketValue: update.PeakMarketValue,
				Title:           update.Title,
				Version:         current.Version + 1,
			}
			c.produceRatedEvent(ctx, latest.SN, res, update.Delta)
			return res, nil
		case errors.Is(err, repository.ErrConcurrentChange):
			// 版本落后，重读重算
			continue
		case errors.Is(err, repository.ErrAttemptSettled):
			// 另一个结算抢先完成，重读终态快照做幂等重放
			latest, err = c.attemptRepo.GetBySN(ctx, latest.SN)
			if err != nil {
				return domain.RatingRecord{}, err
			}
			return latest.SettledRecord(), nil
		default:
			return domain.RatingRecord{}, err
		}
	}
	return domain.RatingRecord{}, ErrConcurrentUpdateConflict
}

func (c *matchCoordinator) produceRatedEvent(ctx context.Context,
	sn string, record domain.RatingRecord, delta int64) {
	if c.producer == nil {
		return
	}
	evt := event.SprintRatedEvent{
		Uid:             record.Uid,
		AttemptSN:       sn,
		Delta:           delta,
		MarketValue:     record.MarketValue,
		PeakMarketValue: record.PeakMarketValue,
		Title:           record.Title,
	}
	if err := c.producer.Produce(ctx, evt); err != nil {
		c.logger.Error("发送冲刺结算消息失败",
			elog.FieldErr(err),
			elog.FieldValueAny(evt),
		)
	}
}
