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
	"math/rand/v2"
	"time"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository"
	"github.com/ecodeclub/jobmate/internal/question"
	"github.com/gotomicro/ego/core/elog"
	"github.com/lithammer/shortuuid/v4"
)

var (
	ErrNoQuestionsAvailable = errors.New("没有符合条件的题目")
	ErrUnknownAttempt       = errors.New("冲刺场次不存在")
	ErrAttemptExpired       = errors.New("冲刺场次已过期")
	ErrInvalidState         = errors.New("冲刺场次状态非法")
	ErrInvalidOutcome       = errors.New("冲刺结果校验失败")
)

// AttemptTTL 从题目下发到提交的存活窗口，
// 超出窗口的场次由定时任务统一置为过期
const AttemptTTL = 10 * time.Minute

// SprintStart 抽题结果。单题模式下 Questions 只有一个元素
type SprintStart struct {
	Attempt   domain.SprintAttempt
	Questions []question.Question
}

//go:generate mockgen -source=./sprint.go -destination=../../mocks/sprint.mock.go -package=arenamocks -typed=true SprintService
type SprintService interface {
	// Start 预热一个场次并下发题目：
	// 按 (track, difficulty) 过滤题池，wantPool 为真时下发全部，
	// 否则伪随机抽取一题。题池为空返回 ErrNoQuestionsAvailable
	Start(ctx context.Context, uid int64, track domain.Track, difficulty uint8, wantPool bool) (SprintStart, error)
	// Submit 提交冲刺结果并结算。
	// 同一个场次编号重复提交是幂等的，只返回第一次的结算结果
	Submit(ctx context.Context, uid int64, outcome domain.SprintOutcome) (domain.SprintAttempt, domain.RatingRecord, error)
	// ExpireStale 把存活窗口之外仍未提交的场次批量置为过期，返回数量
	ExpireStale(ctx context.Context) (int64, error)
}

type sprintService struct {
	queSvc      question.Service
	attemptRepo repository.AttemptRepository
	coordinator MatchCoordinator
	ttl         time.Duration
	logger      *elog.Component
}

func NewSprintService(queSvc question.Service,
	attemptRepo repository.AttemptRepository,
	coordinator MatchCoordinator) SprintService {
	return &sprintService{
		queSvc:      queSvc,
		attemptRepo: attemptRepo,
		coordinator: coordinator,
		ttl:         AttemptTTL,
		logger:      elog.DefaultLogger,
	}
}

func (s *sprintService) Start(ctx context.Context, uid int64,
	track domain.Track, difficulty uint8, wantPool bool) (SprintStart, error) {
	pool, err := s.queSvc.Query(ctx, track.ToUint8(), difficulty)
	if err != nil {
		return SprintStart{}, err
	}
	if len(pool) == 0 {
		return SprintStart{}, ErrNoQuestionsAvailable
	}
	drawn := pool
	if !wantPool {
		drawn = []question.Question{pool[rand.IntN(len(pool))]}
	}
	qids := make([]int64, 0, len(drawn))
	for _, q := range drawn {
		qids = append(qids, q.Id)
	}
	attempt := domain.SprintAttempt{
		SN:          shortuuid.New(),
		Uid:         uid,
		Track:       track,
		Difficulty:  difficulty,
		QuestionIds: qids,
		Status:      domain.AttemptStatusWarmed,
		StartedAt:   time.Now().UnixMilli(),
	}
	id, err := s.attemptRepo.Create(ctx, attempt)
	if err != nil {
		return SprintStart{}, err
	}
	attempt.Id = id
	ok, err := s.attemptRepo.MarkActive(ctx, id)
	if err != nil {
		return SprintStart{}, err
	}
	if !ok {
		return SprintStart{}, ErrInvalidState
	}
	attempt.Status = domain.AttemptStatusActive
	return SprintStart{Attempt: attempt, Questions: drawn}, nil
}

func (s *sprintService) Submit(ctx context.Context, uid int64,
	outcome domain.SprintOutcome) (domain.SprintAttempt, domain.RatingRecord, error) {
	attempt, err := s.attemptRepo.GetBySN(ctx, outcome.AttemptSN)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return domain.SprintAttempt{}, domain.RatingRecord{}, ErrUnknownAttempt
		}
		return domain.SprintAttempt{}, domain.RatingRecord{}, err
	}
	// 不把别人的场次编号当成自己的
	if attempt.Uid != uid {
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrUnknownAttempt
	}

	switch attempt.Status {
	case domain.AttemptStatusRated, domain.AttemptStatusSubmitted:
		// 幂等重放，或者上一次结算中途失败后的安全重试
		return s.commit(ctx, attempt, outcome)
	case domain.AttemptStatusRejected, domain.AttemptStatusExpired:
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrAttemptNotCommittable
	case domain.AttemptStatusWarmed:
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrInvalidState
	}

	now := time.Now().UnixMilli()
	if attempt.Expired(now, s.ttl) {
		if _, merr := s.attemptRepo.MarkExpired(ctx, attempt.Id, attempt.Status); merr != nil {
			s.logger.Error("标记场次过期失败", elog.FieldErr(merr))
		}
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrAttemptExpired
	}

	ok, err := s.attemptRepo.MarkSubmitted(ctx, attempt.Id, outcome.Score)
	if err != nil {
		return domain.SprintAttempt{}, domain.RatingRecord{}, err
	}
	if !ok {
		// 两个请求同时提交，输给了对方，让客户端用同一个编号重试
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrInvalidState
	}
	attempt.Status = domain.AttemptStatusSubmitted
	attempt.Score = outcome.Score

	if !attempt.MatchesOutcome(outcome) {
		if _, merr := s.attemptRepo.MarkRejected(ctx, attempt.Id); merr != nil {
			s.logger.Error("标记场次拒绝失败", elog.FieldErr(merr))
		}
		return domain.SprintAttempt{}, domain.RatingRecord{}, ErrInvalidOutcome
	}
	return s.commit(ctx, attempt, outcome)
}

func (s *sprintService) commit(ctx context.Context,
	attempt domain.SprintAttempt, outcome domain.SprintOutcome) (domain.SprintAttempt, domain.RatingRecord, error) {
	record, err := s.coordinator.Commit(ctx, attempt, outcome)
	if err != nil {
		return domain.SprintAttempt{}, domain.RatingRecord{}, err
	}
	// 结算之后重读终态快照
	attempt, err = s.attemptRepo.GetBySN(ctx, attempt.SN)
	if err != nil {
		return domain.SprintAttempt{}, domain.RatingRecord{}, err
	}
	return attempt, record, nil
}

func (s *sprintService) ExpireStale(ctx context.Context) (int64, error) {
	deadline := time.Now().Add(-s.ttl).UnixMilli()
	return s.attemptRepo.ExpireStale(ctx, deadline)
}
