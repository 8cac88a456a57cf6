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

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository/dao"
)

var ErrAttemptNotFound = dao.ErrRecordNotFound

//go:generate mockgen -source=./attempt.go -destination=./mocks/attempt.mock.go -package=repomocks -typed=true AttemptRepository
type AttemptRepository interface {
	Create(ctx context.Context, attempt domain.SprintAttempt) (int64, error)
	GetBySN(ctx context.Context, sn string) (domain.SprintAttempt, error)
	// MarkActive WARMED -> ACTIVE，状态不匹配时返回 false
	MarkActive(ctx context.Context, id int64) (bool, error)
	// MarkSubmitted ACTIVE -> SUBMITTED，记录客户端得分
	MarkSubmitted(ctx context.Context, id int64, score int64) (bool, error)
	MarkRejected(ctx context.Context, id int64) (bool, error)
	MarkExpired(ctx context.Context, id int64, from domain.AttemptStatus) (bool, error)
	// ExpireStale 批量过期所有超出存活窗口的场次，返回过期数量
	ExpireStale(ctx context.Context, startedBefore int64) (int64, error)
}

type attemptRepository struct {
	dao dao.AttemptDAO
}

func NewAttemptRepository(d dao.AttemptDAO) AttemptRepository {
	return &attemptRepository{dao: d}
}

func (r *attemptRepository) Create(ctx context.Context, attempt domain.SprintAttempt) (int64, error) {
	return r.dao.Create(ctx, r.toEntity(attempt))
}

func (r *attemptRepository) GetBySN(ctx context.Context, sn string) (domain.SprintAttempt, error) {
	entity, err := r.dao.FindBySN(ctx, sn)
	if err != nil {
		return domain.SprintAttempt{}, err
	}
	return r.toDomain(entity), nil
}

func (r *attemptRepository) MarkActive(ctx context.Context, id int64) (bool, error) {
	return r.dao.UpdateStatus(ctx, id,
		domain.AttemptStatusWarmed.ToUint8(), domain.AttemptStatusActive.ToUint8())
}

func (r *attemptRepository) MarkSubmitted(ctx context.Context, id int64, score int64) (bool, error) {
	return r.dao.MarkSubmitted(ctx, id, score)
}

func (r *attemptRepository) MarkRejected(ctx context.Context, id int64) (bool, error) {
	return r.dao.UpdateStatus(ctx, id,
		domain.AttemptStatusSubmitted.ToUint8(), domain.AttemptStatusRejected.ToUint8())
}

func (r *attemptRepository) MarkExpired(ctx context.Context, id int64, from domain.AttemptStatus) (bool, error) {
	return r.dao.UpdateStatus(ctx, id, from.ToUint8(), domain.AttemptStatusExpired.ToUint8())
}

func (r *attemptRepository) ExpireStale(ctx context.Context, startedBefore int64) (int64, error) {
	return r.dao.ExpireStale(ctx, startedBefore)
}

func (r *attemptRepository) toEntity(a domain.SprintAttempt) dao.SprintAttempt {
	return dao.SprintAttempt{
		Id:         a.Id,
		SN:         a.SN,
		Uid:        a.Uid,
		Track:      a.Track.ToUint8(),
		Difficulty: a.Difficulty,
		QuestionIds: sqlx.JsonColumn[[]int64]{
			Val:   a.QuestionIds,
			Valid: len(a.QuestionIds) > 0,
		},
		Status:    a.Status.ToUint8(),
		StartedAt: a.StartedAt,
	}
}

func (r *attemptRepository) toDomain(entity dao.SprintAttempt) domain.SprintAttempt {
	return domain.SprintAttempt{
		Id:                 entity.Id,
		SN:                 entity.SN,
		Uid:                entity.Uid,
		Track:              domain.Track(entity.Track),
		Difficulty:         entity.Difficulty,
		QuestionIds:        entity.QuestionIds.Val,
		Status:             domain.AttemptStatus(entity.Status),
		StartedAt:          entity.StartedAt,
		Score:              entity.Score,
		Delta:              entity.Delta,
		NewMarketValue:     entity.NewMarketValue,
		NewPeakMarketValue: entity.NewPeakMarketValue,
		NewVersion:         entity.NewVersion,
		Ctime:              entity.Ctime,
		Utime:              entity.Utime,
	}
}
