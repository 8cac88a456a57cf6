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
	"time"

	"github.com/ego-component/egorm"
)

const (
	statusWarmed    uint8 = 1
	statusActive    uint8 = 2
	statusSubmitted uint8 = 3
	statusRated     uint8 = 4
	statusRejected  uint8 = 5
	statusExpired   uint8 = 6
)

//go:generate mockgen -source=./attempt.go -destination=../../mocks/attempt_dao.mock.go -package=arenamocks -typed=true AttemptDAO
type AttemptDAO interface {
	Create(ctx context.Context, a SprintAttempt) (int64, error)
	FindBySN(ctx context.Context, sn string) (SprintAttempt, error)
	// UpdateStatus 带前置状态检查的 CAS 更新，状态不匹配时返回 false
	UpdateStatus(ctx context.Context, id int64, from, to uint8) (bool, error)
	// MarkSubmitted ACTIVE -> SUBMITTED，同时记录客户端得分
	MarkSubmitted(ctx context.Context, id int64, score int64) (bool, error)
	// ExpireStale 把存活窗口之外仍未提交的场次批量置为过期
	ExpireStale(ctx context.Context, startedBefore int64) (int64, error)
}

type attemptDAO struct {
	db *egorm.Component
}

func NewAttemptDAO(db *egorm.Component) AttemptDAO {
	return &attemptDAO{db: db}
}

func (g *attemptDAO) Create(ctx context.Context, a SprintAttempt) (int64, error) {
	now := time.Now().UnixMilli()
	a.Ctime, a.Utime = now, now
	err := g.db.WithContext(ctx).Create(&a).Error
	return a.Id, err
}

func (g *attemptDAO) FindBySN(ctx context.Context, sn string) (SprintAttempt, error) {
	var res SprintAttempt
	err := g.db.WithContext(ctx).First(&res, "sn = ?", sn).Error
	return res, err
}

func (g *attemptDAO) UpdateStatus(ctx context.Context, id int64, from, to uint8) (bool, error) {
	res := g.db.WithContext(ctx).Model(&SprintAttempt{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status": to,
			"utime":  time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *attemptDAO) MarkSubmitted(ctx context.Context, id int64, score int64) (bool, error) {
	res := g.db.WithContext(ctx).Model(&SprintAttempt{}).
		Where("id = ? AND status = ?", id, statusActive).
		Updates(map[string]any{
			"status": statusSubmitted,
			"score":  score,
			"utime":  time.Now().UnixMilli(),
		})
	return res.RowsAffected > 0, res.Error
}

func (g *attemptDAO) ExpireStale(ctx context.Context, startedBefore int64) (int64, error) {
	res := g.db.WithContext(ctx).Model(&SprintAttempt{}).
		Where("status IN ? AND started_at < ?", []uint8{statusWarmed, statusActive}, startedBefore).
		Updates(map[string]any{
			"status": statusExpired,
			"utime":  time.Now().UnixMilli(),
		})
	return res.RowsAffected, res.Error
}
