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

	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ego-component/egorm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecordNotFound = gorm.ErrRecordNotFound

type Question struct {
	Id         int64                     `gorm:"primaryKey,autoIncrement"`
	Track      uint8                     `gorm:"type:tinyint(3);not null;index:idx_track_difficulty;comment:1-technical 2-behavioral"`
	Difficulty uint8                     `gorm:"type:tinyint(3);not null;index:idx_track_difficulty"`
	Labels     sqlx.JsonColumn[[]string] `gorm:"type:varchar(512)"`
	Title      string                    `gorm:"type:varchar(512)"`
	Content    string
	Status     uint8 `gorm:"type:tinyint(3);comment:1-未发表 2-已发表"`
	Ctime      int64
	Utime      int64 `gorm:"index"`
}

//go:generate mockgen -source=./question.go -destination=../../mocks/question_dao.mock.go -package=quemocks -typed=true QuestionDAO
type QuestionDAO interface {
	Save(ctx context.Context, q Question) (int64, error)
	List(ctx context.Context, offset, limit int) ([]Question, error)
	Count(ctx context.Context) (int64, error)
	FindById(ctx context.Context, id int64) (Question, error)
	// FindPool 已发表并且命中 (track, difficulty) 的全部题目
	FindPool(ctx context.Context, track, difficulty uint8) ([]Question, error)
}

type questionDAO struct {
	db *egorm.Component
}

func NewQuestionDAO(db *egorm.Component) QuestionDAO {
	return &questionDAO{db: db}
}

func (q *questionDAO) Save(ctx context.Context, entity Question) (int64, error) {
	now := time.Now().UnixMilli()
	entity.Ctime = now
	entity.Utime = now
	err := q.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoUpdates: clause.AssignmentColumns([]string{
			"track", "difficulty", "labels", "title", "content", "status", "utime",
		}),
	}).Create(&entity).Error
	return entity.Id, err
}

func (q *questionDAO) List(ctx context.Context, offset, limit int) ([]Question, error) {
	var res []Question
	err := q.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}

func (q *questionDAO) Count(ctx context.Context) (int64, error) {
	var res int64
	err := q.db.WithContext(ctx).Model(&Question{}).Count(&res).Error
	return res, err
}

func (q *questionDAO) FindById(ctx context.Context, id int64) (Question, error) {
	var res Question
	err := q.db.WithContext(ctx).First(&res, "id = ?", id).Error
	return res, err
}

func (q *questionDAO) FindPool(ctx context.Context, track, difficulty uint8) ([]Question, error) {
	var res []Question
	err := q.db.WithContext(ctx).
		Where("track = ? AND difficulty = ? AND status = ?", track, difficulty, uint8(2)).
		Order("id ASC").
		Find(&res).Error
	return res, err
}
