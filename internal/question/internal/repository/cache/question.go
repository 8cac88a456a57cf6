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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/jobmate/internal/question/internal/domain"
	"github.com/pkg/errors"
)

var ErrPoolNotFound = errors.New("题池缓存没找到")

const expiration = 10 * time.Minute

type QuestionCache interface {
	GetPool(ctx context.Context, track, difficulty uint8) ([]domain.Question, error)
	SetPool(ctx context.Context, track, difficulty uint8, qs []domain.Question) error
}

type QuestionECache struct {
	ec ecache.Cache
}

func NewQuestionECache(ec ecache.Cache) QuestionCache {
	return &QuestionECache{
		ec: &ecache.NamespaceCache{
			Namespace: "question:",
			C:         ec,
		},
	}
}

func (q *QuestionECache) GetPool(ctx context.Context, track, difficulty uint8) ([]domain.Question, error) {
	val := q.ec.Get(ctx, q.poolKey(track, difficulty))
	if val.KeyNotFound() {
		return nil, ErrPoolNotFound
	}
	if val.Err != nil {
		return nil, errors.Wrap(val.Err, "查询题池缓存出错")
	}
	var qs []domain.Question
	err := json.Unmarshal([]byte(val.Val.(string)), &qs)
	if err != nil {
		return nil, errors.Wrap(err, "反序列化题池失败")
	}
	return qs, nil
}

func (q *QuestionECache) SetPool(ctx context.Context, track, difficulty uint8, qs []domain.Question) error {
	data, err := json.Marshal(qs)
	if err != nil {
		return errors.Wrap(err, "序列化题池失败")
	}
	return q.ec.Set(ctx, q.poolKey(track, difficulty), string(data), expiration)
}

func (q *QuestionECache) poolKey(track, difficulty uint8) string {
	return fmt.Sprintf("pool:%d:%d", track, difficulty)
}
