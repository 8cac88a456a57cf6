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
	"strconv"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/pkg/errors"
)

var (
	ErrKeyNotFound = errors.New("缓存中没有对应的键")
)

const (
	// 排行榜快照的有效期，读多写多，短缓存即可
	leaderboardExpiration = 30 * time.Second
	// 参照身价的有效期，慢变量
	referenceExpiration = 5 * time.Minute
)

type ArenaCache interface {
	GetLeaderboard(ctx context.Context, key string) ([]domain.LeaderboardRow, error)
	SetLeaderboard(ctx context.Context, key string, rows []domain.LeaderboardRow) error
	GetReference(ctx context.Context) (int64, error)
	SetReference(ctx context.Context, reference int64) error
}

type ArenaECache struct {
	ec ecache.Cache
}

func NewArenaECache(ec ecache.Cache) ArenaCache {
	return &ArenaECache{
		ec: &ecache.NamespaceCache{
			Namespace: "arena:",
			C:         ec,
		},
	}
}

func (c *ArenaECache) GetLeaderboard(ctx context.Context, key string) ([]domain.LeaderboardRow, error) {
	val := c.ec.Get(ctx, c.leaderboardKey(key))
	if val.KeyNotFound() {
		return nil, ErrKeyNotFound
	}
	if val.Err != nil {
		return nil, errors.Wrap(val.Err, "查询排行榜缓存出错")
	}
	var rows []domain.LeaderboardRow
	err := json.Unmarshal([]byte(val.Val.(string)), &rows)
	if err != nil {
		return nil, errors.Wrap(err, "反序列化排行榜失败")
	}
	return rows, nil
}

func (c *ArenaECache) SetLeaderboard(ctx context.Context, key string, rows []domain.LeaderboardRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return errors.Wrap(err, "序列化排行榜失败")
	}
	return c.ec.Set(ctx, c.leaderboardKey(key), string(data), leaderboardExpiration)
}

func (c *ArenaECache) GetReference(ctx context.Context) (int64, error) {
	val := c.ec.Get(ctx, "reference")
	if val.KeyNotFound() {
		return 0, ErrKeyNotFound
	}
	if val.Err != nil {
		return 0, errors.Wrap(val.Err, "查询参照身价缓存出错")
	}
	res, err := strconv.ParseInt(val.Val.(string), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "参照身价缓存格式错误")
	}
	return res, nil
}

func (c *ArenaECache) SetReference(ctx context.Context, reference int64) error {
	return c.ec.Set(ctx, "reference", strconv.FormatInt(reference, 10), referenceExpiration)
}

func (c *ArenaECache) leaderboardKey(key string) string {
	return fmt.Sprintf("leaderboard:%s", key)
}
