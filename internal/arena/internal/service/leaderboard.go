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
	"fmt"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository"
	"github.com/ecodeclub/jobmate/internal/user"
	"github.com/gotomicro/ego/core/elog"
)

const (
	// DefaultTopN 排行榜默认长度
	DefaultTopN = 100
	// 候选池要比榜单长，过滤掉无昵称用户之后才截断
	overFetchFactor = 2
	// 按学校过滤时命中率低，候选池拉得更宽
	schoolOverFetchFactor = 10
)

//go:generate mockgen -source=./leaderboard.go -destination=../../mocks/leaderboard.mock.go -package=arenamocks -typed=true LeaderboardService
type LeaderboardService interface {
	// GlobalTop 全站排行榜。limit <= 0 时取默认长度。
	// 排序 (身价 desc, 巅峰身价 desc, uid asc)，
	// 没有昵称的用户整行剔除，名次在剔除之后连续编号
	GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	// SchoolTop 学校维度排行榜，先按学校过滤再套用全站的排序规则
	SchoolTop(ctx context.Context, school string, limit int) ([]domain.LeaderboardRow, error)
}

type leaderboardService struct {
	ratingRepo repository.RatingRepository
	userSvc    user.UserService
	logger     *elog.Component
}

func NewLeaderboardService(ratingRepo repository.RatingRepository,
	userSvc user.UserService) LeaderboardService {
	return &leaderboardService{
		ratingRepo: ratingRepo,
		userSvc:    userSvc,
		logger:     elog.DefaultLogger,
	}
}

func (s *leaderboardService) GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	limit = normalizeLimit(limit)
	key := fmt.Sprintf("global:%d", limit)
	if rows, err := s.ratingRepo.LeaderboardSnapshot(ctx, key); err == nil {
		return rows, nil
	}
	rows, err := s.rank(ctx, limit, limit*overFetchFactor, func(u user.User) bool {
		return true
	})
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, key, rows)
	return rows, nil
}

func (s *leaderboardService) SchoolTop(ctx context.Context, school string, limit int) ([]domain.LeaderboardRow, error) {
	limit = normalizeLimit(limit)
	key := fmt.Sprintf("school:%s:%d", school, limit)
	if rows, err := s.ratingRepo.LeaderboardSnapshot(ctx, key); err == nil {
		return rows, nil
	}
	rows, err := s.rank(ctx, limit, limit*schoolOverFetchFactor, func(u user.User) bool {
		return u.School == school
	})
	if err != nil {
		return nil, err
	}
	s.saveSnapshot(ctx, key, rows)
	return rows, nil
}

// rank 从候选池里分页拉取身价记录，补齐用户资料并按断言过滤，
// 直到凑满 limit 行或者候选池耗尽。RatingStore 返回的顺序
// 就是榜单顺序，这里只做过滤和编号
func (s *leaderboardService) rank(ctx context.Context, limit, batch int,
	keep func(u user.User) bool) ([]domain.LeaderboardRow, error) {
	rows := make([]domain.LeaderboardRow, 0, limit)
	offset := 0
	for len(rows) < limit {
		records, err := s.ratingRepo.TopRatings(ctx, offset, batch)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		offset += len(records)
		uids := slice.Map(records, func(idx int, src domain.RatingRecord) int64 {
			return src.Uid
		})
		profiles, err := s.userSvc.BatchProfile(ctx, uids)
		if err != nil {
			return nil, err
		}
		byUid := make(map[int64]user.User, len(profiles))
		for _, p := range profiles {
			byUid[p.Id] = p
		}
		for _, rec := range records {
			profile, ok := byUid[rec.Uid]
			// 没有资料或者没有昵称的用户不参与排名
			if !ok || profile.Nickname == "" || !keep(profile) {
				continue
			}
			rows = append(rows, domain.LeaderboardRow{
				Rank:            len(rows) + 1,
				Uid:             rec.Uid,
				Nickname:        profile.Nickname,
				School:          profile.School,
				Title:           rec.Title,
				MarketValue:     rec.MarketValue,
				PeakMarketValue: rec.PeakMarketValue,
			})
			if len(rows) >= limit {
				break
			}
		}
		if len(records) < batch {
			break
		}
	}
	return rows, nil
}

func (s *leaderboardService) saveSnapshot(ctx context.Context, key string, rows []domain.LeaderboardRow) {
	if err := s.ratingRepo.SaveLeaderboardSnapshot(ctx, key, rows); err != nil {
		s.logger.Warn("写入排行榜快照失败", elog.FieldErr(err))
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultTopN {
		return DefaultTopN
	}
	return limit
}
