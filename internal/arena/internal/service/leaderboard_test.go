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
	"testing"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserSvc struct {
	users map[int64]user.User
}

func (f *fakeUserSvc) Profile(ctx context.Context, id int64) (user.User, error) {
	return f.users[id], nil
}

func (f *fakeUserSvc) BatchProfile(ctx context.Context, ids []int64) ([]user.User, error) {
	res := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeUserSvc) FindOrCreateBySN(ctx context.Context, sn string) (user.User, error) {
	panic("not used")
}

func (f *fakeUserSvc) UpdateNonSensitiveInfo(ctx context.Context, u user.User) error {
	panic("not used")
}

func seedRating(store *fakeStore, uid, mv, peak int64) {
	store.ratings[uid] = domain.RatingRecord{
		Uid:             uid,
		MarketValue:     mv,
		PeakMarketValue: peak,
		Title:           domain.TitleOf(mv),
		Version:         1,
	}
}

func TestLeaderboard_GlobalTop(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	seedRating(store, 1, 1500, 1600)
	seedRating(store, 2, 1500, 1500)
	seedRating(store, 3, 2000, 2000)
	// 没有昵称，整行剔除
	seedRating(store, 4, 1800, 1800)
	seedRating(store, 5, 900, 1000)

	userSvc := &fakeUserSvc{users: map[int64]user.User{
		1: {Id: 1, Nickname: "阿青", School: "浙江大学"},
		2: {Id: 2, Nickname: "老钱", School: "武汉大学"},
		3: {Id: 3, Nickname: "大明", School: "浙江大学"},
		4: {Id: 4, Nickname: ""},
		5: {Id: 5, Nickname: "小白", School: "武汉大学"},
	}}
	svc := NewLeaderboardService(&fakeRatingRepo{store: store}, userSvc)

	rows, err := svc.GlobalTop(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	// (身价 desc, 巅峰身价 desc, uid asc)，剔除之后名次连续
	assert.Equal(t, []int64{3, 1, 2, 5}, []int64{rows[0].Uid, rows[1].Uid, rows[2].Uid, rows[3].Uid})
	for i, row := range rows {
		assert.Equal(t, i+1, row.Rank)
	}
	assert.Equal(t, "大明", rows[0].Nickname)
	assert.Equal(t, domain.TitleOf(2000), rows[0].Title)
}

func TestLeaderboard_GlobalTop_Truncates(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	users := make(map[int64]user.User)
	for uid := int64(1); uid <= 10; uid++ {
		seedRating(store, uid, 1000+uid*10, 1000+uid*10)
		users[uid] = user.User{Id: uid, Nickname: "用户"}
	}
	svc := NewLeaderboardService(&fakeRatingRepo{store: store}, &fakeUserSvc{users: users})

	rows, err := svc.GlobalTop(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(10), rows[0].Uid)
	assert.Equal(t, 1, rows[0].Rank)
}

func TestLeaderboard_SchoolTop(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	seedRating(store, 1, 1500, 1600)
	seedRating(store, 2, 1400, 1400)
	seedRating(store, 3, 2000, 2000)

	userSvc := &fakeUserSvc{users: map[int64]user.User{
		1: {Id: 1, Nickname: "阿青", School: "浙江大学"},
		2: {Id: 2, Nickname: "老钱", School: "武汉大学"},
		3: {Id: 3, Nickname: "大明", School: "浙江大学"},
	}}
	svc := NewLeaderboardService(&fakeRatingRepo{store: store}, userSvc)

	rows, err := svc.SchoolTop(context.Background(), "浙江大学", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0].Uid)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, int64(1), rows[1].Uid)
	assert.Equal(t, 2, rows[1].Rank)
}

func TestLeaderboard_UsesSnapshot(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.snapshots["global:10"] = []domain.LeaderboardRow{
		{Rank: 1, Uid: 42, Nickname: "快照用户", MarketValue: 2500},
	}
	svc := NewLeaderboardService(&fakeRatingRepo{store: store}, &fakeUserSvc{})

	rows, err := svc.GlobalTop(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(42), rows[0].Uid)
}
