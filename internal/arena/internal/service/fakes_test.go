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
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/event"
	"github.com/ecodeclub/jobmate/internal/arena/internal/repository"
)

// 内存实现，模拟 DAO 层的版本检查和结算事务语义。
// 结算的原子性靠一把大锁，和真实实现一样对外表现为：
// 版本不匹配返回 ErrConcurrentChange，场次已终结返回 ErrAttemptSettled

type fakeStore struct {
	mu       sync.Mutex
	nextId   int64
	attempts map[string]domain.SprintAttempt
	ratings  map[int64]domain.RatingRecord

	reference int64
	// 人为制造版本冲突的次数，测重试用
	settleConflicts int32
	// 人为制造基线记录的唯一索引冲突，模拟多实例同时首次结算
	ensureConflicts int32

	snapshots map[string][]domain.LeaderboardRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		attempts:  make(map[string]domain.SprintAttempt),
		ratings:   make(map[int64]domain.RatingRecord),
		reference: domain.DefaultReference,
		snapshots: make(map[string][]domain.LeaderboardRow),
	}
}

type fakeAttemptRepo struct {
	store *fakeStore
}

func (f *fakeAttemptRepo) Create(ctx context.Context, attempt domain.SprintAttempt) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.nextId++
	attempt.Id = f.store.nextId
	f.store.attempts[attempt.SN] = attempt
	return attempt.Id, nil
}

func (f *fakeAttemptRepo) GetBySN(ctx context.Context, sn string) (domain.SprintAttempt, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	a, ok := f.store.attempts[sn]
	if !ok {
		return domain.SprintAttempt{}, repository.ErrAttemptNotFound
	}
	return a, nil
}

func (f *fakeAttemptRepo) cas(id int64, from, to domain.AttemptStatus,
	mutate func(a *domain.SprintAttempt)) (bool, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	for sn, a := range f.store.attempts {
		if a.Id != id {
			continue
		}
		if a.Status != from {
			return false, nil
		}
		a.Status = to
		if mutate != nil {
			mutate(&a)
		}
		f.store.attempts[sn] = a
		return true, nil
	}
	return false, nil
}

func (f *fakeAttemptRepo) MarkActive(ctx context.Context, id int64) (bool, error) {
	return f.cas(id, domain.AttemptStatusWarmed, domain.AttemptStatusActive, nil)
}

func (f *fakeAttemptRepo) MarkSubmitted(ctx context.Context, id int64, score int64) (bool, error) {
	return f.cas(id, domain.AttemptStatusActive, domain.AttemptStatusSubmitted,
		func(a *domain.SprintAttempt) {
			a.Score = score
		})
}

func (f *fakeAttemptRepo) MarkRejected(ctx context.Context, id int64) (bool, error) {
	return f.cas(id, domain.AttemptStatusSubmitted, domain.AttemptStatusRejected, nil)
}

func (f *fakeAttemptRepo) MarkExpired(ctx context.Context, id int64, from domain.AttemptStatus) (bool, error) {
	return f.cas(id, from, domain.AttemptStatusExpired, nil)
}

func (f *fakeAttemptRepo) ExpireStale(ctx context.Context, startedBefore int64) (int64, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	var cnt int64
	for sn, a := range f.store.attempts {
		if a.Status.Terminal() || a.Status == domain.AttemptStatusSubmitted {
			continue
		}
		if a.StartedAt < startedBefore {
			a.Status = domain.AttemptStatusExpired
			f.store.attempts[sn] = a
			cnt++
		}
	}
	return cnt, nil
}

type fakeRatingRepo struct {
	store *fakeStore
}

func (f *fakeRatingRepo) GetByUid(ctx context.Context, uid int64) (domain.RatingRecord, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	r, ok := f.store.ratings[uid]
	if !ok {
		return domain.RatingRecord{}, repository.ErrRatingNotFound
	}
	return r, nil
}

func (f *fakeRatingRepo) Ensure(ctx context.Context, uid int64) (domain.RatingRecord, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if atomic.LoadInt32(&f.store.ensureConflicts) > 0 {
		atomic.AddInt32(&f.store.ensureConflicts, -1)
		return domain.RatingRecord{}, repository.ErrConcurrentChange
	}
	if r, ok := f.store.ratings[uid]; ok {
		return r, nil
	}
	r := domain.NewBaselineRecord(uid)
	f.store.ratings[uid] = r
	return r, nil
}

func (f *fakeRatingRepo) Settle(ctx context.Context, attempt domain.SprintAttempt,
	update domain.RatingUpdate, expectedVersion int64) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	if atomic.LoadInt32(&f.store.settleConflicts) > 0 {
		atomic.AddInt32(&f.store.settleConflicts, -1)
		return repository.ErrConcurrentChange
	}
	current, ok := f.store.ratings[attempt.Uid]
	if !ok || current.Version != expectedVersion {
		return repository.ErrConcurrentChange
	}
	var target domain.SprintAttempt
	var sn string
	for s, a := range f.store.attempts {
		if a.Id == attempt.Id {
			target, sn = a, s
			break
		}
	}
	if target.Status != domain.AttemptStatusSubmitted {
		return repository.ErrAttemptSettled
	}
	f.store.ratings[attempt.Uid] = domain.RatingRecord{
		Uid:             attempt.Uid,
		MarketValue:     update.MarketValue,
		PeakMarketValue: update.PeakMarketValue,
		Title:           update.Title,
		Version:         expectedVersion + 1,
	}
	target.Status = domain.AttemptStatusRated
	target.Score = attempt.Score
	target.Delta = update.Delta
	target.NewMarketValue = update.MarketValue
	target.NewPeakMarketValue = update.PeakMarketValue
	target.NewVersion = expectedVersion + 1
	f.store.attempts[sn] = target
	return nil
}

func (f *fakeRatingRepo) TopRatings(ctx context.Context, offset, limit int) ([]domain.RatingRecord, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	all := make([]domain.RatingRecord, 0, len(f.store.ratings))
	for _, r := range f.store.ratings {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].MarketValue != all[j].MarketValue {
			return all[i].MarketValue > all[j].MarketValue
		}
		if all[i].PeakMarketValue != all[j].PeakMarketValue {
			return all[i].PeakMarketValue > all[j].PeakMarketValue
		}
		return all[i].Uid < all[j].Uid
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeRatingRepo) Reference(ctx context.Context) (int64, error) {
	return f.store.reference, nil
}

func (f *fakeRatingRepo) LeaderboardSnapshot(ctx context.Context, key string) ([]domain.LeaderboardRow, error) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	rows, ok := f.store.snapshots[key]
	if !ok {
		return nil, repository.ErrRatingNotFound
	}
	return rows, nil
}

func (f *fakeRatingRepo) SaveLeaderboardSnapshot(ctx context.Context, key string, rows []domain.LeaderboardRow) error {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.snapshots[key] = rows
	return nil
}

type countingProducer struct {
	count atomic.Int64
}

func (p *countingProducer) Produce(ctx context.Context, evt event.SprintRatedEvent) error {
	p.count.Add(1)
	return nil
}
