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
	"sync"
	"testing"
	"time"

	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoordinatorForTest(store *fakeStore) (MatchCoordinator, *fakeAttemptRepo, *fakeRatingRepo, *countingProducer) {
	attemptRepo := &fakeAttemptRepo{store: store}
	ratingRepo := &fakeRatingRepo{store: store}
	producer := &countingProducer{}
	return NewMatchCoordinator(ratingRepo, attemptRepo, producer), attemptRepo, ratingRepo, producer
}

func submittedAttempt(t *testing.T, repo *fakeAttemptRepo, uid int64, sn string, score int64) domain.SprintAttempt {
	t.Helper()
	id, err := repo.Create(context.Background(), domain.SprintAttempt{
		SN:         sn,
		Uid:        uid,
		Track:      domain.TrackTechnical,
		Difficulty: 3,
		Status:     domain.AttemptStatusWarmed,
		StartedAt:  time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	ok, err := repo.MarkActive(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.MarkSubmitted(context.Background(), id, score)
	require.NoError(t, err)
	require.True(t, ok)
	a, err := repo.GetBySN(context.Background(), sn)
	require.NoError(t, err)
	return a
}

func outcomeOf(a domain.SprintAttempt, score int64) domain.SprintOutcome {
	return domain.SprintOutcome{
		AttemptSN:  a.SN,
		Track:      a.Track,
		Difficulty: a.Difficulty,
		Score:      score,
		StartedAt:  a.StartedAt,
		FinishedAt: a.StartedAt + 1000,
	}
}

func TestCoordinator_Commit(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, _, producer := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 101, "sn-commit", 9000)

	record, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	require.NoError(t, err)
	// 基线 1000，参照 1200，K=32，得分 9000 => +21
	assert.Equal(t, int64(1021), record.MarketValue)
	assert.Equal(t, int64(1021), record.PeakMarketValue)
	assert.Equal(t, int64(2), record.Version)

	settled, err := attemptRepo.GetBySN(context.Background(), attempt.SN)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptStatusRated, settled.Status)
	assert.Equal(t, int64(21), settled.Delta)
	assert.Equal(t, int64(1021), settled.NewMarketValue)
	assert.Equal(t, int64(1), producer.count.Load())
}

func TestCoordinator_Commit_ReplaysRated(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, _, producer := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 102, "sn-replay", 9000)

	first, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	require.NoError(t, err)
	// 重复提交不产生第二次身价变动
	second, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	require.NoError(t, err)
	assert.Equal(t, first.MarketValue, second.MarketValue)
	assert.Equal(t, first.Version, second.Version)
	assert.Equal(t, int64(1), producer.count.Load())
}

func TestCoordinator_Commit_ReplayAfterLaterCommit(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)
	first := submittedAttempt(t, attemptRepo, 108, "sn-replay-first", 9000)
	second := submittedAttempt(t, attemptRepo, 108, "sn-replay-second", 0)

	firstRecord, err := coordinator.Commit(context.Background(), first, outcomeOf(first, 9000))
	require.NoError(t, err)
	assert.Equal(t, int64(1021), firstRecord.MarketValue)
	assert.Equal(t, int64(2), firstRecord.Version)

	secondRecord, err := coordinator.Commit(context.Background(), second, outcomeOf(second, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1013), secondRecord.MarketValue)
	assert.Equal(t, int64(3), secondRecord.Version)

	// 重放返回第一个场次当时的结算结果，不受后续场次的结算影响
	replayed, err := coordinator.Commit(context.Background(), first, outcomeOf(first, 9000))
	require.NoError(t, err)
	assert.Equal(t, firstRecord, replayed)
}

func TestCoordinator_Commit_SettlesWithSubmittedScore(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 109, "sn-resubmit", 9000)

	// 上一次结算中途失败后的重试带了另一个得分，
	// 以 SUBMITTED 时落库的 9000 为准
	record, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1021), record.MarketValue)

	settled, err := attemptRepo.GetBySN(context.Background(), attempt.SN)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), settled.Score)
	assert.Equal(t, int64(21), settled.Delta)
}

func TestCoordinator_Commit_NotCommittable(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)

	id, err := attemptRepo.Create(context.Background(), domain.SprintAttempt{
		SN:         "sn-rejected",
		Uid:        103,
		Track:      domain.TrackTechnical,
		Difficulty: 3,
		Status:     domain.AttemptStatusWarmed,
		StartedAt:  time.Now().UnixMilli(),
	})
	require.NoError(t, err)
	_, err = attemptRepo.MarkActive(context.Background(), id)
	require.NoError(t, err)
	_, err = attemptRepo.MarkSubmitted(context.Background(), id, 100)
	require.NoError(t, err)
	_, err = attemptRepo.MarkRejected(context.Background(), id)
	require.NoError(t, err)

	attempt, err := attemptRepo.GetBySN(context.Background(), "sn-rejected")
	require.NoError(t, err)
	_, err = coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 100))
	assert.ErrorIs(t, err, ErrAttemptNotCommittable)
}

func TestCoordinator_Commit_Concurrent(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, ratingRepo, producer := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 104, "sn-race", 9000)
	outcome := outcomeOf(attempt, 9000)

	const n = 20
	var wg sync.WaitGroup
	results := make([]domain.RatingRecord, n)
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = coordinator.Commit(context.Background(), attempt, outcome)
		}(i)
	}
	wg.Wait()

	// 恰好生效一次，所有并发请求拿到同一个结果
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, int64(1021), results[i].MarketValue)
	}
	record, err := ratingRepo.GetByUid(context.Background(), 104)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Version)
	assert.Equal(t, int64(1), producer.count.Load())
}

func TestCoordinator_Commit_SequentialAttempts(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, ratingRepo, _ := newCoordinatorForTest(store)

	first := submittedAttempt(t, attemptRepo, 105, "sn-a", 9000)
	_, err := coordinator.Commit(context.Background(), first, outcomeOf(first, 9000))
	require.NoError(t, err)

	second := submittedAttempt(t, attemptRepo, 105, "sn-b", 0)
	_, err = coordinator.Commit(context.Background(), second, outcomeOf(second, 0))
	require.NoError(t, err)

	record, err := ratingRepo.GetByUid(context.Background(), 105)
	require.NoError(t, err)
	// 两个场次各生效一次
	assert.Equal(t, int64(3), record.Version)
}

func TestCoordinator_Commit_ConcurrentDistinctAttempts(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	coordinator, attemptRepo, ratingRepo, producer := newCoordinatorForTest(store)

	scores := []int64{9000, 0, 10000, 2500, 7500, 5000, 1000, 8000}
	n := len(scores)
	attempts := make([]domain.SprintAttempt, n)
	for i := 0; i < n; i++ {
		attempts[i] = submittedAttempt(t, attemptRepo, 110,
			fmt.Sprintf("sn-multi-%d", i), scores[i])
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(idx int) {
			defer wg.Done()
			_, errs[idx] = coordinator.Commit(context.Background(),
				attempts[idx], outcomeOf(attempts[idx], scores[idx]))
		}(i)
	}
	wg.Wait()

	// N 个不同场次并发结算，每个恰好生效一次，没有丢失更新
	var sum int64
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		a, err := attemptRepo.GetBySN(context.Background(), attempts[i].SN)
		require.NoError(t, err)
		assert.Equal(t, domain.AttemptStatusRated, a.Status)
		sum += a.Delta
	}
	record, err := ratingRepo.GetByUid(context.Background(), 110)
	require.NoError(t, err)
	assert.Equal(t, int64(n+1), record.Version)
	// 终值等于基线依次叠加全部增量
	assert.Equal(t, domain.BaselineRating+sum, record.MarketValue)
	assert.Equal(t, int64(n), producer.count.Load())
}

func TestCoordinator_Commit_RetriesOnBaselineRace(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.ensureConflicts = 1
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 111, "sn-baseline-race", 9000)

	// 另一个实例抢先插入了基线记录，唯一索引冲突走重试而不是报错
	record, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	require.NoError(t, err)
	assert.Equal(t, int64(1021), record.MarketValue)
}

func TestCoordinator_Commit_RetriesOnVersionConflict(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.settleConflicts = 2
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 106, "sn-retry", 9000)

	record, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	require.NoError(t, err)
	assert.Equal(t, int64(1021), record.MarketValue)
}

func TestCoordinator_Commit_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.settleConflicts = 100
	coordinator, attemptRepo, _, _ := newCoordinatorForTest(store)
	attempt := submittedAttempt(t, attemptRepo, 107, "sn-giveup", 9000)

	_, err := coordinator.Commit(context.Background(), attempt, outcomeOf(attempt, 9000))
	assert.ErrorIs(t, err, ErrConcurrentUpdateConflict)
}
