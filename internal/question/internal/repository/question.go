package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ekit/sqlx"
	"github.com/ecodeclub/jobmate/internal/question/internal/domain"
	"github.com/ecodeclub/jobmate/internal/question/internal/repository/cache"
	"github.com/ecodeclub/jobmate/internal/question/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
)

//go:generate mockgen -source=./question.go -destination=./mocks/question.mock.go -package=repomocks -typed=true Repository
type Repository interface {
	Save(ctx context.Context, q domain.Question) (int64, error)
	List(ctx context.Context, offset, limit int) ([]domain.Question, error)
	Total(ctx context.Context) (int64, error)
	GetById(ctx context.Context, id int64) (domain.Question, error)
	// PubPool 已发表题池，带缓存
	PubPool(ctx context.Context, track, difficulty uint8) ([]domain.Question, error)
}

type cachedRepository struct {
	dao    dao.QuestionDAO
	cache  cache.QuestionCache
	logger *elog.Component
}

func NewCachedRepository(d dao.QuestionDAO, c cache.QuestionCache) Repository {
	return &cachedRepository{
		dao:    d,
		cache:  c,
		logger: elog.DefaultLogger,
	}
}

func (r *cachedRepository) Save(ctx context.Context, q domain.Question) (int64, error) {
	return r.dao.Save(ctx, r.toEntity(q))
}

func (r *cachedRepository) List(ctx context.Context, offset, limit int) ([]domain.Question, error) {
	entities, err := r.dao.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	return slice.Map(entities, func(idx int, src dao.Question) domain.Question {
		return r.toDomain(src)
	}), nil
}

func (r *cachedRepository) Total(ctx context.Context) (int64, error) {
	return r.dao.Count(ctx)
}

func (r *cachedRepository) GetById(ctx context.Context, id int64) (domain.Question, error) {
	entity, err := r.dao.FindById(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	return r.toDomain(entity), nil
}

func (r *cachedRepository) PubPool(ctx context.Context, track, difficulty uint8) ([]domain.Question, error) {
	qs, err := r.cache.GetPool(ctx, track, difficulty)
	if err == nil {
		return qs, nil
	}
	if !errors.Is(err, cache.ErrPoolNotFound) {
		r.logger.Warn("读取题池缓存失败", elog.FieldErr(err))
	}
	entities, err := r.dao.FindPool(ctx, track, difficulty)
	if err != nil {
		return nil, err
	}
	qs = slice.Map(entities, func(idx int, src dao.Question) domain.Question {
		return r.toDomain(src)
	})
	if cerr := r.cache.SetPool(ctx, track, difficulty, qs); cerr != nil {
		r.logger.Warn("写入题池缓存失败", elog.FieldErr(cerr))
	}
	return qs, nil
}

func (r *cachedRepository) toEntity(q domain.Question) dao.Question {
	return dao.Question{
		Id:         q.Id,
		Track:      q.Track,
		Difficulty: q.Difficulty,
		Labels: sqlx.JsonColumn[[]string]{
			Val:   q.Labels,
			Valid: len(q.Labels) > 0,
		},
		Title:   q.Title,
		Content: q.Content,
		Status:  q.Status.ToUint8(),
	}
}

func (r *cachedRepository) toDomain(entity dao.Question) domain.Question {
	return domain.Question{
		Id:         entity.Id,
		Track:      entity.Track,
		Difficulty: entity.Difficulty,
		Labels:     entity.Labels.Val,
		Title:      entity.Title,
		Content:    entity.Content,
		Status:     domain.QuestionStatus(entity.Status),
		Utime:      time.UnixMilli(entity.Utime),
	}
}
