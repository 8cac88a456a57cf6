package web

import (
	"errors"
	"math"
	"strconv"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/jobmate/internal/arena/internal/domain"
	"github.com/ecodeclub/jobmate/internal/arena/internal/errs"
	"github.com/ecodeclub/jobmate/internal/arena/internal/service"
	"github.com/ecodeclub/jobmate/internal/question"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	sprintSvc      service.SprintService
	leaderboardSvc service.LeaderboardService
}

func NewHandler(sprintSvc service.SprintService,
	leaderboardSvc service.LeaderboardService) *Handler {
	return &Handler{
		sprintSvc:      sprintSvc,
		leaderboardSvc: leaderboardSvc,
	}
}

func (h *Handler) PublicRoutes(server *gin.Engine) {
	server.GET("/arena/ping", ginx.W(h.Ping))
	lb := server.Group("/leaderboard")
	lb.GET("/global", ginx.W(h.GlobalLeaderboard))
	lb.GET("/school", ginx.W(h.SchoolLeaderboard))
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.GET("/questions", ginx.S(h.Draw))
	server.POST("/sprint/submit", ginx.BS[SubmitReq](h.Submit))
}

// Ping 预热探活，客户端在冲刺开始前调用。
// 没有任何副作用，不创建任何记录
func (h *Handler) Ping(ctx *ginx.Context) (ginx.Result, error) {
	return ginx.Result{
		Data: PingResp{Ok: true},
	}, nil
}

// Draw 抽题并预热一个冲刺场次
func (h *Handler) Draw(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	track := domain.ParseTrack(ctx.Query("track").StringOrDefault(""))
	difficulty, err := strconv.ParseUint(ctx.Query("difficulty").StringOrDefault(""), 10, 8)
	if track == domain.TrackUnknown || err != nil || !domain.ValidDifficulty(uint8(difficulty)) {
		return invalidInputResult, nil
	}
	wantPool := ctx.Query("pool").StringOrDefault("") == "true"
	res, err := h.sprintSvc.Start(ctx, sess.Claims().Uid, track, uint8(difficulty), wantPool)
	switch {
	case errors.Is(err, service.ErrNoQuestionsAvailable):
		return errorResult(errs.NoQuestionsAvailable), nil
	case err == nil:
		return ginx.Result{
			Data: DrawResp{
				AttemptSN: res.Attempt.SN,
				StartedAt: res.Attempt.StartedAt,
				Questions: slice.Map(res.Questions, func(idx int, src question.Question) Question {
					return newQuestion(track, src)
				}),
			},
		}, nil
	default:
		return systemErrorResult, err
	}
}

// Submit 提交冲刺结果，结算身价
func (h *Handler) Submit(ctx *ginx.Context, req SubmitReq, sess session.Session) (ginx.Result, error) {
	track := domain.ParseTrack(req.Track)
	if req.AttemptSN == "" || track == domain.TrackUnknown ||
		!domain.ValidDifficulty(req.Difficulty) ||
		req.Score < 0 || req.Score > 1 {
		return invalidInputResult, nil
	}
	outcome := domain.SprintOutcome{
		AttemptSN:  req.AttemptSN,
		Track:      track,
		Difficulty: req.Difficulty,
		Score:      int64(math.Round(req.Score * float64(domain.MaxScore))),
		StartedAt:  req.StartedAt,
		FinishedAt: req.FinishedAt,
	}
	attempt, record, err := h.sprintSvc.Submit(ctx, sess.Claims().Uid, outcome)
	switch {
	case errors.Is(err, service.ErrUnknownAttempt):
		return errorResult(errs.UnknownAttempt), nil
	case errors.Is(err, service.ErrAttemptExpired):
		return errorResult(errs.AttemptExpired), nil
	case errors.Is(err, service.ErrAttemptNotCommittable):
		return errorResult(errs.AttemptNotCommittable), nil
	case errors.Is(err, service.ErrInvalidState):
		return errorResult(errs.InvalidState), nil
	case errors.Is(err, service.ErrInvalidOutcome):
		return errorResult(errs.InvalidOutcome), nil
	case errors.Is(err, service.ErrConcurrentUpdateConflict):
		return errorResult(errs.ConcurrentUpdateConflict), nil
	case err == nil:
		return ginx.Result{
			Data: SubmitResp{
				AttemptSN:       attempt.SN,
				Delta:           attempt.Delta,
				MarketValue:     record.MarketValue,
				PeakMarketValue: record.PeakMarketValue,
				Title:           record.Title,
			},
		}, nil
	default:
		return systemErrorResult, err
	}
}

func (h *Handler) GlobalLeaderboard(ctx *ginx.Context) (ginx.Result, error) {
	limit, _ := strconv.Atoi(ctx.Query("limit").StringOrDefault(""))
	rows, err := h.leaderboardSvc.GlobalTop(ctx, limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: slice.Map(rows, func(idx int, src domain.LeaderboardRow) LeaderboardRow {
			return newLeaderboardRow(src)
		}),
	}, nil
}

func (h *Handler) SchoolLeaderboard(ctx *ginx.Context) (ginx.Result, error) {
	school := ctx.Query("school").StringOrDefault("")
	if school == "" {
		return invalidInputResult, nil
	}
	limit, _ := strconv.Atoi(ctx.Query("limit").StringOrDefault(""))
	rows, err := h.leaderboardSvc.SchoolTop(ctx, school, limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: slice.Map(rows, func(idx int, src domain.LeaderboardRow) LeaderboardRow {
			return newLeaderboardRow(src)
		}),
	}, nil
}
