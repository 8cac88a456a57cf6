package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/jobmate/internal/question/internal/service"
	"github.com/gin-gonic/gin"
)

// Handler 题库的制作接口，冲刺抽题不走这里
type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	server.POST("/question/save", ginx.B[SaveReq](h.Save))
	server.POST("/question/list", ginx.B[Page](h.List))
	server.POST("/question/detail", ginx.B[Qid](h.Detail))
}

func (h *Handler) Save(ctx *ginx.Context, req SaveReq) (ginx.Result, error) {
	que := req.Question.toDomain()
	id, err := h.svc.Save(ctx, &que)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: id,
	}, nil
}

func (h *Handler) List(ctx *ginx.Context, req Page) (ginx.Result, error) {
	data, cnt, err := h.svc.List(ctx, req.Offset, req.Limit)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newQuestionList(data, cnt),
	}, nil
}

func (h *Handler) Detail(ctx *ginx.Context, req Qid) (ginx.Result, error) {
	detail, err := h.svc.Detail(ctx, req.Qid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newQuestion(detail),
	}, nil
}
