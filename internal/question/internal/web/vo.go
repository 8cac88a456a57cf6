package web

import (
	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/jobmate/internal/question/internal/domain"
)

type Page struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

type Qid struct {
	Qid int64 `json:"qid"`
}

type SaveReq struct {
	Question Question `json:"question"`
}

type Question struct {
	Id         int64    `json:"id,omitempty"`
	Track      uint8    `json:"track,omitempty"`
	Difficulty uint8    `json:"difficulty,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	Status     uint8    `json:"status,omitempty"`
	Utime      int64    `json:"utime,omitempty"`
}

func (q Question) toDomain() domain.Question {
	return domain.Question{
		Id:         q.Id,
		Track:      q.Track,
		Difficulty: q.Difficulty,
		Labels:     q.Labels,
		Title:      q.Title,
		Content:    q.Content,
		Status:     domain.QuestionStatus(q.Status),
	}
}

func newQuestion(q domain.Question) Question {
	return Question{
		Id:         q.Id,
		Track:      q.Track,
		Difficulty: q.Difficulty,
		Labels:     q.Labels,
		Title:      q.Title,
		Content:    q.Content,
		Status:     q.Status.ToUint8(),
		Utime:      q.Utime.UnixMilli(),
	}
}

type QuestionList struct {
	Total     int64      `json:"total,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

func newQuestionList(qs []domain.Question, total int64) QuestionList {
	return QuestionList{
		Total: total,
		Questions: slice.Map(qs, func(idx int, src domain.Question) Question {
			return newQuestion(src)
		}),
	}
}
